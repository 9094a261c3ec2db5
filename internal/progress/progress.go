// Package progress derives a project's overall completion from its stages.
package progress

import (
	"math"

	"obralog/internal/model"
)

// Overall returns round(mean(progress of active stages)), or 0 when no
// stage is active. It always recomputes from scratch; the persisted
// aggregate must never be adjusted incrementally or it drifts from its
// constituents.
func Overall(stages model.StageMap) int {
	sum := 0
	n := 0
	for _, s := range stages {
		if !s.Active {
			continue
		}
		sum += clamp(s.Progress)
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// OverallWith computes the aggregate as if stage key carried the given
// progress value. Used when the stage write and the aggregate recompute
// must land in the same document update.
func OverallWith(stages model.StageMap, key string, value int) int {
	if st, ok := stages[key]; ok {
		patched := make(model.StageMap, len(stages))
		for k, v := range stages {
			patched[k] = v
		}
		st.Progress = value
		patched[key] = st
		return Overall(patched)
	}
	return Overall(stages)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
