// Package format holds the pure presentation helpers shared by the TUI and
// the scriptable CLI: pt-BR date formatting and role name/icon lookup.
package format

import (
	"fmt"
	"strings"
	"time"

	"obralog/internal/model"
)

var ptMonths = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// Date renders an ISO date (YYYY-MM-DD) as "02 nov 2023".
// Unparseable input falls back to the raw string; empty stays empty.
func Date(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	// Diary dates may carry a time suffix (RFC 3339); the day part is enough.
	if len(iso) > 10 {
		iso = iso[:10]
	}
	parsed, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%02d %s %d", parsed.Day(), ptMonths[parsed.Month()-1], parsed.Year())
}

var roleNames = map[string]string{
	"architect":   "Arquiteto",
	"electrician": "Eletricista",
	"plumber":     "Encanador",
	"bricklayer":  "Pedreiro",
	"painter":     "Pintor",
	"carpenter":   "Marceneiro",
}

var roleIcons = map[string]string{
	"architect":   "📐",
	"electrician": "⚡",
	"plumber":     "💧",
	"bricklayer":  "🧱",
	"painter":     "🖌️",
	"carpenter":   "🪚",
}

// RoleName returns the localized display name for a role key, falling back
// to the generic "Profissional" for unrecognized keys.
func RoleName(role string) string {
	if n, ok := roleNames[role]; ok {
		return n
	}
	return "Profissional"
}

func RoleIcon(role string) string {
	if ic, ok := roleIcons[role]; ok {
		return ic
	}
	return "👤"
}

// RoleOption is one entry of the update form's "who is posting" picker.
type RoleOption struct {
	Key   string
	Label string
}

var baseRoles = []RoleOption{
	{Key: "architect", Label: "Arquiteto / Eng. Responsável"},
	{Key: "bricklayer", Label: "Pedreiro / Alvenaria"},
	{Key: "electrician", Label: "Eletricista"},
	{Key: "plumber", Label: "Encanador / Hidráulica"},
	{Key: "painter", Label: "Pintor"},
}

// RoleOptions builds the picker entries for a project: the project's active
// stages first (this is how custom stages become postable roles), then the
// base catalogue entries not already covered by a stage key.
func RoleOptions(p *model.Project) []RoleOption {
	var out []RoleOption
	added := map[string]bool{}
	if p != nil {
		for _, key := range p.OrderedStageKeys() {
			st := p.Stages[key]
			if !st.Active {
				continue
			}
			out = append(out, RoleOption{Key: key, Label: st.Label})
			added[key] = true
		}
	}
	for _, r := range baseRoles {
		if !added[r.Key] {
			out = append(out, r)
		}
	}
	return out
}
