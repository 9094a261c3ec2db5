package format

import (
	"testing"

	"obralog/internal/model"
)

func TestDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2023-11-15", "15 nov 2023"},
		{"2024-02-01", "01 fev 2024"},
		{"2024-01-09T10:30:00Z", "09 jan 2024"},
		{"", ""},
		{"   ", ""},
		{"not-a-date", "not-a-date"},
	}
	for _, tc := range cases {
		if got := Date(tc.in); got != tc.want {
			t.Fatalf("Date(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleLookup(t *testing.T) {
	if got := RoleName("electrician"); got != "Eletricista" {
		t.Fatalf("RoleName(electrician) = %q", got)
	}
	if got := RoleName("custom_123"); got != "Profissional" {
		t.Fatalf("RoleName fallback = %q", got)
	}
	if got := RoleIcon("bricklayer"); got != "🧱" {
		t.Fatalf("RoleIcon(bricklayer) = %q", got)
	}
	if got := RoleIcon("unknown"); got != "👤" {
		t.Fatalf("RoleIcon fallback = %q", got)
	}
}

func TestRoleOptions(t *testing.T) {
	p := &model.Project{
		Stages: model.StageMap{
			"bricklayer":   {Label: "Alvenaria", Active: true},
			"custom_17000": {Label: "Paisagismo", Active: true},
			"painter":      {Label: "Pintura", Active: false},
		},
		StageOrder: []string{"bricklayer", "custom_17000", "painter"},
	}

	opts := RoleOptions(p)

	// Active stages first, in stage order.
	if opts[0].Key != "bricklayer" || opts[1].Key != "custom_17000" {
		t.Fatalf("expected active stages first, got %+v", opts[:2])
	}
	// Inactive stage keys don't appear as stage entries, but the base
	// catalogue still offers the role.
	counts := map[string]int{}
	for _, o := range opts {
		counts[o.Key]++
	}
	for k, n := range counts {
		if n != 1 {
			t.Fatalf("role %q appears %d times", k, n)
		}
	}
	if counts["painter"] != 1 {
		t.Fatalf("expected painter from base catalogue")
	}
	if counts["architect"] != 1 || counts["plumber"] != 1 {
		t.Fatalf("expected remaining base roles, got %+v", opts)
	}

	// Nil project: base catalogue only.
	if got := len(RoleOptions(nil)); got != 5 {
		t.Fatalf("RoleOptions(nil) len = %d, want 5", got)
	}
}
