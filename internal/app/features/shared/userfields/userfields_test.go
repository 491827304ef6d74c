package userfields_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/disputehub/internal/app/features/shared/userfields"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
)

func decode(t *testing.T, body string, allowed []string) patch.Fields {
	t.Helper()
	f, err := patch.Decode(strings.NewReader(body), allowed...)
	if err != nil {
		t.Fatalf("Decode(%s): %v", body, err)
	}
	return f
}

func TestSet(t *testing.T) {
	f := decode(t, `{"name":" Ada <i>L</i> ","profilePicture":"https://img/x.png","zip":""}`, userfields.Profile)
	set, err := userfields.Set(f)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if set["name"] != "Ada L" {
		t.Errorf("name = %q", set["name"])
	}
	if set["profile_picture"] != "https://img/x.png" {
		t.Errorf("profile_picture = %q", set["profile_picture"])
	}
	if v, ok := set["zip"]; !ok || v != "" {
		t.Errorf("zip should be cleared, got %v (%v)", v, ok)
	}
}

func TestSet_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":"  "}`},
		{"bad email", `{"email":"not-an-email"}`},
		{"nothing", `{}`},
		{"non-string", `{"phone":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := patch.Decode(strings.NewReader(tt.body), userfields.Admin...)
			if err != nil {
				return
			}
			if _, err := userfields.Set(f); err == nil {
				t.Errorf("Set(%s) succeeded, want error", tt.body)
			}
		})
	}
}

func TestAdminExcludesRole(t *testing.T) {
	for _, k := range userfields.Admin {
		if k == "role" {
			t.Fatal("role must not be editable")
		}
	}
	if _, err := patch.Decode(strings.NewReader(`{"role":"admin"}`), userfields.Admin...); err == nil {
		t.Error("role key accepted")
	}
}
