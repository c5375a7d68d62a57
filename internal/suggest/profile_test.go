package suggest

import (
	"os"
	"path/filepath"
	"testing"

	"kharcha/internal/core"
)

func TestDefaultProfiles(t *testing.T) {
	profiles, err := DefaultProfiles()
	if err != nil {
		t.Fatalf("DefaultProfiles() error = %v", err)
	}
	for _, cat := range core.Categories() {
		if len(profiles[cat]) == 0 {
			t.Errorf("default profiles missing keywords for %s", cat)
		}
	}
}

func TestLoadProfilesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := "Food:\n  - tiffin\n  - mess\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles() error = %v", err)
	}
	if got := profiles[core.Food]; len(got) != 2 || got[0] != "tiffin" {
		t.Errorf("Food keywords = %v, want the override", got)
	}
	if len(profiles[core.Transportation]) == 0 {
		t.Error("Transportation defaults were lost by the override")
	}
}

func TestLoadProfilesUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("Groceries:\n  - milk\n"), 0644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	if _, err := LoadProfiles(path); err == nil {
		t.Error("LoadProfiles() accepted an unknown category")
	}
}

func TestLoadProfilesEmptyPath(t *testing.T) {
	profiles, err := LoadProfiles("")
	if err != nil {
		t.Fatalf("LoadProfiles(\"\") error = %v", err)
	}
	if len(profiles) == 0 {
		t.Error("LoadProfiles(\"\") returned no profiles")
	}
}
