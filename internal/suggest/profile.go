// Package suggest guesses a spending category from an expense description.
// A keyword rule stage runs first; a naive Bayes model trained on the user's
// labeled history is consulted when the rules are unsure.
package suggest

import (
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"kharcha/internal/core"
)

//go:embed profiles.yaml
var defaultProfilesYAML []byte

// Profiles maps each category to its representative keywords and phrases.
type Profiles map[core.Category][]string

// DefaultProfiles returns the built-in keyword profiles.
func DefaultProfiles() (Profiles, error) {
	return parseProfiles(defaultProfilesYAML)
}

// LoadProfiles reads keyword profiles from a YAML file. Categories in the
// file replace the built-in ones; categories absent from the file keep
// their defaults.
func LoadProfiles(path string) (Profiles, error) {
	base, err := DefaultProfiles()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles %s: %w", path, err)
	}
	override, err := parseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	for cat, keywords := range override {
		base[cat] = keywords
	}
	return base, nil
}

func parseProfiles(data []byte) (Profiles, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal profiles: %w", err)
	}

	profiles := make(Profiles, len(raw))
	for name, keywords := range raw {
		cat, err := core.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("profiles: %w: %s", core.ErrUnknownCategory, name)
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("profiles: category %s has no keywords", cat)
		}
		profiles[cat] = keywords
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profiles: no categories defined")
	}
	return profiles, nil
}
