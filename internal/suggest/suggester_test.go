package suggest

import (
	"errors"
	"testing"

	"kharcha/internal/core"
)

func newTestSuggester(t *testing.T) *Suggester {
	t.Helper()
	profiles, err := DefaultProfiles()
	if err != nil {
		t.Fatalf("DefaultProfiles() error = %v", err)
	}
	return New(profiles, DefaultOptions())
}

func TestSuggestKnownKeyword(t *testing.T) {
	s := newTestSuggester(t)

	got := s.Suggest("uber ride", core.Money{})
	if got.Category != core.Transportation {
		t.Errorf("Suggest(uber ride) = %s, want %s", got.Category, core.Transportation)
	}
	if got.Confidence <= fallbackConfidence {
		t.Errorf("Suggest(uber ride) confidence = %v, want above fallback %v", got.Confidence, fallbackConfidence)
	}
}

func TestSuggestEmptyDescription(t *testing.T) {
	s := newTestSuggester(t)

	for _, desc := range []string{"", "   ", "\t\n"} {
		got := s.Suggest(desc, core.Money{})
		if got.Category != core.Other || got.Confidence != 0 {
			t.Errorf("Suggest(%q) = (%s, %v), want (Other, 0)", desc, got.Category, got.Confidence)
		}
	}
}

func TestSuggestIdempotent(t *testing.T) {
	s := newTestSuggester(t)

	first := s.Suggest("Starbucks coffee", core.Money{Paise: 35000})
	second := s.Suggest("Starbucks coffee", core.Money{Paise: 35000})
	if first != second {
		t.Errorf("repeated Suggest() differed: %+v vs %+v", first, second)
	}
}

func TestSuggestStarbucksCoffee(t *testing.T) {
	s := newTestSuggester(t)

	got := s.Suggest("Starbucks coffee", core.Money{})
	if got.Category != core.Food {
		t.Errorf("Suggest(Starbucks coffee) = %s, want %s", got.Category, core.Food)
	}
	if got.Confidence < 0.6 {
		t.Errorf("Suggest(Starbucks coffee) confidence = %v, want >= 0.6", got.Confidence)
	}
}

func TestSuggestConfidenceRange(t *testing.T) {
	s := newTestSuggester(t)

	descs := []string{
		"",
		"uber ride to airport",
		"Starbucks coffee",
		"monthly rent payment",
		"asdf qwerty",
		"bought clothes and shoes at the mall",
		"netflix subscription payment",
		"doctor visit and medicine",
	}
	for _, desc := range descs {
		got := s.Suggest(desc, core.Money{Paise: 50000})
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Suggest(%q) confidence = %v, want within [0,1]", desc, got.Confidence)
		}
	}
}

func TestSuggestFallback(t *testing.T) {
	s := newTestSuggester(t)

	got := s.Suggest("zxqv wlrm", core.Money{})
	if got.Category != core.Other || got.Confidence != fallbackConfidence {
		t.Errorf("Suggest(gibberish) = (%s, %v), want (Other, %v)", got.Category, got.Confidence, fallbackConfidence)
	}
	if got.Source != SourceFallback {
		t.Errorf("Suggest(gibberish) source = %s, want %s", got.Source, SourceFallback)
	}
}

func TestSuggestAmountHint(t *testing.T) {
	s := newTestSuggester(t)

	got := s.Suggest("morning chai", core.Money{Paise: 2500})
	if got.Category != core.Food {
		t.Errorf("Suggest(morning chai, 25 rupees) = %s, want %s", got.Category, core.Food)
	}
}

func TestRetrainThenSuggest(t *testing.T) {
	s := newTestSuggester(t)

	var samples []Sample
	for i := 0; i < 6; i++ {
		samples = append(samples, Sample{Description: "blorf snerg", Category: core.Food})
		samples = append(samples, Sample{Description: "quix zapp", Category: core.Transportation})
	}
	if err := s.Retrain(samples); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}
	if !s.HasModel() {
		t.Fatal("HasModel() = false after successful Retrain")
	}

	got := s.Suggest("blorf snerg", core.Money{})
	if got.Category != core.Food {
		t.Errorf("Suggest(blorf snerg) = %s, want %s", got.Category, core.Food)
	}
	if got.Source != SourceModel {
		t.Errorf("Suggest(blorf snerg) source = %s, want %s", got.Source, SourceModel)
	}
	if got.Confidence <= 0 || got.Confidence > 1 {
		t.Errorf("Suggest(blorf snerg) confidence = %v, want within (0,1]", got.Confidence)
	}
}

func TestRetrainInsufficientHistory(t *testing.T) {
	s := newTestSuggester(t)

	err := s.Retrain([]Sample{{Description: "lunch", Category: core.Food}})
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("Retrain(1 sample) error = %v, want ErrInsufficientHistory", err)
	}
	if s.HasModel() {
		t.Error("HasModel() = true after failed Retrain")
	}
}

func TestRetrainKeepsPreviousModelOnFailure(t *testing.T) {
	s := newTestSuggester(t)

	var samples []Sample
	for i := 0; i < 6; i++ {
		samples = append(samples, Sample{Description: "blorf snerg", Category: core.Food})
		samples = append(samples, Sample{Description: "quix zapp", Category: core.Transportation})
	}
	if err := s.Retrain(samples); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}

	if err := s.Retrain(nil); !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("Retrain(nil) error = %v, want ErrInsufficientHistory", err)
	}
	if !s.HasModel() {
		t.Error("previous model was dropped after a failed retrain")
	}
}
