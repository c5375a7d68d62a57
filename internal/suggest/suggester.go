package suggest

import (
	"sync"

	"kharcha/internal/core"
)

// Suggestion is the outcome of one Suggest call.
type Suggestion struct {
	Category   core.Category `json:"category"`
	Confidence float64       `json:"confidence"`
	Source     string        `json:"source"`
}

// suggestion sources
const (
	SourceRules    = "rules"
	SourcePattern  = "pattern"
	SourceModel    = "model"
	SourceAmount   = "amount"
	SourceFallback = "fallback"
)

// fallback confidences
const (
	fallbackConfidence = 0.2
	weakSignalFloor    = 0.3
	patternThreshold   = 0.8
	amountConfidence   = 0.6
)

// Options tune the suggestion pipeline.
type Options struct {
	RuleThreshold  float64 // rule result accepted at or above this
	ModelThreshold float64 // model consulted when rules score below this
	MinHistory     int     // samples needed before a model can be trained
}

// DefaultOptions mirror the configuration defaults.
func DefaultOptions() Options {
	return Options{RuleThreshold: 0.70, ModelThreshold: 0.50, MinHistory: 10}
}

// Suggester runs the two-stage pipeline: keyword rules and spending
// patterns first, then the trained model when the rules are unsure.
// Suggest never mutates state; Retrain swaps in a fresh model snapshot.
type Suggester struct {
	profiles Profiles
	opts     Options

	mu    sync.RWMutex
	model *Model
}

func New(profiles Profiles, opts Options) *Suggester {
	if opts.RuleThreshold == 0 && opts.ModelThreshold == 0 && opts.MinHistory == 0 {
		opts = DefaultOptions()
	}
	return &Suggester{profiles: profiles, opts: opts}
}

// Suggest returns a category guess for a description and amount. It is a
// pure function of its inputs and the current model snapshot.
func (s *Suggester) Suggest(description string, amount core.Money) Suggestion {
	s.mu.RLock()
	model := s.model
	s.mu.RUnlock()
	return s.SuggestWith(model, description, amount)
}

// SuggestWith runs the pipeline against an explicit model snapshot. A nil
// model means keyword-only mode.
func (s *Suggester) SuggestWith(model *Model, description string, amount core.Money) Suggestion {
	desc := Normalize(description)
	if desc == "" {
		return Suggestion{Category: core.Other, Confidence: 0, Source: SourceFallback}
	}

	ruleCat, ruleConf := scoreByKeywords(s.profiles, desc)
	if ruleConf >= s.opts.RuleThreshold {
		return Suggestion{Category: ruleCat, Confidence: ruleConf, Source: SourceRules}
	}

	patCat, patConf := scoreByPatterns(desc)
	if patConf >= patternThreshold {
		return Suggestion{Category: patCat, Confidence: patConf, Source: SourcePattern}
	}

	if model != nil && ruleConf < s.opts.ModelThreshold {
		if cat, conf, ok := model.Predict(description); ok && conf > ruleConf && conf > patConf {
			return Suggestion{Category: cat, Confidence: conf, Source: SourceModel}
		}
	}

	if hint := amountHint(desc, amount); hint != "" && ruleConf < s.opts.ModelThreshold {
		return Suggestion{Category: hint, Confidence: amountConfidence, Source: SourceAmount}
	}

	if ruleConf > weakSignalFloor {
		return Suggestion{Category: ruleCat, Confidence: ruleConf, Source: SourceRules}
	}
	if patConf > weakSignalFloor {
		return Suggestion{Category: patCat, Confidence: patConf, Source: SourcePattern}
	}
	return Suggestion{Category: core.Other, Confidence: fallbackConfidence, Source: SourceFallback}
}

// Retrain fits a new model on the labeled history and swaps it in. On
// ErrInsufficientHistory the previous model is kept.
func (s *Suggester) Retrain(samples []Sample) error {
	model, err := TrainModel(samples, s.opts.MinHistory)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
	return nil
}

// HasModel reports whether a trained snapshot is installed.
func (s *Suggester) HasModel() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil
}

// ModelSampleCount reports the size of the installed snapshot's training
// set, zero when no model is installed.
func (s *Suggester) ModelSampleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return 0
	}
	return s.model.SampleCount()
}
