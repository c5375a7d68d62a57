package suggest

import (
	"errors"
	"math"
	"strings"

	"github.com/jbrukh/bayesian"

	"kharcha/internal/core"
)

// ErrInsufficientHistory is returned by TrainModel when the labeled history
// is too small or too uniform to fit a classifier.
var ErrInsufficientHistory = errors.New("insufficient labeled history to train model")

// Sample is one labeled training example.
type Sample struct {
	Description string
	Category    core.Category
}

// Model is an immutable classifier snapshot built by TrainModel. It is safe
// for concurrent readers; a retrain produces a new Model.
type Model struct {
	classes []bayesian.Class
	cl      *bayesian.Classifier
	trained int
}

// TrainModel fits a TF-IDF naive Bayes classifier on the given samples.
// Samples with an unknown category or an empty normalized description are
// skipped. At least minHistory usable samples spanning two categories are
// required.
func TrainModel(samples []Sample, minHistory int) (*Model, error) {
	type labeled struct {
		terms []string
		class bayesian.Class
	}

	var usable []labeled
	seen := make(map[core.Category]bool)
	for _, s := range samples {
		if !core.KnownCategory(s.Category) {
			continue
		}
		terms := strings.Fields(Normalize(s.Description))
		if len(terms) == 0 {
			continue
		}
		usable = append(usable, labeled{terms: terms, class: bayesian.Class(s.Category)})
		seen[s.Category] = true
	}

	if len(usable) < minHistory || len(seen) < 2 {
		return nil, ErrInsufficientHistory
	}

	classes := make([]bayesian.Class, 0, len(seen))
	for cat := range seen {
		classes = append(classes, bayesian.Class(cat))
	}

	cl := bayesian.NewClassifierTfIdf(classes...)
	for _, s := range usable {
		cl.Learn(s.terms, s.class)
	}
	cl.ConvertTermsFreqToTfIdf()

	return &Model{classes: classes, cl: cl, trained: len(usable)}, nil
}

// SampleCount reports how many samples the model was fitted on.
func (m *Model) SampleCount() int {
	return m.trained
}

// Predict classifies a description and returns the winning category with a
// probability from a softmax over the classifier's log scores. ok is false
// when the description carries no usable terms.
func (m *Model) Predict(description string) (core.Category, float64, bool) {
	terms := strings.Fields(Normalize(description))
	if len(terms) == 0 {
		return core.Other, 0, false
	}

	scores, best, _ := m.cl.LogScores(terms)
	if len(scores) == 0 {
		return core.Other, 0, false
	}

	max := scores[0]
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - max)
	}
	confidence := math.Exp(scores[best]-max) / sum

	return core.Category(m.classes[best]), confidence, true
}
