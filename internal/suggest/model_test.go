package suggest

import (
	"errors"
	"testing"

	"kharcha/internal/core"
)

func trainingSamples() []Sample {
	var samples []Sample
	for i := 0; i < 6; i++ {
		samples = append(samples, Sample{Description: "office lunch thali", Category: core.Food})
		samples = append(samples, Sample{Description: "cab fare office", Category: core.Transportation})
	}
	return samples
}

func TestTrainModelAndPredict(t *testing.T) {
	model, err := TrainModel(trainingSamples(), 10)
	if err != nil {
		t.Fatalf("TrainModel() error = %v", err)
	}
	if model.SampleCount() != 12 {
		t.Errorf("SampleCount() = %d, want 12", model.SampleCount())
	}

	cat, conf, ok := model.Predict("lunch thali")
	if !ok {
		t.Fatal("Predict() ok = false")
	}
	if cat != core.Food {
		t.Errorf("Predict(lunch thali) = %s, want %s", cat, core.Food)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("Predict() confidence = %v, want within (0,1]", conf)
	}
}

func TestTrainModelTooFewSamples(t *testing.T) {
	samples := trainingSamples()[:4]
	if _, err := TrainModel(samples, 10); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("TrainModel(4 samples) error = %v, want ErrInsufficientHistory", err)
	}
}

func TestTrainModelSingleClass(t *testing.T) {
	var samples []Sample
	for i := 0; i < 12; i++ {
		samples = append(samples, Sample{Description: "office lunch", Category: core.Food})
	}
	if _, err := TrainModel(samples, 10); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("TrainModel(single class) error = %v, want ErrInsufficientHistory", err)
	}
}

func TestTrainModelSkipsBadSamples(t *testing.T) {
	samples := trainingSamples()
	samples = append(samples,
		Sample{Description: "mystery spend", Category: "Groceries"},
		Sample{Description: "   ", Category: core.Food},
	)

	model, err := TrainModel(samples, 10)
	if err != nil {
		t.Fatalf("TrainModel() error = %v", err)
	}
	if model.SampleCount() != 12 {
		t.Errorf("SampleCount() = %d, want 12 with bad samples skipped", model.SampleCount())
	}
}

func TestPredictEmptyDescription(t *testing.T) {
	model, err := TrainModel(trainingSamples(), 10)
	if err != nil {
		t.Fatalf("TrainModel() error = %v", err)
	}
	if _, _, ok := model.Predict("   "); ok {
		t.Error("Predict(blank) ok = true, want false")
	}
}
