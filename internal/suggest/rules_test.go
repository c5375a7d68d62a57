package suggest

import (
	"testing"

	"kharcha/internal/core"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Uber  Ride!!", "uber ride"},
		{"  Lunch @ Cafe  ", "lunch cafe"},
		{"", ""},
		{"...", ""},
		{"chai-wala", "chai wala"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreByKeywords(t *testing.T) {
	profiles, err := DefaultProfiles()
	if err != nil {
		t.Fatalf("DefaultProfiles() error = %v", err)
	}

	tests := []struct {
		desc string
		want core.Category
	}{
		{"uber ride", core.Transportation},
		{"starbucks coffee", core.Food},
		{"netflix subscription", core.Entertainment},
		{"electricity bill", core.Bills},
		{"college tuition fee", core.Education},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, conf := scoreByKeywords(profiles, tt.desc)
			if got != tt.want {
				t.Errorf("scoreByKeywords(%q) = %s, want %s", tt.desc, got, tt.want)
			}
			if conf <= 0 || conf > 1 {
				t.Errorf("scoreByKeywords(%q) confidence = %v, want within (0,1]", tt.desc, conf)
			}
		})
	}

	if cat, conf := scoreByKeywords(profiles, "zxqv wlrm"); cat != core.Other || conf != 0 {
		t.Errorf("scoreByKeywords(no match) = (%s, %v), want (Other, 0)", cat, conf)
	}
}

func TestScoreByKeywordsTieIsDeterministic(t *testing.T) {
	// Two categories share the only matching keyword, so their scores tie
	// and the margin is zero. The earlier category in display order wins,
	// on every call.
	profiles := Profiles{
		core.Shopping: {"voucher"},
		core.Other:    {"voucher"},
	}

	first, conf := scoreByKeywords(profiles, "voucher")
	if first != core.Shopping {
		t.Fatalf("scoreByKeywords(tie) = %s, want Shopping", first)
	}
	if conf <= 0 || conf > 1 {
		t.Fatalf("scoreByKeywords(tie) confidence = %v, want within (0,1]", conf)
	}
	for i := 0; i < 50; i++ {
		if got, _ := scoreByKeywords(profiles, "voucher"); got != first {
			t.Fatalf("scoreByKeywords(tie) = %s on call %d, want %s every time", got, i+2, first)
		}
	}
}

func TestScoreByPatterns(t *testing.T) {
	tests := []struct {
		desc string
		want core.Category
	}{
		{"uber ride booking yesterday", core.Transportation},
		{"ordered dinner from the dhaba", core.Food},
		{"netflix subscription renewed", core.Entertainment},
		{"electricity bill for july", core.Bills},
		{"doctor visit in the morning", core.Healthcare},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, conf := scoreByPatterns(Normalize(tt.desc))
			if got != tt.want {
				t.Errorf("scoreByPatterns(%q) = %s, want %s", tt.desc, got, tt.want)
			}
			if conf < patternThreshold {
				t.Errorf("scoreByPatterns(%q) confidence = %v, want >= %v", tt.desc, conf, patternThreshold)
			}
		})
	}

	if _, conf := scoreByPatterns("plain text without signals"); conf != 0 {
		t.Errorf("scoreByPatterns(no match) confidence = %v, want 0", conf)
	}
}

func TestAmountHint(t *testing.T) {
	tests := []struct {
		name  string
		desc  string
		paise int64
		want  core.Category
	}{
		{"tiny amount defaults to food", "roadside stall", 5000, core.Food},
		{"tiny transit", "metro token", 3000, core.Transportation},
		{"mid-range movie", "weekend movie", 30000, core.Entertainment},
		{"large electronics", "new laptop emi down", 500000, core.Shopping},
		{"very large rent", "monthly rent", 2000000, core.Bills},
		{"no signal in 100-500 band", "something vague", 30000, ""},
		{"zero amount", "whatever", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := amountHint(Normalize(tt.desc), core.Money{Paise: tt.paise})
			if got != tt.want {
				t.Errorf("amountHint(%q, %d paise) = %q, want %q", tt.desc, tt.paise, got, tt.want)
			}
		})
	}
}
