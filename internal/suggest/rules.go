package suggest

import (
	"regexp"
	"strings"

	"kharcha/internal/core"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize lowercases a description and strips punctuation, collapsing
// runs of whitespace. The result is the form every stage matches against.
func Normalize(description string) string {
	desc := strings.ToLower(strings.TrimSpace(description))
	desc = nonWordRe.ReplaceAllString(desc, " ")
	desc = whitespaceRe.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

// keyword match weights
const (
	phraseWeight    = 2.0
	wordWeight      = 1.5
	multiWordWeight = 2.5
)

// scoreByKeywords matches the normalized description against every profile
// and returns the best category with a confidence in [0,1]. Confidence
// combines how much of the description the keywords explain with the margin
// over the runner-up category.
func scoreByKeywords(profiles Profiles, desc string) (core.Category, float64) {
	words := strings.Fields(desc)
	if len(words) == 0 {
		return core.Other, 0
	}
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	// Fixed category order keeps ties deterministic across calls.
	best := core.Other
	var top, second float64
	for _, cat := range core.Categories() {
		keywords := profiles[cat]
		var score float64
		for _, keyword := range keywords {
			kw := strings.ToLower(keyword)
			if strings.Contains(desc, kw) {
				score += phraseWeight
				continue
			}
			kwWords := strings.Fields(kw)
			if len(kwWords) == 1 {
				if wordSet[kw] {
					score += wordWeight
				}
				continue
			}
			all := true
			for _, w := range kwWords {
				if !wordSet[w] {
					all = false
					break
				}
			}
			if all {
				score += multiWordWeight
			}
		}
		if score > top {
			second = top
			top = score
			best = cat
		} else if score > second {
			second = score
		}
	}
	if top == 0 {
		return core.Other, 0
	}

	coverage := top / (multiWordWeight * float64(len(words)))
	if coverage > 1 {
		coverage = 1
	}
	margin := (top - second) / top
	confidence := coverage*0.7 + margin*0.3
	if confidence > 1 {
		confidence = 1
	}
	return best, confidence
}

type categoryPattern struct {
	category core.Category
	re       *regexp.Regexp
}

var spendingPatterns = []categoryPattern{
	{core.Food, regexp.MustCompile(`\b(bought|ordered|ate|had)\s+(food|dinner|lunch|breakfast)\b`)},
	{core.Food, regexp.MustCompile(`\b(restaurant|cafe|dhaba)\b`)},
	{core.Food, regexp.MustCompile(`\b(zomato|swiggy|dominos|pizza|burger)\b`)},
	{core.Food, regexp.MustCompile(`\b(grocery|vegetables|fruits|milk|bread)\b`)},
	{core.Transportation, regexp.MustCompile(`\b(uber|ola|taxi|auto|cab)\s+(ride|trip|booking)\b`)},
	{core.Transportation, regexp.MustCompile(`\b(bus|train|metro|flight)\s+(ticket|fare)\b`)},
	{core.Transportation, regexp.MustCompile(`\b(fuel|petrol|diesel)\s+(filled|tank)\b`)},
	{core.Transportation, regexp.MustCompile(`\b(parking|toll|challan)\b`)},
	{core.Shopping, regexp.MustCompile(`\b(amazon|flipkart|myntra)\b`)},
	{core.Shopping, regexp.MustCompile(`\b(bought|purchased|ordered)\s+(clothes|shoes|mobile|laptop)\b`)},
	{core.Shopping, regexp.MustCompile(`\b(shopping|mall|store)\b`)},
	{core.Entertainment, regexp.MustCompile(`\b(movie|cinema|show|concert)\s+(ticket|booking)\b`)},
	{core.Entertainment, regexp.MustCompile(`\b(netflix|spotify|prime)\s+(subscription|payment)\b`)},
	{core.Entertainment, regexp.MustCompile(`\b(game|gaming|entertainment)\b`)},
	{core.Healthcare, regexp.MustCompile(`\b(doctor|hospital|clinic)\s+(visit|consultation|checkup)\b`)},
	{core.Healthcare, regexp.MustCompile(`\b(medicine|pharmacy|tablet)\b`)},
	{core.Healthcare, regexp.MustCompile(`\b(medical|health|dental)\s+(bill|payment|insurance)\b`)},
	{core.Bills, regexp.MustCompile(`\b(electricity|water|gas|internet|wifi)\s+(bill|payment)\b`)},
	{core.Bills, regexp.MustCompile(`\b(mobile|phone)\s+(recharge|bill)\b`)},
	{core.Bills, regexp.MustCompile(`\b(rent|maintenance|emi)\s+(payment|paid)\b`)},
}

// scoreByPatterns matches spending phrases. A single hit scores 0.8; repeated
// hits of the same pattern push the score toward 1.
func scoreByPatterns(desc string) (core.Category, float64) {
	best := core.Other
	var top float64
	for _, p := range spendingPatterns {
		hits := len(p.re.FindAllString(desc, -1))
		if hits == 0 {
			continue
		}
		confidence := 0.8 + 0.2*float64(hits-1)
		if confidence > 1 {
			confidence = 1
		}
		if confidence > top {
			top = confidence
			best = p.category
		}
	}
	return best, top
}

func containsAny(desc string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(desc, w) {
			return true
		}
	}
	return false
}

// amountHint applies spend-band heuristics. Bands are in whole rupees.
// An empty return means the band gives no signal.
func amountHint(desc string, amount core.Money) core.Category {
	rupees := amount.Rupees()
	if rupees <= 0 {
		return ""
	}

	switch {
	case rupees < 100:
		if containsAny(desc, "coffee", "tea", "snack", "chai", "juice", "water") {
			return core.Food
		}
		if containsAny(desc, "auto", "bus", "metro", "parking", "toll") {
			return core.Transportation
		}
		return core.Food
	case rupees < 500:
		if containsAny(desc, "movie", "game", "ticket", "entertainment") {
			return core.Entertainment
		}
		if containsAny(desc, "uber", "ola", "taxi", "fuel", "petrol") {
			return core.Transportation
		}
		if containsAny(desc, "medicine", "pharmacy", "doctor") {
			return core.Healthcare
		}
		return ""
	case rupees < 2000:
		if containsAny(desc, "restaurant", "dining", "dinner") {
			return core.Food
		}
		if containsAny(desc, "clothes", "shoes", "shopping", "mall") {
			return core.Shopping
		}
		if containsAny(desc, "bill", "recharge", "internet", "mobile") {
			return core.Bills
		}
		return ""
	case rupees < 10000:
		if containsAny(desc, "rent", "maintenance", "electricity", "insurance") {
			return core.Bills
		}
		if containsAny(desc, "laptop", "phone", "tv", "electronics", "appliance") {
			return core.Shopping
		}
		if containsAny(desc, "hospital", "surgery", "treatment", "medical") {
			return core.Healthcare
		}
		return core.Shopping
	default:
		if containsAny(desc, "rent", "emi", "loan", "insurance") {
			return core.Bills
		}
		if containsAny(desc, "laptop", "mobile", "car", "bike", "gold", "investment") {
			return core.Shopping
		}
		return core.Bills
	}
}
