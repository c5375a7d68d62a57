package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"kharcha/internal/core"
)

// trend classification bounds, in rupees of daily change
const (
	trendIncreasing = 10.0
	trendDecreasing = -10.0
)

// Insights is the full spending analysis for a set of expenses.
type Insights struct {
	Status          string           `json:"status"`
	Period          Period           `json:"period,omitempty"`
	Summary         SpendingSummary  `json:"summary,omitempty"`
	Trend           Trend            `json:"trend,omitempty"`
	Weekly          WeeklyPatterns   `json:"weekly,omitempty"`
	Anomalies       Anomalies        `json:"anomalies,omitempty"`
	Health          FinancialHealth  `json:"health,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

type Period struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	Days         int    `json:"days"`
	Transactions int    `json:"transactions"`
}

type SpendingSummary struct {
	Total              core.Money `json:"total"`
	AverageDaily       float64    `json:"average_daily_rupees"`
	MedianDaily        float64    `json:"median_daily_rupees"`
	MaxDaily           float64    `json:"max_daily_rupees"`
	AverageTransaction float64    `json:"average_transaction_rupees"`
	LargestTransaction core.Money `json:"largest_transaction"`
	SpendingDays       int        `json:"spending_days"`
}

type Trend struct {
	Direction   string  `json:"direction"`
	DailyChange float64 `json:"daily_change_rupees"`
}

type WeeklyPatterns struct {
	AverageByDay []core.WeekdayAverage `json:"average_by_day"`
	PeakDay      string                `json:"peak_day"`
	LowestDay    string                `json:"lowest_day"`
	WeekendAvg   float64               `json:"weekend_avg_rupees"`
	WeekdayAvg   float64               `json:"weekday_avg_rupees"`
}

type Anomalies struct {
	HighOutliers  []core.Expense    `json:"high_outliers"`
	ThresholdHigh float64           `json:"threshold_high_rupees"`
	UnusualDays   []core.DailyTotal `json:"unusual_days"`
}

type FinancialHealth struct {
	Score   int                `json:"score"`
	Status  string             `json:"status"`
	Factors map[string]float64 `json:"factors"`
}

type Recommendation struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// AnalyzeSpending builds the full insight set from an expense history. It is
// a pure function; an empty history yields an insufficient_data status.
func AnalyzeSpending(expenses []core.Expense) Insights {
	if len(expenses) == 0 {
		return Insights{Status: "insufficient_data"}
	}

	sorted := make([]core.Expense, len(expenses))
	copy(sorted, expenses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	daily := dailyTotals(sorted)
	insights := Insights{
		Status:  "success",
		Period:  buildPeriod(sorted),
		Summary: buildSummary(sorted, daily),
		Trend:   buildTrend(daily),
		Weekly:  buildWeekly(sorted),
	}
	insights.Anomalies = detectAnomalies(sorted, daily)
	insights.Health = assessHealth(sorted, daily)
	insights.Recommendations = buildRecommendations(sorted, daily, insights)
	return insights
}

func dailyTotals(sorted []core.Expense) []core.DailyTotal {
	var totals []core.DailyTotal
	for _, e := range sorted {
		n := len(totals)
		if n > 0 && totals[n-1].Date.Equal(e.Date.Time) {
			totals[n-1].Total.Paise += e.Amount.Paise
			continue
		}
		totals = append(totals, core.DailyTotal{Date: e.Date, Total: e.Amount})
	}
	return totals
}

func buildPeriod(sorted []core.Expense) Period {
	start := sorted[0].Date
	end := sorted[len(sorted)-1].Date
	return Period{
		Start:        start.String(),
		End:          end.String(),
		Days:         int(end.Sub(start.Time).Hours()/24) + 1,
		Transactions: len(sorted),
	}
}

func buildSummary(sorted []core.Expense, daily []core.DailyTotal) SpendingSummary {
	var summary SpendingSummary
	var largest core.Money
	for _, e := range sorted {
		summary.Total.Paise += e.Amount.Paise
		if e.Amount.Paise > largest.Paise {
			largest = e.Amount
		}
	}
	summary.LargestTransaction = largest
	summary.AverageTransaction = summary.Total.Rupees() / float64(len(sorted))
	summary.SpendingDays = len(daily)

	amounts := make([]float64, len(daily))
	var max float64
	for i, d := range daily {
		amounts[i] = d.Total.Rupees()
		if amounts[i] > max {
			max = amounts[i]
		}
	}
	summary.AverageDaily = mean(amounts)
	summary.MedianDaily = median(amounts)
	summary.MaxDaily = max
	return summary
}

// buildTrend fits a least-squares line through the daily totals and
// classifies the slope.
func buildTrend(daily []core.DailyTotal) Trend {
	if len(daily) < 3 {
		return Trend{Direction: "unknown"}
	}

	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(daily))
	for i, d := range daily {
		x := float64(i)
		y := d.Total.Rupees()
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Trend{Direction: "stable"}
	}
	slope := (n*sumXY - sumX*sumY) / denom

	direction := "stable"
	if slope > trendIncreasing {
		direction = "increasing"
	} else if slope < trendDecreasing {
		direction = "decreasing"
	}
	return Trend{Direction: direction, DailyChange: slope}
}

func buildWeekly(sorted []core.Expense) WeeklyPatterns {
	type bucket struct {
		sum   float64
		count int
	}
	byDay := make(map[time.Weekday]*bucket)
	var weekendSum, weekdaySum float64
	var weekendCount, weekdayCount int

	for _, e := range sorted {
		wd := e.Date.Weekday()
		b := byDay[wd]
		if b == nil {
			b = &bucket{}
			byDay[wd] = b
		}
		rupees := e.Amount.Rupees()
		b.sum += rupees
		b.count++
		if wd == time.Saturday || wd == time.Sunday {
			weekendSum += rupees
			weekendCount++
		} else {
			weekdaySum += rupees
			weekdayCount++
		}
	}

	var patterns WeeklyPatterns
	var peakAvg, lowAvg float64
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		b := byDay[wd]
		if b == nil {
			continue
		}
		avg := b.sum / float64(b.count)
		patterns.AverageByDay = append(patterns.AverageByDay, core.WeekdayAverage{
			Weekday: wd.String(),
			Average: core.Money{Paise: int64(math.Round(avg * 100))},
		})
		if patterns.PeakDay == "" || avg > peakAvg {
			patterns.PeakDay = wd.String()
			peakAvg = avg
		}
		if patterns.LowestDay == "" || avg < lowAvg {
			patterns.LowestDay = wd.String()
			lowAvg = avg
		}
	}
	if weekendCount > 0 {
		patterns.WeekendAvg = weekendSum / float64(weekendCount)
	}
	if weekdayCount > 0 {
		patterns.WeekdayAvg = weekdaySum / float64(weekdayCount)
	}
	return patterns
}

// detectAnomalies flags IQR outlier transactions and days more than two
// standard deviations from the daily mean.
func detectAnomalies(sorted []core.Expense, daily []core.DailyTotal) Anomalies {
	var anomalies Anomalies
	if len(sorted) < 5 {
		return anomalies
	}

	amounts := make([]float64, len(sorted))
	for i, e := range sorted {
		amounts[i] = e.Amount.Rupees()
	}
	sort.Float64s(amounts)
	q1 := quantile(amounts, 0.25)
	q3 := quantile(amounts, 0.75)
	iqr := q3 - q1
	high := q3 + 1.5*iqr
	anomalies.ThresholdHigh = high

	for _, e := range sorted {
		if e.Amount.Rupees() > high {
			anomalies.HighOutliers = append(anomalies.HighOutliers, e)
		}
	}
	if len(anomalies.HighOutliers) > 5 {
		anomalies.HighOutliers = anomalies.HighOutliers[len(anomalies.HighOutliers)-5:]
	}

	dailyAmounts := make([]float64, len(daily))
	for i, d := range daily {
		dailyAmounts[i] = d.Total.Rupees()
	}
	m := mean(dailyAmounts)
	sd := stddev(dailyAmounts, m)
	if sd > 0 {
		for _, d := range daily {
			if math.Abs(d.Total.Rupees()-m) > 2*sd {
				anomalies.UnusualDays = append(anomalies.UnusualDays, d)
			}
		}
	}
	return anomalies
}

// assessHealth scores spending on four factors: consistency (30 points),
// category diversity (20), recent trend (25), and outlier discipline (25).
func assessHealth(sorted []core.Expense, daily []core.DailyTotal) FinancialHealth {
	factors := make(map[string]float64)
	score := 100.0

	dailyAmounts := make([]float64, len(daily))
	for i, d := range daily {
		dailyAmounts[i] = d.Total.Rupees()
	}
	m := mean(dailyAmounts)
	var cv float64
	if m > 0 {
		cv = stddev(dailyAmounts, m) / m
	}
	consistency := math.Max(0, 30-cv*10)
	score -= 30 - consistency
	factors["consistency"] = consistency / 30

	categories := make(map[core.Category]bool)
	for _, e := range sorted {
		categories[e.Category] = true
	}
	diversity := math.Min(20, float64(len(categories))*3)
	score -= 20 - diversity
	factors["diversity"] = diversity / 20

	trendPenalty := 5.0
	if len(dailyAmounts) >= 7 {
		recent := buildTrend(daily[len(daily)-7:])
		switch recent.Direction {
		case "increasing":
			trendPenalty = 15
		case "decreasing":
			trendPenalty = 0
		}
	}
	score -= trendPenalty
	factors["trend"] = (25 - trendPenalty) / 25

	amounts := make([]float64, len(sorted))
	for i, e := range sorted {
		amounts[i] = e.Amount.Rupees()
	}
	sort.Float64s(amounts)
	q1 := quantile(amounts, 0.25)
	q3 := quantile(amounts, 0.75)
	iqr := q3 - q1
	var outliers int
	for _, a := range amounts {
		if a < q1-1.5*iqr || a > q3+1.5*iqr {
			outliers++
		}
	}
	outlierPct := float64(outliers) / float64(len(amounts)) * 100
	outlierPenalty := math.Min(25, outlierPct*2.5)
	score -= outlierPenalty
	factors["discipline"] = (25 - outlierPenalty) / 25

	score = math.Max(0, math.Min(100, score))
	status := "needs_improvement"
	switch {
	case score >= 85:
		status = "excellent"
	case score >= 70:
		status = "good"
	case score >= 55:
		status = "fair"
	}
	return FinancialHealth{Score: int(math.Round(score)), Status: status, Factors: factors}
}

func buildRecommendations(sorted []core.Expense, daily []core.DailyTotal, insights Insights) []Recommendation {
	var recs []Recommendation

	// Recent week vs overall daily average
	if len(daily) > 0 {
		cutoff := sorted[len(sorted)-1].Date.AddDate(0, 0, -7)
		var recentSum float64
		var recentDays int
		for _, d := range daily {
			if !d.Date.Before(cutoff) {
				recentSum += d.Total.Rupees()
				recentDays++
			}
		}
		if recentDays > 0 && insights.Summary.AverageDaily > 0 {
			recentAvg := recentSum / float64(recentDays)
			if recentAvg > insights.Summary.AverageDaily*1.2 {
				pct := (recentAvg/insights.Summary.AverageDaily - 1) * 100
				recs = append(recs, Recommendation{
					Type:    "warning",
					Title:   "Spending increase detected",
					Message: "Your daily spending is up " + formatPercent(pct) + " this week.",
					Action:  "Review recent transactions and consider a daily limit",
				})
			}
		}
	}

	// Dominant category
	byCategory := make(map[core.Category]float64)
	var total float64
	for _, e := range sorted {
		byCategory[e.Category] += e.Amount.Rupees()
		total += e.Amount.Rupees()
	}
	var topCat core.Category
	var topAmount float64
	for cat, amount := range byCategory {
		if amount > topAmount {
			topCat = cat
			topAmount = amount
		}
	}
	if total > 0 && topAmount/total > 0.4 {
		pct := topAmount / total * 100
		recs = append(recs, Recommendation{
			Type:    "info",
			Title:   string(topCat) + " dominates spending",
			Message: string(topCat) + " accounts for " + formatPercent(pct) + " of your expenses.",
			Action:  "Consider a dedicated budget for " + string(topCat),
		})
	}

	// Weekend premium
	if insights.Weekly.WeekdayAvg > 0 && insights.Weekly.WeekendAvg > insights.Weekly.WeekdayAvg*1.5 {
		pct := (insights.Weekly.WeekendAvg/insights.Weekly.WeekdayAvg - 1) * 100
		recs = append(recs, Recommendation{
			Type:    "tip",
			Title:   "Weekend spending pattern",
			Message: "You spend " + formatPercent(pct) + " more on weekends.",
			Action:  "Plan weekend activities within a budget",
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Type:    "success",
			Title:   "Good spending habits",
			Message: "Your spending patterns look healthy and consistent.",
			Action:  "Consider automating savings for surplus funds",
		})
	}
	return recs
}

func formatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stddev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// quantile uses linear interpolation on a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
