package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// DailyTotal is one point of the daily spending series.
type DailyTotal struct {
	Date  Date
	Total Money
}

// WeekdayAverage is the mean spend for one day of the week.
type WeekdayAverage struct {
	Weekday string
	Average Money
}
