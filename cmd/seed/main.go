// Command seed fills the configured backend with plausible demo expenses
// for the last 30 days, enough history to train the category classifier.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"kharcha/internal/backend"
	"kharcha/internal/cli"
	"kharcha/internal/core"
)

type categoryProfile struct {
	minPaise     int64
	maxPaise     int64
	descriptions []string
}

var profiles = map[core.Category]categoryProfile{
	core.Food: {5000, 50000, []string{
		"Lunch at restaurant", "Grocery shopping", "Coffee", "Dinner with friends", "Street food", "Pizza delivery",
	}},
	core.Transportation: {2000, 20000, []string{
		"Bus fare", "Taxi ride", "Metro card recharge", "Fuel", "Parking fee", "Auto rickshaw",
	}},
	core.Entertainment: {10000, 80000, []string{
		"Movie tickets", "Concert", "Gaming", "Streaming subscription", "Sports event", "Museum visit",
	}},
	core.Shopping: {20000, 200000, []string{
		"Clothes", "Electronics", "Books", "Home decor", "Gadgets", "Shoes",
	}},
	core.Bills: {50000, 300000, []string{
		"Electricity bill", "Internet bill", "Phone bill", "Rent", "Water bill", "Gas bill",
	}},
	core.Healthcare: {10000, 150000, []string{
		"Medicine", "Doctor visit", "Health checkup", "Dental care", "Eye test", "Physiotherapy",
	}},
	core.Education: {20000, 100000, []string{
		"Course fee", "Books", "Online subscription", "Tuition", "Workshop", "Certification",
	}},
	core.Other: {5000, 30000, []string{
		"Gift", "Donation", "Miscellaneous", "Travel", "Emergency", "Repair",
	}},
}

func main() {
	days := flag.Int("days", 30, "number of past days to fill")
	seed := flag.Int64("seed", 0, "random seed, 0 for time-based")
	flag.Parse()

	logger := cli.SetupLogger("seed")
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	store, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	ctx := context.Background()
	categories := core.Categories()
	today := time.Now()

	var count int
	for daysAgo := 0; daysAgo < *days; daysAgo++ {
		day := today.AddDate(0, 0, -daysAgo)
		date := core.NewDate(day.Year(), int(day.Month()), day.Day())

		// 0-4 expenses per day
		for i := rng.Intn(5); i > 0; i-- {
			category := categories[rng.Intn(len(categories))]
			profile := profiles[category]

			expense := core.Expense{
				Date:        date,
				Amount:      core.Money{Paise: profile.minPaise + rng.Int63n(profile.maxPaise-profile.minPaise+1)},
				Category:    category,
				Description: profile.descriptions[rng.Intn(len(profile.descriptions))],
			}
			if _, err := store.Repo.Append(ctx, expense); err != nil {
				logger.Error("Failed to save demo expense", "error", err)
				os.Exit(1)
			}
			count++
		}
	}

	logger.Info("Demo data generated", "expenses", count, "days", *days, "backend", cfg.DataBackend)
}
