// Package main provides the catalog and rotation verification tool.
// It lints the configured catalog and previews the upcoming rotation so
// operators can confirm a catalog change before deploying it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/app"
	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	"github.com/garyellow/whs-tipbot-go/internal/config"
	"github.com/garyellow/whs-tipbot-go/internal/format"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/rotation"
)

// Verification results
type verifyResult struct {
	name    string
	passed  bool
	message string
}

func main() {
	var (
		fromFlag = flag.String("from", "", "preview start date as YYYY-MM-DD (default: today)")
		days     = flag.Int("days", 14, "number of days to preview")
	)
	flag.Parse()

	fmt.Println("🔍 WHS TipBot - Catalog Verification Tool")
	fmt.Println("=========================================")

	cfg, err := config.LoadForMode(config.VerifyMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("error")
	engine := rotation.NewEngine(rotation.DefaultRules(), log, nil)

	from := time.Now().In(cfg.Location())
	if *fromFlag != "" {
		from, err = time.ParseInLocation(time.DateOnly, *fromFlag, cfg.Location())
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Invalid -from, want YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		}
	}

	cat, results := loadCatalog(cfg)
	if cat != nil {
		results = append(results, verifyCatalog(cat)...)
		results = append(results, verifyOverrides(cat, engine.Rules())...)
	}

	fmt.Println("\n📊 Verification Results:")
	fmt.Println("========================")

	passedCount := 0
	failedCount := 0

	for _, result := range results {
		status := "❌"
		if result.passed {
			status = "✅"
			passedCount++
		} else {
			failedCount++
		}
		fmt.Printf("%s %s: %s\n", status, result.name, result.message)
	}

	fmt.Printf("\n📈 Summary: %d passed, %d failed\n", passedCount, failedCount)

	if cat != nil && failedCount == 0 {
		printPreview(cat, engine, from, *days)
	}

	if failedCount > 0 {
		os.Exit(1)
	}
}

// loadCatalog loads the configured catalog and reports the outcome as a result row.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, []verifyResult) {
	ctx, cancel := context.WithTimeout(context.Background(), config.CatalogFetch)
	defer cancel()

	source, err := app.BuildSource(ctx, cfg)
	if err != nil {
		return nil, []verifyResult{{
			name:    "Catalog Source",
			passed:  false,
			message: err.Error(),
		}}
	}

	cat, err := source.Load(ctx)
	if err != nil {
		return nil, []verifyResult{{
			name:    "Catalog Load",
			passed:  false,
			message: err.Error(),
		}}
	}

	return cat, []verifyResult{{
		name:    "Catalog Load",
		passed:  true,
		message: fmt.Sprintf("Loaded from %s", source.Name()),
	}}
}

// verifyCatalog checks catalog shape beyond what loading already validated.
func verifyCatalog(cat *catalog.Catalog) []verifyResult {
	results := []verifyResult{
		{
			name:    "Topic Count",
			passed:  len(cat.Topics) > 0,
			message: fmt.Sprintf("%d topics, %d messages total", len(cat.Topics), cat.MessageCount()),
		},
	}

	for _, topic := range cat.Topics {
		results = append(results, verifyResult{
			name:    "Topic " + topic.Code,
			passed:  len(topic.Messages) > 0,
			message: fmt.Sprintf("%q with %d messages", topic.Name, len(topic.Messages)),
		})
	}

	return results
}

// verifyOverrides checks that every override week maps to a topic that
// exists in the catalog, so no run falls back to modulo unexpectedly.
func verifyOverrides(cat *catalog.Catalog, rules rotation.Rules) []verifyResult {
	results := []verifyResult{}

	for week, code := range rules.Overrides {
		_, found := cat.FindTopic(code)
		message := "Topic present in catalog"
		if !found {
			message = fmt.Sprintf("Topic %q missing; week %d would fall back to rotation", code, week)
		}
		results = append(results, verifyResult{
			name:    fmt.Sprintf("Override Week %d → %s", week, code),
			passed:  found,
			message: message,
		})
	}

	return results
}

// printPreview renders the upcoming selections, one row per day.
func printPreview(cat *catalog.Catalog, engine *rotation.Engine, from time.Time, days int) {
	formatter := format.NewDefaultFormatter()

	fmt.Printf("\n📅 Rotation Preview (%d days from %s):\n", days, from.Format(time.DateOnly))
	fmt.Println("==========================================")

	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)

		topic, err := engine.PickWeeklyTopic(cat, date)
		if err != nil {
			fmt.Printf("%s  ❌ %v\n", date.Format(time.DateOnly), err)
			continue
		}
		msg, _, err := engine.PickDailyMessage(topic, date)
		if err != nil {
			fmt.Printf("%s  ❌ %v\n", date.Format(time.DateOnly), err)
			continue
		}

		fmt.Printf("%s  week %2d  %-6s %s\n",
			date.Format(time.DateOnly), engine.WeekNumber(date), topic.Code, msg.Title)
	}

	topic, err := engine.PickWeeklyTopic(cat, from)
	if err != nil {
		return
	}
	msg, _, err := engine.PickDailyMessage(topic, from)
	if err != nil {
		return
	}

	fmt.Printf("\n💬 Sample message for %s:\n\n%s\n", from.Format(time.DateOnly), formatter.Compose(topic, msg))
}
