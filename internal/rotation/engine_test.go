package rotation

import (
	"errors"
	"testing"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	domerrors "github.com/garyellow/whs-tipbot-go/internal/errors"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Topics: []catalog.Topic{
			{Code: "MSD", Name: "Manual Handling", Messages: []catalog.Message{
				{Title: "Bend your knees", Text: "Keep the load close."},
				{Title: "Ask for help", Text: "Two-person lift over 25 kg."},
				{Title: "Plan the route", Text: "Clear the path first."},
			}},
			{Code: "SFM", Name: "Forklift Safety", Messages: []catalog.Message{
				{Title: "Stay in sight", Text: "Make eye contact with the driver."},
			}},
			{Code: "CONV", Name: "Conveyor Safety", Messages: []catalog.Message{
				{Title: "Mind the pinch points", Text: "Keep sleeves tight."},
			}},
			{Code: "COLD", Name: "Cold Stress", Messages: []catalog.Message{
				{Title: "Layer up", Text: "Warm-up breaks every hour."},
			}},
		},
	}
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestEngine() *Engine {
	return NewEngine(DefaultRules(), logger.New("error"), nil)
}

func TestWeekNumber(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()

	tests := []struct {
		name string
		date string
		want int
	}{
		{name: "anchor day is week 1", date: "2024-12-29", want: 1},
		{name: "anchor saturday still week 1", date: "2025-01-04", want: 1},
		{name: "next sunday starts week 2", date: "2025-01-05", want: 2},
		{name: "week 48 mid-week", date: "2025-11-26", want: 48},
		{name: "week 48 starts sunday", date: "2025-11-23", want: 48},
		{name: "day before anchor is week 0", date: "2024-12-28", want: 0},
		{name: "week before anchor", date: "2024-12-22", want: 0},
		{name: "two weeks before anchor", date: "2024-12-15", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := engine.WeekNumber(date(tt.date)); got != tt.want {
				t.Errorf("WeekNumber(%s) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestPickWeeklyTopic(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	cat := testCatalog()

	tests := []struct {
		name     string
		date     string
		wantCode string
	}{
		// Override weeks from the production table.
		{name: "week 5 override", date: "2025-01-26", wantCode: "SFM"},
		{name: "week 27 override", date: "2025-06-29", wantCode: "COLD"},
		{name: "week 48 override", date: "2025-11-26", wantCode: "MSD"},
		// Modulo fallback: week mod 4, no offset adjustment.
		{name: "week 1 falls back to index 1", date: "2024-12-29", wantCode: "SFM"},
		{name: "week 2 falls back to index 2", date: "2025-01-05", wantCode: "CONV"},
		{name: "week 4 falls back to index 0", date: "2025-01-19", wantCode: "MSD"},
		{name: "pre-anchor week 0 picks index 0", date: "2024-12-28", wantCode: "MSD"},
		{name: "pre-anchor week -1 picks index 3", date: "2024-12-15", wantCode: "COLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			topic, err := engine.PickWeeklyTopic(cat, date(tt.date))
			if err != nil {
				t.Fatalf("PickWeeklyTopic(%s) error: %v", tt.date, err)
			}
			if topic.Code != tt.wantCode {
				t.Errorf("PickWeeklyTopic(%s) = %s, want %s", tt.date, topic.Code, tt.wantCode)
			}
		})
	}
}

func TestPickWeeklyTopicOverrideFallback(t *testing.T) {
	t.Parallel()

	// Override week 5 names a topic that is not in the catalog; the
	// selection must fall back to modulo and the run must not abort.
	rules := DefaultRules()
	rules.Overrides = map[int]string{5: "GONE"}
	engine := NewEngine(rules, logger.New("error"), nil)
	cat := testCatalog()

	topic, err := engine.PickWeeklyTopic(cat, date("2025-01-26")) // week 5
	if err != nil {
		t.Fatalf("PickWeeklyTopic error: %v", err)
	}
	if want := "SFM"; topic.Code != want { // 5 mod 4 = 1
		t.Errorf("fallback topic = %s, want %s", topic.Code, want)
	}
}

func TestPickWeeklyTopicEmptyCatalog(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	_, err := engine.PickWeeklyTopic(&catalog.Catalog{}, date("2025-01-01"))
	if !errors.Is(err, domerrors.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestPickDailyMessage(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	topic := &testCatalog().Topics[0] // 3 messages

	tests := []struct {
		name      string
		date      string
		wantIndex int
	}{
		{name: "daily anchor is index 0", date: "2025-01-01", wantIndex: 0},
		{name: "three days later wraps to 0", date: "2025-01-04", wantIndex: 0},
		{name: "next day is index 1", date: "2025-01-02", wantIndex: 1},
		{name: "day before anchor wraps to 2", date: "2024-12-31", wantIndex: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg, index, err := engine.PickDailyMessage(topic, date(tt.date))
			if err != nil {
				t.Fatalf("PickDailyMessage(%s) error: %v", tt.date, err)
			}
			if index != tt.wantIndex {
				t.Errorf("PickDailyMessage(%s) index = %d, want %d", tt.date, index, tt.wantIndex)
			}
			if msg != &topic.Messages[tt.wantIndex] {
				t.Errorf("PickDailyMessage(%s) returned wrong message", tt.date)
			}
		})
	}
}

func TestPickDailyMessageNoMessages(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	topic := &catalog.Topic{Code: "MSD", Name: "Manual Handling"}

	_, _, err := engine.PickDailyMessage(topic, date("2025-01-01"))
	if !errors.Is(err, domerrors.ErrNoMessages) {
		t.Errorf("expected ErrNoMessages, got %v", err)
	}
}

func TestFloorHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, n             int
		wantDiv, wantMod int
	}{
		{a: 7, n: 7, wantDiv: 1, wantMod: 0},
		{a: 6, n: 7, wantDiv: 0, wantMod: 6},
		{a: -1, n: 7, wantDiv: -1, wantMod: 6},
		{a: -7, n: 7, wantDiv: -1, wantMod: 0},
		{a: -8, n: 7, wantDiv: -2, wantMod: 6},
		{a: -1, n: 3, wantDiv: -1, wantMod: 2},
	}

	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.n); got != tt.wantDiv {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.n, got, tt.wantDiv)
		}
		if got := floorMod(tt.a, tt.n); got != tt.wantMod {
			t.Errorf("floorMod(%d, %d) = %d, want %d", tt.a, tt.n, got, tt.wantMod)
		}
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}

	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 2, 23, 59, 0, 0, loc)
	if got := daysBetween(a, b); got != 1 {
		t.Errorf("daysBetween = %d, want 1", got)
	}
}
