package rotation

import (
	"fmt"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	apperrors "github.com/garyellow/whs-tipbot-go/internal/errors"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/metrics"
)

// Engine selects the active topic and message for a given date.
type Engine struct {
	rules   Rules
	log     *logger.Logger
	metrics *metrics.Metrics // optional
}

// NewEngine creates a rotation engine. The metrics recorder may be nil.
func NewEngine(rules Rules, log *logger.Logger, m *metrics.Metrics) *Engine {
	return &Engine{rules: rules, log: log, metrics: m}
}

// Rules returns the engine's rotation rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// WeekNumber computes the 1-based week index for the given date relative
// to the weekly anchor. Weeks run Sunday through Saturday; dates before
// the anchor yield zero or negative week numbers via floor division.
func (e *Engine) WeekNumber(date time.Time) int {
	return floorDiv(daysBetween(e.rules.WeeklyAnchor, date), 7) + 1
}

// PickWeeklyTopic selects the active topic for the week containing date.
// The override table is consulted first; an override code missing from the
// catalog logs a warning and falls back to modulo rotation. An empty
// catalog is a fatal configuration error.
func (e *Engine) PickWeeklyTopic(cat *catalog.Catalog, date time.Time) (*catalog.Topic, error) {
	if len(cat.Topics) == 0 {
		return nil, apperrors.ErrEmptyCatalog
	}

	week := e.WeekNumber(date)

	if code, ok := e.rules.Overrides[week]; ok {
		if topic, found := cat.FindTopic(code); found {
			return topic, nil
		}
		e.log.WithField("week", week).
			WithField("code", code).
			Warn("Override topic code not in catalog; falling back to rotation")
		if e.metrics != nil {
			e.metrics.RecordOverrideFallback()
		}
	}

	// Week numbers are 1-based but the fallback indexes without a -1
	// adjustment. Long-standing behavior; the override table was written
	// against it, so keep it.
	index := floorMod(week, len(cat.Topics))
	return &cat.Topics[index], nil
}

// PickDailyMessage selects the active message within the topic for date.
// Returns the message and its index. A topic with no messages is fatal.
func (e *Engine) PickDailyMessage(topic *catalog.Topic, date time.Time) (*catalog.Message, int, error) {
	if len(topic.Messages) == 0 {
		return nil, 0, fmt.Errorf("topic %s: %w", topic.Code, apperrors.ErrNoMessages)
	}

	index := floorMod(daysBetween(e.rules.DailyAnchor, date), len(topic.Messages))
	return &topic.Messages[index], index, nil
}

// daysBetween returns the number of calendar days from a to b, ignoring
// the time-of-day and timezone of both values.
func daysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)) / (24 * time.Hour))
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// floorDiv divides toward negative infinity. Go's native integer division
// truncates toward zero, which would break rotation for pre-anchor dates.
func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// floorMod is the modulo companion of floorDiv: the result always has the
// sign of the divisor, so floorMod(-1, 3) == 2.
func floorMod(a, n int) int {
	r := a % n
	if r != 0 && (r < 0) != (n < 0) {
		r += n
	}
	return r
}
