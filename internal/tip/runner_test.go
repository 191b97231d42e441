package tip

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	"github.com/garyellow/whs-tipbot-go/internal/dispatch"
	domerrors "github.com/garyellow/whs-tipbot-go/internal/errors"
	"github.com/garyellow/whs-tipbot-go/internal/format"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/rotation"
)

// fakeSource returns a fixed catalog or error.
type fakeSource struct {
	cat *catalog.Catalog
	err error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(_ context.Context) (*catalog.Catalog, error) {
	return f.cat, f.err
}

// fakeSender records deliveries and fails for channels in failOn.
type fakeSender struct {
	texts  map[string]string
	failOn map[string]error
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, channelID, text string) error {
	if err, ok := f.failOn[channelID]; ok {
		return err
	}
	if f.texts == nil {
		f.texts = map[string]string{}
	}
	f.texts[channelID] = text
	return nil
}

func runnerCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Topics: []catalog.Topic{
			{Code: "MSD", Name: "Manual Handling", Messages: []catalog.Message{
				{Title: "Bend your knees", Text: "Keep the load close."},
				{Title: "Ask for help", Text: "Two-person lift over 25 kg."},
			}},
			{Code: "SFM", Name: "Forklift Safety", Messages: []catalog.Message{
				{Title: "Stay in sight", Text: "Make eye contact with the driver."},
			}},
		},
	}
}

func newTestRunner(source catalog.Source, sender *fakeSender, channels []string) *Runner {
	log := logger.New("error")
	return NewRunner(RunnerConfig{
		Source:     source,
		Engine:     rotation.NewEngine(rotation.DefaultRules(), log, nil),
		Formatter:  format.NewDefaultFormatter(),
		Dispatcher: dispatch.New(sender, log, nil),
		Channels:   channels,
		Logger:     log,
	})
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRunDeliversToAllChannels(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runner := newTestRunner(&fakeSource{cat: runnerCatalog()}, sender, []string{"C1", "C2"})

	// 2025-01-05 is week 2: no override, 2 mod 2 = 0 -> MSD;
	// 4 days past the daily anchor, 4 mod 2 = 0 -> first message.
	report, err := runner.Run(context.Background(), mustDate(t, "2025-01-05"), "manual")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Selection.TopicCode != "MSD" {
		t.Errorf("topic = %s, want MSD", report.Selection.TopicCode)
	}
	if report.Selection.Title != "Bend your knees" {
		t.Errorf("title = %q", report.Selection.Title)
	}
	if report.Dispatch.Delivered != 2 {
		t.Errorf("delivered = %d, want 2", report.Dispatch.Delivered)
	}
	if report.RunID == "" {
		t.Error("run ID not assigned")
	}

	text := sender.texts["C1"]
	if text != sender.texts["C2"] {
		t.Error("channels received different texts")
	}
	if !strings.Contains(text, "This week's topic: Manual Handling") {
		t.Errorf("composed text = %q", text)
	}
	if !strings.Contains(text, "Bend your knees") {
		t.Errorf("composed text missing title: %q", text)
	}
}

func TestRunPartialFailureReturnsError(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{failOn: map[string]error{"C2": errors.New("boom")}}
	runner := newTestRunner(&fakeSource{cat: runnerCatalog()}, sender, []string{"C1", "C2", "C3"})

	report, err := runner.Run(context.Background(), mustDate(t, "2025-01-05"), "manual")
	if err == nil {
		t.Fatal("expected error for partial failure")
	}
	if report.Dispatch.Delivered != 2 {
		t.Errorf("delivered = %d, want 2", report.Dispatch.Delivered)
	}
	if _, ok := sender.texts["C3"]; !ok {
		t.Error("C3 skipped after C2 failure")
	}
}

func TestRunCatalogLoadFailure(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("storage down")
	sender := &fakeSender{}
	runner := newTestRunner(&fakeSource{err: loadErr}, sender, []string{"C1"})

	report, err := runner.Run(context.Background(), mustDate(t, "2025-01-05"), "manual")
	if !errors.Is(err, loadErr) {
		t.Errorf("expected load error, got %v", err)
	}
	if report.Dispatch != nil {
		t.Error("dispatch ran despite load failure")
	}
	if len(sender.texts) != 0 {
		t.Error("message sent despite load failure")
	}
}

func TestRunEmptyCatalogAbortsBeforeDelivery(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runner := newTestRunner(&fakeSource{cat: &catalog.Catalog{}}, sender, []string{"C1"})

	_, err := runner.Run(context.Background(), mustDate(t, "2025-01-05"), "manual")
	if !errors.Is(err, domerrors.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
	if len(sender.texts) != 0 {
		t.Error("message sent despite empty catalog")
	}
}

func TestComposeDoesNotSend(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	runner := newTestRunner(&fakeSource{cat: runnerCatalog()}, sender, []string{"C1"})

	sel, err := runner.Compose(context.Background(), mustDate(t, "2025-01-05"))
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if sel.Text == "" {
		t.Error("empty composed text")
	}
	if len(sender.texts) != 0 {
		t.Error("Compose must not deliver")
	}
}
