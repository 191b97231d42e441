// Package catalog defines the topic/message catalog and its data sources.
// The catalog is an ordered, immutable list of topics loaded once per
// invocation from a JSON document; there is no mutation or persistence.
package catalog

import (
	"fmt"
	"strings"

	apperrors "github.com/garyellow/whs-tipbot-go/internal/errors"
	"golang.org/x/text/unicode/norm"
)

// Message is a single tip inside a topic.
type Message struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Topic groups an ordered list of messages under a short uppercase code.
type Topic struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// Catalog is the ordered list of topics.
type Catalog struct {
	Topics []Topic `json:"topics"`
}

// FindTopic returns the first topic matching the given code.
func (c *Catalog) FindTopic(code string) (*Topic, bool) {
	for i := range c.Topics {
		if c.Topics[i].Code == code {
			return &c.Topics[i], true
		}
	}
	return nil, false
}

// MessageCount returns the total number of messages across all topics.
func (c *Catalog) MessageCount() int {
	count := 0
	for i := range c.Topics {
		count += len(c.Topics[i].Messages)
	}
	return count
}

// Validate checks the catalog invariants: at least one topic, unique
// uppercase codes, and at least one non-empty message per topic.
func (c *Catalog) Validate() error {
	if len(c.Topics) == 0 {
		return apperrors.ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(c.Topics))
	for i := range c.Topics {
		t := &c.Topics[i]
		if t.Code == "" {
			return apperrors.NewValidationError(fmt.Sprintf("topics[%d].code", i), "code is required")
		}
		if t.Code != strings.ToUpper(t.Code) {
			return apperrors.NewValidationError(fmt.Sprintf("topics[%d].code", i),
				fmt.Sprintf("code %q must be uppercase", t.Code))
		}
		if _, dup := seen[t.Code]; dup {
			return apperrors.NewValidationError(fmt.Sprintf("topics[%d].code", i),
				fmt.Sprintf("duplicate code %q", t.Code))
		}
		seen[t.Code] = struct{}{}

		if t.Name == "" {
			return apperrors.NewValidationError(fmt.Sprintf("topics[%d].name", i), "name is required")
		}
		if len(t.Messages) == 0 {
			return fmt.Errorf("topic %s: %w", t.Code, apperrors.ErrNoMessages)
		}
		for j, msg := range t.Messages {
			if strings.TrimSpace(msg.Text) == "" {
				return apperrors.NewValidationError(
					fmt.Sprintf("topics[%d].messages[%d].text", i, j), "text is required")
			}
		}
	}
	return nil
}

// normalize applies Unicode NFC normalization to all display strings so
// catalog text compares and renders consistently regardless of how the
// source document was edited.
func (c *Catalog) normalize() {
	for i := range c.Topics {
		t := &c.Topics[i]
		t.Name = norm.NFC.String(t.Name)
		for j := range t.Messages {
			t.Messages[j].Title = norm.NFC.String(t.Messages[j].Title)
			t.Messages[j].Text = norm.NFC.String(t.Messages[j].Text)
		}
	}
}
