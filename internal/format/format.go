// Package format composes the final display text from a topic, a message,
// and a per-topic decoration set.
package format

import (
	"fmt"
	"strings"

	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	"github.com/garyellow/whs-tipbot-go/internal/stringutil"
)

// Decoration holds the display tokens applied per topic.
type Decoration struct {
	Header      string // marker prefixed to the topic announcement line
	TitleMarker string // marker prefixed to the message title line
	Footer      string // trailing line
}

// DefaultDecoration is used for topic codes without a mapped decoration set.
var DefaultDecoration = Decoration{
	Header:      "📣",
	TitleMarker: "👉",
	Footer:      "Stay safe out there. :safety_vest:",
}

// DefaultDecorations returns the production per-topic decoration sets.
func DefaultDecorations() map[string]Decoration {
	return map[string]Decoration{
		"MSD": {
			Header:      "🏋️",
			TitleMarker: "🔹",
			Footer:      "Lift smart, not hard. :safety_vest:",
		},
		"SFM": {
			Header:      "🚜",
			TitleMarker: "🔸",
			Footer:      "Forklifts always have right of way. :safety_vest:",
		},
		"CONV": {
			Header:      "⚙️",
			TitleMarker: "🔹",
			Footer:      "Never reach into a running conveyor. :safety_vest:",
		},
		"COLD": {
			Header:      "❄️",
			TitleMarker: "🔸",
			Footer:      "Layer up and take your warm-up breaks. :safety_vest:",
		},
	}
}

// Formatter composes display text using a decoration lookup.
type Formatter struct {
	decorations map[string]Decoration
	fallback    Decoration
}

// NewFormatter creates a formatter with explicit decoration sets.
func NewFormatter(decorations map[string]Decoration, fallback Decoration) *Formatter {
	if decorations == nil {
		decorations = map[string]Decoration{}
	}
	return &Formatter{decorations: decorations, fallback: fallback}
}

// NewDefaultFormatter creates a formatter with the production decorations.
func NewDefaultFormatter() *Formatter {
	return NewFormatter(DefaultDecorations(), DefaultDecoration)
}

// Compose produces the final text blob: header-decorated topic announcement,
// blank line, title-decorated title line, normalized body, blank line,
// footer. The body is stripped of a redundant topic-name prefix and a
// redundant title prefix before rendering.
func (f *Formatter) Compose(topic *catalog.Topic, msg *catalog.Message) string {
	deco := f.lookup(topic.Code)

	body := stringutil.StripRedundantPrefix(msg.Text, topic.Name)
	body = stringutil.StripRedundantPrefix(body, msg.Title)

	return fmt.Sprintf("%s This week's topic: %s\n\n%s %s\n%s\n\n%s",
		deco.Header, topic.Name, deco.TitleMarker, msg.Title, body, deco.Footer)
}

func (f *Formatter) lookup(code string) Decoration {
	if deco, ok := f.decorations[strings.ToUpper(code)]; ok {
		return deco
	}
	return f.fallback
}
