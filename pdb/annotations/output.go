package annotations

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter with color support detection.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}

	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}

	return &OutputFormatter{
		useColor: useColor,
		writer:   w,
	}
}

// Handle implements Handler - prints events as they occur
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)

	switch event.Name {
	case ProjectionCreated:
		return fmt.Sprintf("%s Projection onto %v: %s, %s",
			latency,
			event.Data["pattern"],
			f.colorizeCount("states", event.Data["states.count"].(int)),
			f.colorizeCount("operators", event.Data["operators.count"].(int)))

	case BuildBegin:
		return fmt.Sprintf("%s %s Building pattern database for %v",
			latency,
			f.colorize("===", color.FgYellow),
			event.Data["pattern"])

	case BuildComplete:
		return fmt.Sprintf("%s %s Built %v: %s reachable of %s, %s expanded, %s stale",
			latency,
			f.colorize("===", color.FgGreen),
			event.Data["pattern"],
			f.colorizeCount("states", event.Data["reachable.count"].(int)),
			f.colorizeCount("states", event.Data["states.count"].(int)),
			f.colorizeCount("states", event.Data["expanded.count"].(int)),
			f.colorizeCount("pops", event.Data["stale.count"].(int)))

	case BuildAllComplete:
		return fmt.Sprintf("%s %s Built %s",
			latency,
			f.colorize("===", color.FgGreen),
			f.colorizeCount("databases", event.Data["databases.count"].(int)))

	case RegistryHit:
		return fmt.Sprintf("%s Registry hit for %v", latency, event.Data["pattern"])

	case StoreHit:
		return fmt.Sprintf("%s Loaded %v from store (%s)",
			latency,
			event.Data["pattern"],
			f.colorizeCount("states", event.Data["states.count"].(int)))

	case StoreMiss:
		return fmt.Sprintf("%s %s %v not in store",
			latency,
			f.colorize("?", color.FgYellow),
			event.Data["pattern"])

	case StoreSaved:
		return fmt.Sprintf("%s Saved %v to store (%s)",
			latency,
			event.Data["pattern"],
			f.colorizeCount("bytes", event.Data["bytes"].(int)))

	case ErrorBuild, ErrorBackend:
		return fmt.Sprintf("%s %s %s: %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Name,
			event.Data["error"])

	default:
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

// formatLatency formats a duration as [XXXms] or [XXXµs] with color coding.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		s := fmt.Sprintf("[%dµs]", d.Microseconds())
		if !f.useColor {
			return s
		}
		return color.GreenString(s)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)

	if !f.useColor {
		return s
	}

	switch {
	case ms < 50:
		return color.GreenString(s)
	case ms < 1000:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// colorizeCount formats a count with a label, using color based on the label.
func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)

	if !f.useColor {
		return text
	}

	switch strings.ToLower(label) {
	case "states":
		return color.CyanString(text)
	case "operators", "databases":
		return color.MagentaString(text)
	case "bytes":
		return color.BlueString(text)
	default:
		return text
	}
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

// ConsoleHandler creates a handler that prints formatted events to stderr.
func ConsoleHandler() Handler {
	return NewOutputFormatter(os.Stderr).Handle
}
