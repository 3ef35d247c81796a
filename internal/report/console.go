// Package report contains the builtin diagnosis reporters: the console
// banner, a JSON event writer, and a structured-log reporter.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterReporter("console", func() (types.Reporter, error) {
		return NewConsole(os.Stderr), nil
	})
}

const bannerTitle = "APPLICATION FAILED TO START"

// ConsoleReporter presents a diagnosis as a banner followed by
// Description and Action sections.
type ConsoleReporter struct {
	w       io.Writer
	NoColor bool
}

// NewConsole creates a ConsoleReporter writing to w. Color is disabled
// when NO_COLOR is set.
func NewConsole(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		w:       w,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

func (r *ConsoleReporter) Name() string { return "console" }

func (r *ConsoleReporter) Report(d *types.Diagnosis) error {
	header := color.New(color.FgRed, color.Bold)
	section := color.New(color.Bold)
	if r.NoColor {
		header.DisableColor()
		section.DisableColor()
	}

	stars := strings.Repeat("*", len(bannerTitle))
	if _, err := fmt.Fprintf(r.w, "\n%s\n%s\n%s\n\n",
		header.Sprint(stars), header.Sprint(bannerTitle), header.Sprint(stars)); err != nil {
		return err
	}

	fmt.Fprintf(r.w, "%s\n\n%s\n", section.Sprint("Description:"), indent(d.Description))
	if d.Action != "" {
		fmt.Fprintf(r.w, "\n%s\n\n%s\n", section.Sprint("Action:"), indent(d.Action))
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
