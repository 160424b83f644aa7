package cli

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raitses/stamp/internal/provenance"
)

// isTerminal is replaced in tests
var isTerminal = term.IsTerminal

func newResolveCommand(a *app) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the commit hash for the project root",
		Long: `Print the commit hash for the project root.

The hash is read from the first environment candidate that holds a valid hex
hash, then from git when the root is a checkout. When nothing is found the
result is "unknown"; resolution never fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stop := a.startSpinner(cmd)
			hash, attempts := a.resolveWith(explain)
			stop()

			if !explain {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.paintHash(hash))
				return err
			}
			a.renderAttempts(cmd, attempts)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "\ncommit: %s\n", a.paintHash(hash))
			return err
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "show every source consulted and its outcome")
	return cmd
}

// startSpinner shows progress on stderr while git runs; a no-op off a terminal
func (a *app) startSpinner(cmd *cobra.Command) func() {
	w := cmd.ErrOrStderr()
	if !isTerminalWriter(w) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " resolving commit hash"
	s.Start()
	return s.Stop
}

func (a *app) renderAttempts(cmd *cobra.Command, attempts []provenance.Attempt) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Source", "Value", "Outcome", "Detail"})
	for _, at := range attempts {
		t.AppendRow(table.Row{at.Source, displayRaw(at.Raw), a.paintOutcome(at.Outcome), at.Detail})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

func (a *app) paintOutcome(o provenance.Outcome) string {
	switch o {
	case provenance.OutcomeAccepted:
		return a.paint(string(o), color.FgGreen, color.Bold)
	case provenance.OutcomeRejected, provenance.OutcomeFailed:
		return a.paint(string(o), color.FgRed)
	default:
		return a.paint(string(o), color.Faint)
	}
}

// displayRaw keeps table rows on one line. Long values are cut on a rune
// boundary before quoting so escapes stay whole.
func displayRaw(raw string) string {
	const limit = 40
	if raw == "" {
		return ""
	}
	if utf8.RuneCountInString(raw) <= limit {
		return fmt.Sprintf("%+q", raw)
	}
	return fmt.Sprintf("%+q...", string([]rune(raw)[:limit]))
}
