package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/leonardomso/gbconv/internal/logging"
	"github.com/leonardomso/gbconv/internal/ui"
)

// interactiveCmd represents the interactive command.
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Convert documents in an interactive terminal UI",
	Long: `Launch an interactive terminal UI that converts a GitBook directory.

Shows progress while documents are converted one by one, then lists the
converted documents with their rewrites, relocated assets and skipped
remote references. Falls back to 'convert' when stdout is not a terminal.

Controls:
  ↑/↓ or j/k    Navigate through results
  d             Toggle document details
  f             Cycle filter (all / with assets / remote references)
  /             Search
  q             Quit`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	addDirectoryFlags(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	lc, err := LoadConfig(noConfig, configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(lc)

	opts, err := resolveRunOptions(lc)
	if err != nil {
		return err
	}

	if err := validateDirectories(opts.Scan); err != nil {
		return err
	}

	if !isTerminal(os.Stdout) {
		logger.Debug("stdout is not a terminal, running plain conversion")
		return executeConvert(logging.WithLogger(cmd.Context(), logger), opts, os.Stdout)
	}

	// Log records would tear the alternate screen apart.
	model := ui.New(ui.Options{
		Scan:   opts.Scan,
		Logger: log.New(io.Discard),
		DryRun: opts.DryRun,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("running interactive mode: %w", err)
	}

	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
