package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazyinv/internal/app"
	"github.com/rebeliceyang/lazyinv/internal/config"
	"github.com/rebeliceyang/lazyinv/internal/export"
	"github.com/rebeliceyang/lazyinv/internal/history"
	"github.com/rebeliceyang/lazyinv/internal/logger"
	"github.com/rebeliceyang/lazyinv/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lazyinv",
		Short: "lazyinv - structured inventory search in the terminal",
		Long: `lazyinv builds inventory search queries one clause at a time:
search option, operator, term, then AND/OR for the next clause.

Run 'lazyinv' to open the query editor.
Run 'lazyinv compile "Title = gatsby"' to compile a query without the UI.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringP("segment", "s", "", "segment (instances, holdings, items)")
	rootCmd.Flags().Bool("print", false, "print the last submitted query on exit")
	rootCmd.Flags().StringP("output", "o", "cql", "what --print writes: cql, csv or json (csv and json list every search)")

	rootCmd.AddCommand(
		compileCmd(),
		indexesCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the config named by --config and applies --segment
func loadConfig(cmd *cobra.Command) (*config.Config, models.Segment, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", err
	}

	name, _ := cmd.Flags().GetString("segment")
	if name == "" {
		name = cfg.UI.DefaultSegment
	}
	seg, err := models.ParseSegment(name)
	if err != nil {
		return nil, "", err
	}
	cfg.UI.DefaultSegment = string(seg)
	return cfg, seg, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if err := checkOutput(output); err != nil {
		return err
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.File); err != nil {
		return err
	}
	defer logger.Sync()
	logger.Infof("lazyinv %s starting", version)

	model := app.New(cfg, app.WithContext(cmd.Context()))

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if printLast, _ := cmd.Flags().GetBool("print"); printLast {
		return writeSession(cmd.OutOrStdout(), output, model)
	}
	return nil
}

// session is what the TUI leaves behind for --print
type session interface {
	LastRequest() (app.Request, bool)
	History() []history.HistoryEntry
}

func checkOutput(format string) error {
	switch format {
	case "cql", "csv", "json":
		return nil
	}
	return fmt.Errorf("unknown output %q (want cql, csv or json)", format)
}

// writeSession prints the last query, or every search of the session
// oldest first
func writeSession(w io.Writer, format string, s session) error {
	entries := s.History()
	slices.Reverse(entries)

	switch format {
	case "csv":
		return export.ExportToCSV(w, entries)
	case "json":
		return export.ExportToJSON(w, entries)
	case "cql":
		if req, ok := s.LastRequest(); ok {
			_, err := fmt.Fprintln(w, req.CQL)
			return err
		}
		return nil
	}
	return checkOutput(format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lazyinv %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
