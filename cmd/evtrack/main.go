// Package main provides the CLI entrypoint for evtrack.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/config"
	"github.com/verte-zerg/evtrack/internal/generator"
	"github.com/verte-zerg/evtrack/internal/importer"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/stats"
	"github.com/verte-zerg/evtrack/internal/statsui"
	"github.com/verte-zerg/evtrack/internal/store"
	"github.com/verte-zerg/evtrack/internal/tui"
)

const (
	defaultYears     = "recent:3"
	defaultLogLevel  = "info"
	defaultSeedCount = 60
	defaultSeedYears = 3
	seedNotesPct     = 0.3
)

// Seeded data leans toward Mondays and Fridays so the heatmap has a shape.
var seedWeekdayWeights = [7]float64{1.5, 1, 1, 1, 1.3, 0.8, 0.8}

// settings is the merged result of defaults, config file and flags.
type settings struct {
	backend     string
	dbPath      string
	table       string
	supabaseURL string
	years       string
	defaultName string
	logLevel    string
}

var (
	globalDB       string
	globalBackend  string
	globalLogLevel string
	globalYears    string

	addName  string
	addDate  string
	addNotes string

	seedCount int
	seedYears int

	fileConfig config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "evtrack",
		Short:             "Personal event log with a trend dashboard",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupCmd,
		RunE:              runDashboardCmd,
	}

	rootCmd.PersistentFlags().StringVar(&globalDB, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&globalBackend, "backend", config.BackendSQLite, "event store backend (sqlite or supabase)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&globalYears, "years", defaultYears, "year selection (all, recent:N, 2022-2024, 2022,2024)")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupCmd(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(config.DefaultEnvPaths()...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileConfig = fileCfg
	applyStringConfig(cmd, "log-level", &globalLogLevel, fileCfg.Log.Level)
	return setupLogging(os.Stderr, globalLogLevel)
}

func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		}),
	))
	return nil
}

// quietLogs drops log output while a full-screen TUI owns the terminal.
func quietLogs() func() {
	prev := slog.Default()
	slog.SetDefault(slog.New(tint.NewHandler(io.Discard, nil)))
	return func() {
		slog.SetDefault(prev)
	}
}

func mergeSettings(cmd *cobra.Command, fileCfg config.FileConfig) (settings, error) {
	s := settings{
		backend:     globalBackend,
		dbPath:      globalDB,
		table:       store.DefaultTable,
		years:       globalYears,
		defaultName: model.DefaultEventName,
		logLevel:    globalLogLevel,
	}
	applyStringConfig(cmd, "backend", &s.backend, fileCfg.Store.Backend)
	applyStringConfig(cmd, "db", &s.dbPath, fileCfg.Store.Path)
	applyStringConfig(cmd, "years", &s.years, fileCfg.Dashboard.Years)
	if fileCfg.Store.Table != nil {
		s.table = *fileCfg.Store.Table
	}
	if fileCfg.Store.SupabaseURL != nil {
		s.supabaseURL = *fileCfg.Store.SupabaseURL
	}
	if fileCfg.Dashboard.DefaultName != nil && strings.TrimSpace(*fileCfg.Dashboard.DefaultName) != "" {
		s.defaultName = strings.TrimSpace(*fileCfg.Dashboard.DefaultName)
	}
	if err := config.ValidateBackend(s.backend); err != nil {
		return settings{}, err
	}
	return s, nil
}

// openGateway builds the one store client the command uses. The returned
// close func is never nil.
func openGateway(s settings) (store.Gateway, func(), error) {
	switch s.backend {
	case config.BackendSupabase:
		creds := config.SupabaseCredentials(s.supabaseURL)
		remote, err := store.NewRemote(creds.URL, creds.Key, s.table, nil)
		if err != nil {
			if errors.Is(err, store.ErrMissingCredentials) {
				return nil, nil, fmt.Errorf("%w: set %s and %s", err, config.EnvSupabaseURL, config.EnvSupabaseKey)
			}
			return nil, nil, err
		}
		slog.Debug("using supabase store", "table", s.table)
		return remote, func() {}, nil
	default:
		st, err := store.Open(s.dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db: %w", err)
		}
		slog.Debug("using sqlite store", "path", s.dbPath)
		return st, func() {
			if cerr := st.Close(); cerr != nil {
				slog.Warn("failed to close db", "error", cerr)
			}
		}, nil
	}
}

func withGateway(cmd *cobra.Command, fn func(s settings, gw store.Gateway) error) error {
	s, err := mergeSettings(cmd, fileConfig)
	if err != nil {
		return err
	}
	gw, closeFn, err := openGateway(s)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(s, gw)
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	return withGateway(cmd, func(s settings, gw store.Gateway) error {
		restore := quietLogs()
		defer restore()
		m := statsui.NewModel(gw, model.StatsConfig{Years: s.years}, calendar.NewParser(), s.defaultName)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run dashboard: %w", err)
		}
		return nil
	})
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an event (opens a form without flags)",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addName, "name", "", "event name (default from config)")
	cmd.Flags().StringVar(&addDate, "date", "", "event date: YYYY-MM-DD, DD.MM.YYYY or e.g. \"yesterday\" (default today)")
	cmd.Flags().StringVar(&addNotes, "notes", "", "free-text notes")
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	interactive := !cmd.Flags().Changed("name") && !cmd.Flags().Changed("date") && !cmd.Flags().Changed("notes")
	return withGateway(cmd, func(s settings, gw store.Gateway) error {
		parser := calendar.NewParser()
		cfg := model.StatsConfig{Years: s.years}
		if interactive {
			return runQuickAdd(gw, cfg, parser, s.defaultName)
		}
		now := time.Now()
		in := tui.EntryInput{Name: addName, Date: addDate, Notes: addNotes}
		entry, err := in.Entry(parser, now, s.defaultName)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		if err := stats.Record(cmd.Context(), gw, entry); err != nil {
			return err
		}
		report, err := stats.BuildReport(cmd.Context(), gw, cfg, now)
		if err != nil {
			return err
		}
		return printSaved(cmd.OutOrStdout(), entry, report)
	})
}

func runQuickAdd(gw store.Gateway, cfg model.StatsConfig, parser *calendar.Parser, defaultName string) error {
	restore := quietLogs()
	m := tui.NewModel(gw, cfg, parser, defaultName)
	_, err := tea.NewProgram(m).Run()
	restore()
	if err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}
	if m.Err() != nil {
		return m.Err()
	}
	if m.Aborted() {
		slog.Info("nothing saved")
	}
	return nil
}

func printSaved(w io.Writer, entry model.RawEvent, report stats.Report) error {
	lines := []string{
		fmt.Sprintf("Gespeichert: %s am %s", entry.EventName, entry.EventDate),
		fmt.Sprintf("Ø Abstand: %s", stats.FormatAvgGap(report.Forecast)),
		fmt.Sprintf("Nächste Prognose: %s", stats.FormatForecast(report.Forecast, report.GeneratedAt)),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the trend report",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&globalYears, "years", defaultYears, "year selection (all, recent:N, 2022-2024, 2022,2024)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	return withGateway(cmd, func(s settings, gw store.Gateway) error {
		report, err := stats.BuildReport(cmd.Context(), gw, model.StatsConfig{Years: s.years}, time.Now())
		if err != nil {
			return err
		}
		return stats.RenderReport(cmd.OutOrStdout(), report, 0)
	})
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the selected events with weekday, month and gap",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().StringVar(&globalYears, "years", defaultYears, "year selection (all, recent:N, 2022-2024, 2022,2024)")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	return withGateway(cmd, func(s settings, gw store.Gateway) error {
		report, err := stats.BuildReport(cmd.Context(), gw, model.StatsConfig{Years: s.years}, time.Now())
		if err != nil {
			return err
		}
		return stats.RenderEventList(cmd.OutOrStdout(), report.WorkingSet)
	})
}

// batchInserter is implemented by stores that can insert many rows at once.
type batchInserter interface {
	InsertEvents(ctx context.Context, events []model.RawEvent) error
}

// eventCounter is implemented by stores that can count rows without a full fetch.
type eventCounter interface {
	CountEvents(ctx context.Context, names ...string) (int, error)
}

// storedCount reports how many rows the store holds, optionally per name.
// ok is false when the store cannot count or the count failed.
func storedCount(ctx context.Context, gw store.Gateway, names ...string) (n int, ok bool) {
	c, isCounter := gw.(eventCounter)
	if !isCounter {
		return 0, false
	}
	n, err := c.CountEvents(ctx, names...)
	if err != nil {
		slog.Warn("failed to count events", "error", err)
		return 0, false
	}
	return n, true
}

func insertAll(ctx context.Context, gw store.Gateway, events []model.RawEvent) error {
	if b, ok := gw.(batchInserter); ok {
		return b.InsertEvents(ctx, events)
	}
	for i, ev := range events {
		if err := gw.InsertEvent(ctx, ev); err != nil {
			return fmt.Errorf("event %d of %d: %w", i+1, len(events), err)
		}
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import events from a CSV file (event_name,event_date,notes)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	events, err := importer.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return withGateway(cmd, func(_ settings, gw store.Gateway) error {
		if err := insertAll(cmd.Context(), gw, events); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}
		attrs := []any{"file", args[0], "events", len(events)}
		if n, ok := storedCount(cmd.Context(), gw); ok {
			attrs = append(attrs, "stored", n)
		}
		slog.Info("import finished", attrs...)
		return nil
	})
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export all events as CSV (stdout without FILE)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	return withGateway(cmd, func(_ settings, gw store.Gateway) error {
		events, err := gw.FetchAllEvents(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return importer.WriteEvents(cmd.OutOrStdout(), events)
		}
		return writeExportFile(args[0], events)
	})
}

func writeExportFile(path string, events []model.RawEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := importer.WriteEvents(tmpFile, events); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	slog.Info("export finished", "file", path, "events", len(events))
	return nil
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert random sample events",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().IntVar(&seedCount, "count", defaultSeedCount, "number of events")
	cmd.Flags().IntVar(&seedYears, "years", defaultSeedYears, "spread events over the last N years")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	if seedCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if seedYears <= 0 {
		return fmt.Errorf("--years must be > 0")
	}
	return withGateway(cmd, func(s settings, gw store.Gateway) error {
		now := time.Now()
		events := generator.New().Generate(generator.Options{
			Count:          seedCount,
			Start:          now.AddDate(-seedYears, 0, 0),
			End:            now,
			Names:          []string{s.defaultName},
			Notes:          generator.DefaultNotes,
			NotesPct:       seedNotesPct,
			WeekdayWeights: seedWeekdayWeights,
		})
		if err := insertAll(cmd.Context(), gw, events); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
		attrs := []any{"events", len(events), "from", events[0].EventDate, "to", events[len(events)-1].EventDate}
		if n, ok := storedCount(cmd.Context(), gw, s.defaultName); ok {
			attrs = append(attrs, "stored", n)
		}
		slog.Info("seeded events", attrs...)
		return nil
	})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate(defaultYears, model.DefaultEventName)), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}
