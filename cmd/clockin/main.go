// Package main provides the CLI entrypoint for clockin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"github.com/hollowbeak/clockin/internal/api"
	"github.com/hollowbeak/clockin/internal/config"
	"github.com/hollowbeak/clockin/internal/controller"
	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/printers"
	"github.com/hollowbeak/clockin/internal/registry"
	"github.com/hollowbeak/clockin/internal/report"
	"github.com/hollowbeak/clockin/internal/timeutil"
	"github.com/hollowbeak/clockin/internal/tui"
)

const (
	defaultServerURL = "http://localhost:8000"
	serverEnvVar     = "CLOCKIN_SERVER"
)

var (
	rootServer string
	rootView   string

	startNoWait bool

	finishNotes []string

	reportOffset string
	reportDays   string
	reportFrom   string
	reportTo     string
	reportDaily  bool
	reportDetail bool
	reportDist   bool
)

// Overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clockin",
		Short:         "Terminal client for the clocking time tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootServer, "server", "", "server base URL (default: "+defaultServerURL+")")
	rootCmd.Flags().StringVar(&rootView, "view", string(model.ViewDailyDetail), "default report view (daily_detail, daily, detail, dist)")

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newFinishCmd())
	rootCmd.AddCommand(newOngoingCmd())
	rootCmd.AddCommand(newRecentCmd())
	rootCmd.AddCommand(newLatestCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "view", &rootView, fileCfg.Report.View)
	view, err := model.ParseViewType(strings.TrimSpace(rootView))
	if err != nil {
		return err
	}

	client := api.NewClient(serverURL)
	ctrl := controller.New(registry.New(client))
	m := tui.NewModel(client, ctrl, serverURL, view, time.Local)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [title]",
		Short: "Start a session",
		Long: "Start a session.\n\n" +
			"Without a title, picks one interactively from the recent list.\n" +
			"Unless -n/--no-wait is specified, waits for Ctrl-D and sends\n" +
			"everything typed in between as the session notes.",
		Args: cobra.MaximumNArgs(1),
		RunE: runStartCmd,
	}
	cmd.Flags().BoolVarP(&startNoWait, "no-wait", "n", false, "do not wait for notes input, leave the session open")
	return cmd
}

func runStartCmd(cmd *cobra.Command, args []string) error {
	_, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client := api.NewClient(serverURL)
	ctx := context.Background()

	title := ""
	if len(args) > 0 {
		title = strings.TrimSpace(args[0])
	}
	if title == "" {
		recent, err := client.Recent(ctx)
		if err != nil {
			return fmt.Errorf("failed to load recent titles: %w", err)
		}
		title, err = readTitle(recent)
		if err != nil {
			return err
		}
	}

	if err := client.Start(ctx, title); err != nil {
		return fmt.Errorf("failed to start %q: %w", title, err)
	}
	fmt.Println("(Started)")
	if startNoWait {
		return nil
	}

	fmt.Println("(Ctrl-D to finish clocking)")
	notes := readToEnd(os.Stdin)
	if err := client.Finish(ctx, title, notes); err != nil {
		return fmt.Errorf("failed to finish %q: %w", title, err)
	}
	fmt.Println("(Finished)")
	return nil
}

func newFinishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finish <title>",
		Short: "Finish an open session",
		Args:  cobra.ExactArgs(1),
		RunE:  runFinishCmd,
	}
	cmd.Flags().StringArrayVarP(&finishNotes, "notes", "n", nil, "note line, repeatable; '-' reads notes from stdin")
	return cmd
}

func runFinishCmd(cmd *cobra.Command, args []string) error {
	_, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client := api.NewClient(serverURL)
	ctx := context.Background()

	title := strings.TrimSpace(args[0])
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	notes := strings.Join(finishNotes, "\n")
	if len(finishNotes) == 1 && finishNotes[0] == "-" {
		notes = readToEnd(os.Stdin)
	}

	reg := registry.New(client)
	if err := reg.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load open sessions: %w", err)
	}
	if _, ok := reg.Get(title); !ok {
		fmt.Printf("(No unfinished item found by %s)\n", title)
		return nil
	}

	if err := client.Finish(ctx, title, notes); err != nil {
		return fmt.Errorf("failed to finish %q: %w", title, err)
	}
	fmt.Println("(Updated)")
	return nil
}

func newOngoingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ongoing",
		Short: "List open sessions",
		Args:  cobra.NoArgs,
		RunE:  runOngoingCmd,
	}
}

func runOngoingCmd(cmd *cobra.Command, _ []string) error {
	_, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client := api.NewClient(serverURL)

	sessions, err := client.Ongoing(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load open sessions: %w", err)
	}
	fmt.Fprintln(color.Output, printers.OngoingTable(sessions, time.Now(), time.Local))
	return nil
}

func newRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently finished titles",
		Args:  cobra.NoArgs,
		RunE:  runRecentCmd,
	}
}

func runRecentCmd(cmd *cobra.Command, _ []string) error {
	_, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client := api.NewClient(serverURL)

	titles, err := client.Recent(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load recent titles: %w", err)
	}
	fmt.Fprintln(color.Output, printers.RecentList(titles))
	return nil
}

func newLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <title>",
		Short: "Show the latest record for a title",
		Args:  cobra.ExactArgs(1),
		RunE:  runLatestCmd,
	}
}

func runLatestCmd(cmd *cobra.Command, args []string) error {
	_, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client := api.NewClient(serverURL)

	title := args[0]
	session, err := client.Latest(context.Background(), title)
	if err != nil {
		return fmt.Errorf("failed to load latest %q: %w", title, err)
	}
	if session == nil {
		fmt.Println("(Not found)")
		return nil
	}
	fmt.Fprintln(color.Output, printers.DetailText(timeutil.NewDetail(*session, time.Local)))
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a time report",
		Long: "Show a time report.\n\n" +
			"By default covers today through now. Use --offset and --days for a\n" +
			"relative range, or --from and --to for explicit dates.",
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}
	cmd.Flags().StringVar(&reportOffset, "offset", "", "days back to the range start (default 0, today)")
	cmd.Flags().StringVar(&reportDays, "days", "", "length of the range in days (default: through now)")
	cmd.Flags().StringVar(&reportFrom, "from", "", "range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reportTo, "to", "", "range end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&reportDaily, "daily", false, "show the daily summary view")
	cmd.Flags().BoolVar(&reportDetail, "detail", false, "show the detail view")
	cmd.Flags().BoolVar(&reportDist, "dist", false, "show the daily distribution view")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, serverURL, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client := api.NewClient(serverURL)
	ctx := context.Background()

	view, err := resolveReportView(fileCfg)
	if err != nil {
		return err
	}

	from := strings.TrimSpace(reportFrom)
	to := strings.TrimSpace(reportTo)
	if from != "" || to != "" {
		if from == "" || to == "" {
			return fmt.Errorf("both --from and --to are required for a date range")
		}
		fromDay, err := timeutil.ParseDate(from, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --from value %q: expected %s", from, timeutil.DateLayout)
		}
		toDay, err := timeutil.ParseDate(to, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --to value %q: expected %s", to, timeutil.DateLayout)
		}
		if toDay.Before(fromDay) {
			return fmt.Errorf("invalid date range: end date is before start date")
		}
		text, err := client.ReportByDate(ctx, from, to, view)
		if err != nil {
			return fmt.Errorf("failed to load report: %w", err)
		}
		printReport(fmt.Sprintf("%s ~ %s (%s)", from, to, view), text)
		return nil
	}

	q := report.Normalize(reportOffset, reportDays, view)
	text, err := client.Report(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	printReport(report.Summary(q), text)
	return nil
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
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

func newVersionCmd() *cobra.Command {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print clockin version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Print(resp)
		},
	}
	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")
	return cmd
}

// loadSettings reads the config file and resolves the server URL. Precedence:
// --server flag, then CLOCKIN_SERVER, then the config file, then the default.
func loadSettings(cmd *cobra.Command) (config.FileConfig, string, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	serverURL := resolveServerURL(cmd, fileCfg)
	if err := validateServerURL(serverURL); err != nil {
		return config.FileConfig{}, "", err
	}
	return fileCfg, serverURL, nil
}

func resolveServerURL(cmd *cobra.Command, fileCfg config.FileConfig) string {
	if cmd.Flags().Changed("server") {
		return strings.TrimSpace(rootServer)
	}
	if env := strings.TrimSpace(os.Getenv(serverEnvVar)); env != "" {
		return env
	}
	if fileCfg.Server.URL != nil && strings.TrimSpace(*fileCfg.Server.URL) != "" {
		return strings.TrimSpace(*fileCfg.Server.URL)
	}
	return defaultServerURL
}

func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server URL must look like http://host:port, got %q", raw)
	}
	return nil
}

func resolveReportView(fileCfg config.FileConfig) (model.ViewType, error) {
	switch {
	case reportDaily:
		return model.ViewDaily, nil
	case reportDetail:
		return model.ViewDetail, nil
	case reportDist:
		return model.ViewDist, nil
	}
	name := string(model.ViewDailyDetail)
	if fileCfg.Report.View != nil && strings.TrimSpace(*fileCfg.Report.View) != "" {
		name = strings.TrimSpace(*fileCfg.Report.View)
	}
	return model.ParseViewType(name)
}

// readTitle picks a title interactively: from the recent list when there is
// one, otherwise free-form.
func readTitle(recent []string) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	if len(recent) == 0 {
		fmt.Print("Input Title: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read title: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", fmt.Errorf("title cannot be empty")
		}
		return line, nil
	}

	fmt.Fprintln(color.Output, printers.RecentList(recent))
	fmt.Print("Choose by index (default 1): ")
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read index: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return recent[0], nil
	}
	idx, err := strconv.Atoi(line)
	if err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}
	if idx < 1 || idx > len(recent) {
		return "", fmt.Errorf("invalid index: %d", idx)
	}
	return recent[idx-1], nil
}

func readToEnd(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		logErrf("failed to read notes: %v\n", err)
	}
	return string(data)
}

func printReport(label, text string) {
	fmt.Fprintln(color.Output, printers.ReportHeading(label))
	fmt.Fprintln(color.Output, printers.Rule(printers.TerminalWidth()))
	fmt.Fprintln(color.Output, strings.TrimRight(text, "\n"))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# clockin configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# url = %q    # Tracking server base URL (also settable via %s)

[report]
# view = %q              # Default report view: daily_detail, daily, detail, dist
`,
		defaultServerURL,
		serverEnvVar,
		string(model.ViewDailyDetail),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
