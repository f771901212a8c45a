package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ashewa/campaignbot/internal/bot"
	"github.com/ashewa/campaignbot/internal/cli"
	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/daemon"
	"github.com/ashewa/campaignbot/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagServeAddr    string
	flagServePIDFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the status API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bot process and API status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running bot",
	RunE:  runServeStop,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP status API address (overrides http.addr, \"off\" disables)")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", filepath.Join(config.DataDir(), "ashewa.pid"), "PID file path")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr(cfg config.Config) string {
	switch flagServeAddr {
	case "":
		return cfg.HTTP.Addr
	case "off":
		return ""
	default:
		return flagServeAddr
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := ensureNotRunning(flagServePIDFile); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create pid directory: %w", err)
	}
	if err := writePID(flagServePIDFile, os.Getpid()); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagServePIDFile) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, bot.WithLogger(logger.Named("handler")))
	if err != nil {
		logger.Error("open store", zap.Error(err))
		return err
	}
	defer e.Close()

	today := e.calc.Today(time.Now())
	created, err := e.store.EnsureInitialized(ctx, today)
	if err != nil {
		logger.Error("initialize campaign", zap.Error(err))
		return fmt.Errorf("initializing campaign: %w", err)
	}
	if created {
		logger.Info("campaign initialized", zap.String("start_date", cli.FormatDate(today)))
	}

	api, err := bot.Dial(cfg.Bot.Token, cfg.Bot.Debug, logger.Named("telegram"))
	if err != nil {
		logger.Error("connect telegram", zap.Error(err))
		return err
	}

	addr := serveAddr(cfg)
	svc := daemon.New(daemon.Config{Addr: addr, EventsBuffer: cfg.HTTP.EventsBuffer}, e.handler, logger.Named("daemon"))
	b := bot.NewBot(api, e.handler,
		bot.WithObserver(svc.Record),
		bot.WithBotLogger(logger.Named("bot")),
		bot.WithPollTimeout(cfg.Bot.PollTimeoutSec),
	)

	logger.Info("bot starting",
		zap.String("campaign", cfg.Campaign.Name),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("http_addr", addr),
	)
	if err := svc.Run(ctx, b); err != nil {
		logger.Error("bot stopped", zap.Error(err))
		return err
	}
	logger.Info("bot stopped")
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	pid, err := readPID(flagServePIDFile)
	if err != nil || !processAlive(pid) {
		fmt.Println("  Bot: not running")
	} else {
		fmt.Printf("  Bot PID: %d\n", pid)
	}

	addr := serveAddr(cfg)
	if addr == "" {
		fmt.Println("  API: disabled")
		return nil
	}
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	now := time.Now()
	fmt.Println()
	fmt.Print(cli.RenderKV("Bot", [][2]string{
		{"Started", cli.FormatSince(st.StartedAt, now)},
		{"Commands handled", cli.FormatNumber(st.HandledCount)},
		{"Failed", cli.FormatNumber(st.FailedCount)},
		{"Last command", cli.FormatSince(st.LastCommandAt, now)},
		{"Buffered events", strconv.Itoa(st.EventCount)},
	}))
	if st.LastError != "" {
		fmt.Printf("    Last error: %s\n", st.LastError)
	}
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagServePIDFile)
	if err != nil {
		return errors.New("bot is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find bot process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal bot process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagServePIDFile)
			fmt.Printf("  Stopped bot (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("bot (pid %d) did not exit in time", pid)
}

// ensureNotRunning fails when another serve process holds the PID file.
// Two pollers on one token make Telegram reject both.
func ensureNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil
		case errors.Is(err, errBadPID):
			return os.Remove(pidFile)
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("bot already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	return nil
}

var errBadPID = errors.New("invalid pid")

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // pid path is configured by the local user
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w in %s", errBadPID, path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
