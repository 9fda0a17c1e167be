package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/config"
	"github.com/budgetwise/bwise/internal/notify"
	"github.com/budgetwise/bwise/internal/session"
	"github.com/budgetwise/bwise/internal/store"
)

var (
	flagDays    int
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bwise",
	Short: "BudgetWise terminal client",
	Long:  "Track personal and group budgets: expenses, deposits, analytics, and alerts.",
	RunE:  runDashboard,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Time window in days (0 = config default)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func initLogging() {
	level := slog.LevelWarn
	if flagVerbose || os.Getenv("BWISE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// env bundles everything a command needs: config, API client, local store,
// session, and alerting. Close it when done.
type env struct {
	cfg    config.Config
	client *api.Client
	store  *store.Store
	sess   *session.Manager
	notify *notify.Service
	bus    *session.Bus
}

// newEnv builds the shared command environment. Config problems fall back
// to defaults with a warning; a store that won't open is fatal since every
// command needs the session.
func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("config unreadable, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}

	st, err := store.Open(config.StorePath())
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	client := api.NewClient(config.ResolveBaseURL(cfg), time.Duration(cfg.API.TimeoutSec)*time.Second)
	bus := session.NewBus()

	return &env{
		cfg:    cfg,
		client: client,
		store:  st,
		sess:   session.NewManager(st, client, bus),
		notify: notify.NewService(st),
		bus:    bus,
	}, nil
}

func (e *env) Close() {
	_ = e.store.Close()
}

// requireToken resolves the active bearer token or tells the user to log in.
func (e *env) requireToken() (string, error) {
	token := e.sess.Token()
	if token == "" {
		return "", fmt.Errorf("not logged in (or session expired), run `bwise login`")
	}
	return token, nil
}

// windowDays resolves the effective time window.
func (e *env) windowDays() int {
	if flagDays > 0 {
		return flagDays
	}
	if e.cfg.General.DefaultDays > 0 {
		return e.cfg.General.DefaultDays
	}
	return 30
}

// requestCtx returns a context bounded by the configured API timeout.
func (e *env) requestCtx() (context.Context, context.CancelFunc) {
	timeout := time.Duration(e.cfg.API.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
