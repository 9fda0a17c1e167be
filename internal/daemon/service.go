// Package daemon provides the long-running background account monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/notify"
	"github.com/budgetwise/bwise/internal/pipeline"
)

// Backend is the slice of the API client the daemon polls.
type Backend interface {
	Expenses(ctx context.Context, token string) ([]model.Transaction, error)
	Deposits(ctx context.Context, token string) ([]model.Transaction, error)
}

// Session resolves the token and context for the account being watched.
type Session interface {
	Token() string
	ContextKey() string
}

// Cache receives the freshly fetched transaction list after each poll.
type Cache interface {
	ReplaceTransactions(contextKey string, txs []model.Transaction) error
}

// Config controls the daemon runtime behavior. Budget is the monthly
// spending budget; zero disables budget alerts.
type Config struct {
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Budget       float64
}

// Snapshot is a compact account state for status/event payloads.
type Snapshot struct {
	At           time.Time `json:"at"`
	ContextKey   string    `json:"context_key"`
	Income       float64   `json:"income"`
	Expense      float64   `json:"expense"`
	Net          float64   `json:"net"`
	Transactions int       `json:"transactions"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Net          float64 `json:"net"`
	Transactions int     `json:"transactions"`
}

func (d Delta) isZero() bool {
	return d.Income == 0 &&
		d.Expense == 0 &&
		d.Net == 0 &&
		d.Transactions == 0
}

// Event is emitted whenever the account snapshot updates.
type Event struct {
	ID        int64         `json:"id"`
	Type      string        `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Snapshot  Snapshot      `json:"snapshot"`
	Delta     Delta         `json:"delta"`
	Alert     *notify.Alert `json:"alert,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ContextKey      string    `json:"context_key"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	backend Backend
	session Session
	cache   Cache
	alerts  *notify.Service

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event
	summaryWeek string

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config and dependencies.
// The alerts service may be nil, in which case no alerts are evaluated.
func New(cfg Config, backend Backend, session Session, cache Cache, alerts *notify.Service) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 60 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:5191"
	}

	return &Service{
		cfg:       cfg,
		backend:   backend,
		session:   session,
		cache:     cache,
		alerts:    alerts,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	now := time.Now()
	contextKey := s.session.ContextKey()

	txs, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		slog.Debug("daemon poll failed", "error", err)
		return
	}

	if s.cache != nil {
		if err := s.cache.ReplaceTransactions(contextKey, txs); err != nil {
			slog.Debug("daemon cache refresh failed", "error", err)
		}
	}

	balance := model.Sum(txs)
	snap := Snapshot{
		At:           now,
		ContextKey:   contextKey,
		Income:       balance.Income,
		Expense:      balance.Expense,
		Net:          balance.Net(),
		Transactions: len(txs),
	}

	var (
		ev        Event
		publish   bool
		summary   Event
		summarize bool
		spendUp   bool
	)
	week := isoWeekKey(now)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.summaryWeek = week
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     Delta{},
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() || prev.ContextKey != snap.ContextKey {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "activity",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
			spendUp = delta.Expense > 0
		}
		if s.summaryWeek != week {
			s.summaryWeek = week
			s.nextEventID++
			summary = Event{
				ID:        s.nextEventID,
				Type:      "summary",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     Delta{},
			}
			summarize = true
		}
	}
	s.mu.Unlock()

	if publish {
		if s.alerts != nil {
			ev.Alert = s.alerts.CheckBalance(snap.Net)
			if ev.Alert == nil && spendUp && s.cfg.Budget > 0 {
				spent := monthSpend(txs, now)
				if spent >= s.cfg.Budget*0.9 {
					ev.Alert = s.alerts.BudgetAlert(s.cfg.Budget, spent)
				}
			}
		}
		s.publishEvent(ev)
	}
	if summarize {
		if s.alerts != nil {
			summary.Alert = s.alerts.WeeklySummary(weekTransactions(txs, now))
		}
		s.publishEvent(summary)
	}
}

// isoWeekKey identifies a calendar week for summary scheduling.
func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}

// monthSpend totals expense magnitudes dated in the same calendar month
// as now. Expense amounts carry the display sign convention (negative).
func monthSpend(txs []model.Transaction, now time.Time) float64 {
	var spent float64
	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		if tx.Time.Year() == now.Year() && tx.Time.Month() == now.Month() {
			spent += -tx.Amount
		}
	}
	return spent
}

// weekTransactions filters to the seven days preceding now.
func weekTransactions(txs []model.Transaction, now time.Time) []model.Transaction {
	cutoff := now.AddDate(0, 0, -7)
	var out []model.Transaction
	for _, tx := range txs {
		if tx.Time.After(cutoff) && !tx.Time.After(now) {
			out = append(out, tx)
		}
	}
	return out
}

func (s *Service) fetch(ctx context.Context) ([]model.Transaction, error) {
	token := s.session.Token()
	if token == "" {
		return nil, errors.New("not logged in")
	}

	expenses, err := s.backend.Expenses(ctx, token)
	if err != nil {
		return nil, err
	}
	deposits, err := s.backend.Deposits(ctx, token)
	if err != nil {
		return nil, err
	}

	return pipeline.Merge(expenses, deposits), nil
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Income:       curr.Income - prev.Income,
		Expense:      curr.Expense - prev.Expense,
		Net:          curr.Net - prev.Net,
		Transactions: curr.Transactions - prev.Transactions,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ContextKey:      s.snapshot.ContextKey,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
