// Package daemon runs the chat bot next to a small HTTP status API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ashewa/campaignbot/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string // empty disables the HTTP API
	EventsBuffer int
}

// Runner is a blocking component stopped by canceling its context.
type Runner interface {
	Run(ctx context.Context) error
}

// ProgressSource computes the current progress view.
type ProgressSource interface {
	Stats(ctx context.Context) (model.ProgressStats, error)
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	UptimeSec       int64     `json:"uptime_sec"`
	LastCommandAt   time.Time `json:"last_command_at,omitzero"`
	HandledCount    int64     `json:"handled_count"`
	FailedCount     int64     `json:"failed_count"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service records handled commands and serves them over HTTP.
type Service struct {
	cfg      Config
	progress ProgressSource
	log      *zap.Logger
	now      func() time.Time

	mu            sync.RWMutex
	startedAt     time.Time
	lastCommandAt time.Time
	handled       int64
	failed        int64
	lastError     string
	nextEventID   int64
	events        []model.CommandEvent

	nextSubID int
	subs      map[int]chan model.CommandEvent
}

// New returns a service reading progress from src.
func New(cfg Config, src ProgressSource, log *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		progress:  src,
		log:       log,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan model.CommandEvent),
	}
}

// Run runs bot and the HTTP API until ctx is canceled or either stops.
// bot may be nil to serve only the API.
func (s *Service) Run(ctx context.Context, bot Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if bot != nil {
		g.Go(func() error {
			defer cancel()
			if err := bot.Run(gctx); err != nil {
				return fmt.Errorf("bot: %w", err)
			}
			return nil
		})
	}

	if s.cfg.Addr != "" {
		server := &http.Server{
			Addr:              s.cfg.Addr,
			Handler:           s.Router(),
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return gctx },
		}

		g.Go(func() error {
			s.log.Info("status api listening", zap.String("addr", s.cfg.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// Router returns the HTTP API handler.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/progress", s.handleProgress)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

// Record stores ev in the event ring and publishes it to stream subscribers.
// It is used as the bot's observer.
func (s *Service) Record(ev model.CommandEvent) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.handled++
	s.lastCommandAt = ev.Timestamp
	if ev.Error != "" {
		s.failed++
		s.lastError = ev.Error
	}
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev model.CommandEvent) {
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
		UptimeSec:       int64(s.now().Sub(s.startedAt).Seconds()),
		LastCommandAt:   s.lastCommandAt,
		HandledCount:    s.handled,
		FailedCount:     s.failed,
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
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleProgress(w http.ResponseWriter, r *http.Request) {
	stats, err := s.progress.Stats(r.Context())
	if err != nil {
		s.log.Error("read progress",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "progress unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]model.CommandEvent, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
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

	ch := make(chan model.CommandEvent, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
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

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev model.CommandEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprint(w, "event: command\n")
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan model.CommandEvent) int {
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
