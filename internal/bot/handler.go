// Package bot answers campaign chat commands and runs the Telegram transport.
package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/model"
	"github.com/ashewa/campaignbot/internal/progress"
	"github.com/ashewa/campaignbot/internal/store"

	"go.uber.org/zap"
)

// Commands the handler understands, in the order they are listed in help.
const (
	CmdStart     = "start"
	CmdCampaign  = "campaign"
	CmdProgress  = "progress"
	CmdTargets   = "targets"
	CmdRevenue   = "revenue"
	CmdMilestone = "milestone"
	CmdMotivate  = "motivate"
	CmdHelp      = "help"
)

// Handler turns a command name into reply text. It holds no mutable state
// apart from its random source.
type Handler struct {
	store    store.Store
	calc     *progress.Calculator
	campaign config.CampaignConfig
	now      func() time.Time
	rnd      *rand.Rand
	log      *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithRand sets the random source used by motivate.
func WithRand(r *rand.Rand) Option {
	return func(h *Handler) { h.rnd = r }
}

// WithLogger sets the handler logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// NewHandler returns a Handler reading the record from st.
func NewHandler(st store.Store, calc *progress.Calculator, campaign config.CampaignConfig, opts ...Option) *Handler {
	h := &Handler{
		store:    st,
		calc:     calc,
		campaign: campaign,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.rnd == nil {
		h.rnd = rand.New(rand.NewPCG(uint64(h.now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return h
}

// NormalizeCommand strips the leading slash, any @botname suffix and
// arguments, and lowercases the rest.
func NormalizeCommand(text string) string {
	cmd, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	cmd = strings.TrimPrefix(cmd, "/")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}

// Handle returns the Markdown reply for command. Unknown commands get the
// help text. Errors are storage failures; the caller decides how to report them.
func (h *Handler) Handle(ctx context.Context, command string) (string, error) {
	switch cmd := NormalizeCommand(command); cmd {
	case CmdStart:
		return h.start(ctx)
	case CmdCampaign:
		return campaignMessage(h.campaign), nil
	case CmdProgress:
		stats, err := h.Stats(ctx)
		if err != nil {
			return "", err
		}
		return progressMessage(h.campaign, stats), nil
	case CmdTargets:
		return targetsMessage(h.campaign), nil
	case CmdRevenue:
		stats, err := h.Stats(ctx)
		if err != nil {
			return "", err
		}
		return revenueMessage(h.campaign, stats), nil
	case CmdMilestone:
		stats, err := h.Stats(ctx)
		if err != nil {
			return "", err
		}
		return milestoneMessage(stats), nil
	case CmdMotivate:
		msg, ok := PickMotivation(h.campaign.Motivations, h.rnd)
		if !ok {
			return defaultMotivation, nil
		}
		return msg, nil
	case CmdHelp:
		return helpMessage(), nil
	default:
		return unknownMessage(cmd), nil
	}
}

// Stats reads the record and computes the current progress view. A record
// that does not exist yet reads as a campaign starting today.
func (h *Handler) Stats(ctx context.Context) (model.ProgressStats, error) {
	now := h.now()
	rec, err := h.store.Progress(ctx)
	switch {
	case errors.Is(err, store.ErrNotInitialized):
		h.log.Debug("progress record missing, using first-run defaults")
		rec = h.calc.Fresh(now)
	case err != nil:
		return model.ProgressStats{}, err
	}
	return h.calc.Compute(rec, now), nil
}

func (h *Handler) start(ctx context.Context) (string, error) {
	today := h.calc.Today(h.now())
	created, err := h.store.EnsureInitialized(ctx, today)
	if err != nil {
		return "", err
	}
	if created {
		h.log.Info("campaign initialized", zap.String("start_date", today.Format("2006-01-02")))
	}
	return welcomeMessage(h.campaign), nil
}

// PickMotivation returns a uniformly chosen message. It reports false when
// msgs is empty.
func PickMotivation(msgs []string, rnd *rand.Rand) (string, bool) {
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[rnd.IntN(len(msgs))], true
}
