package chat

import (
	"context"
	"strings"
	"time"

	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SkillSource reads skills, strongest first.
type SkillSource interface {
	TopByPercentage(limit int) ([]models.SkillModel, error)
}

// WorkSource reads work items, newest first.
type WorkSource interface {
	ListRecent(limit int) ([]models.WorkModel, error)
}

type Options struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type Service struct {
	skills    SkillSource
	works     WorkSource
	completer Completer
	breaker   *Breaker
	rules     *Responder
	opts      Options
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewService wires the responder. completer may be nil, in which case every
// reply comes from the keyword rules.
func NewService(skills SkillSource, works WorkSource, completer Completer, breaker *Breaker, rules *Responder, opts Options, log *zap.Logger, m *metrics.Metrics) *Service {
	if breaker == nil {
		breaker = NewBreaker(0)
	}
	if rules == nil {
		rules = NewResponder(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Service{
		skills:    skills,
		works:     works,
		completer: completer,
		breaker:   breaker,
		rules:     rules,
		opts:      opts,
		log:       log,
		metrics:   m,
	}
}

// Reply answers message, preferring the remote provider and falling back to
// the keyword rules. Only an empty message is an error.
func (s *Service) Reply(ctx context.Context, message string, history []Turn) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, errMessageRequired
	}

	skills, works := s.loadContext(ctx)

	if text, ok := s.tryRemote(ctx, message, history, skills, works); ok {
		s.metrics.ChatReply(ModeRemote)
		return Reply{Response: text, Success: true, Mode: ModeRemote}, nil
	}

	s.metrics.ChatReply(ModeRuleBased)
	return Reply{
		Response: s.rules.Respond(message, skills, works),
		Success:  true,
		Mode:     ModeRuleBased,
	}, nil
}

// loadContext fetches skills and works concurrently. A failed read leaves
// that side empty.
func (s *Service) loadContext(ctx context.Context) ([]models.SkillModel, []models.WorkModel) {
	var (
		skills []models.SkillModel
		works  []models.WorkModel
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.skills.TopByPercentage(promptSkillLimit)
		if err != nil {
			s.log.Warn("chat: load skills", zap.Error(err))
			return nil
		}
		skills = items
		return nil
	})
	g.Go(func() error {
		items, err := s.works.ListRecent(promptProjectLimit)
		if err != nil {
			s.log.Warn("chat: load works", zap.Error(err))
			return nil
		}
		works = items
		return nil
	})
	_ = g.Wait()
	return skills, works
}

func (s *Service) tryRemote(ctx context.Context, message string, history []Turn, skills []models.SkillModel, works []models.WorkModel) (string, bool) {
	if s.completer == nil || !s.breaker.Allow() {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	started := time.Now()
	text, err := s.completer.Complete(ctx, CompletionRequest{
		System:      BuildSystemPrompt(skills, works),
		History:     recentTurns(history),
		Message:     message,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	elapsed := time.Since(started)

	switch {
	case err == nil:
		s.breaker.Reset()
		s.metrics.ChatRemote("ok", elapsed)
		s.metrics.RemoteDisabled(false)
		if strings.TrimSpace(text) == "" {
			text = emptyCompletionReply
		}
		return text, true
	case IsQuotaError(err):
		s.breaker.Trip()
		s.metrics.ChatRemote("quota", elapsed)
		s.metrics.RemoteDisabled(true)
		s.log.Warn("chat: provider quota exceeded, using rule-based replies",
			zap.String("provider", s.completer.Provider()), zap.Error(err))
	default:
		// only quota errors count against the provider
		s.breaker.Reset()
		s.metrics.ChatRemote("error", elapsed)
		s.log.Error("chat: remote completion failed, falling back",
			zap.String("provider", s.completer.Provider()), zap.Error(err))
	}
	return "", false
}

// Status reports the remote configuration and breaker state.
func (s *Service) Status() Status {
	st := Status{Breaker: s.breaker.State(), Mode: ModeRuleBased}
	if s.completer != nil {
		st.RemoteConfigured = true
		st.Provider = s.completer.Provider()
		st.Model = s.completer.Model()
		if st.Breaker != StateOpen {
			st.Mode = ModeRemote
		}
	}
	return st
}
