package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/internal/model"
	"github.com/mazraati/assistant-platform/internal/service"
	"github.com/mazraati/assistant-platform/internal/store"
	"github.com/mazraati/assistant-platform/pkg/logger"
	"github.com/mazraati/assistant-platform/pkg/metrics"
)

// Notifier publishes operator-facing events. Implementations must be safe
// for concurrent use; a nil Notifier disables notification.
type Notifier interface {
	PublishEscalation(ctx context.Context, ev *model.EscalationEvent) error
}

// Engine resolves one question per call through a strictly ordered pipeline:
// sensitive-scenario gate, context-scoped lookup, corpus-wide lookup,
// fallback. Exactly one terminal outcome is reached per turn. Persistence
// failures never abort a turn; the caller always receives a response.
type Engine struct {
	sessions   *service.SessionService
	messages   *store.MessageRepository
	answers    *store.AnswerRepository
	unanswered *store.UnansweredRepository
	detector   *Detector
	matcher    *Matcher
	notifier   Notifier
	logger     *logger.Logger
}

// New creates a resolution engine. notifier may be nil.
func New(
	sessions *service.SessionService,
	messages *store.MessageRepository,
	answers *store.AnswerRepository,
	unanswered *store.UnansweredRepository,
	detector *Detector,
	matcher *Matcher,
	notifier Notifier,
	log *logger.Logger,
) *Engine {
	return &Engine{
		sessions:   sessions,
		messages:   messages,
		answers:    answers,
		unanswered: unanswered,
		detector:   detector,
		matcher:    matcher,
		notifier:   notifier,
		logger:     log,
	}
}

// Resolve answers a question. It never returns an error: unexpected failures
// anywhere in the pipeline collapse into the fallback apology with the two
// generic recovery actions.
func (e *Engine) Resolve(ctx context.Context, req *model.AskRequest) (resp *model.AskResponse) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("resolution pipeline panicked", zap.Any("panic", r))
			resp = &model.AskResponse{
				Answer:           FallbackAnswer,
				Confidence:       0,
				Outcome:          model.OutcomeFallback,
				SuggestedActions: fallbackActions(),
			}
		}
		metrics.RecordTurn(resp.Outcome, string(req.Audience), time.Since(start).Seconds())
	}()

	sess := e.resolveSession(ctx, req)
	resp = e.resolveTurn(ctx, req, sess)
	if sess != nil {
		resp.SessionID = sess.ID
	}
	e.logTurn(ctx, sess, req, resp, time.Since(start))
	return resp
}

// resolveSession is best-effort: on datastore failure the turn proceeds
// session-less and no history is persisted.
func (e *Engine) resolveSession(ctx context.Context, req *model.AskRequest) *model.Session {
	params := service.SessionParams{
		SessionID:   req.SessionID,
		UserID:      req.CallerID,
		Audience:    req.Audience,
		CurrentPage: req.CurrentPage,
		Language:    req.ClientContext.Language,
	}
	if req.CallerID == "" {
		params.Fingerprint = Fingerprint(req.ClientContext, time.Now())
	}

	sess, err := e.sessions.GetOrCreate(ctx, params)
	if err != nil {
		e.logger.Warn("session unavailable, continuing session-less", zap.Error(err))
		return nil
	}
	return sess
}

func (e *Engine) resolveTurn(ctx context.Context, req *model.AskRequest, sess *model.Session) *model.AskResponse {
	// Hard gate: sensitive scenarios run before any FAQ lookup and leave no
	// usage-counter side effects.
	match, err := e.detector.Detect(ctx, req.Question)
	if err != nil {
		e.logger.Warn("scenario detection failed", zap.Error(err))
	}
	if match != nil {
		return e.escalate(ctx, req, sess, match)
	}

	candidates, err := e.matcher.Match(ctx, req.Question, MatchContext{
		Audience: req.Audience,
		Page:     req.CurrentPage,
	})
	if err != nil {
		e.logger.Warn("knowledge matching failed", zap.Error(err))
	}
	if best, ok := e.matcher.Accept(candidates); ok {
		return e.answer(ctx, req, best)
	}

	return e.fallback(ctx, req)
}

func (e *Engine) escalate(ctx context.Context, req *model.AskRequest, sess *model.Session, match *model.ScenarioMatch) *model.AskResponse {
	sc := match.Scenario
	metrics.EscalationsTotal.WithLabelValues(sc.Name).Inc()

	if sc.NotifyOperators && e.notifier != nil {
		ev := &model.EscalationEvent{
			Scenario:  sc.Name,
			Keyword:   match.Keyword,
			Question:  req.Question,
			Audience:  req.Audience,
			Page:      req.CurrentPage,
			CreatedAt: time.Now().UTC(),
		}
		if sess != nil {
			ev.SessionID = sess.ID
		}
		bestEffort(e.logger, "notify_operators", func() error {
			return e.notifier.PublishEscalation(ctx, ev)
		})
	}

	return &model.AskResponse{
		Answer:           sc.ResponseTemplate,
		Confidence:       1,
		Category:         sc.Name,
		Outcome:          model.OutcomeEscalated,
		SuggestedActions: escalationActions(sc.RedirectToSupport),
	}
}

func (e *Engine) answer(ctx context.Context, req *model.AskRequest, best *model.AnswerCandidate) *model.AskResponse {
	metrics.MatchScore.Observe(float64(best.Score))

	bestEffort(e.logger, "increment_usage", func() error {
		return e.answers.IncrementUsage(ctx, best.Answer.ID)
	})

	return &model.AskResponse{
		Answer:           best.Answer.Answer,
		Confidence:       e.matcher.Confidence(best.Score),
		Category:         best.Answer.Category(),
		MatchedAnswerID:  best.Answer.ID,
		Outcome:          model.OutcomeAnswered,
		SuggestedActions: actionsForAudience(req.Audience),
	}
}

func (e *Engine) fallback(ctx context.Context, req *model.AskRequest) *model.AskResponse {
	metrics.UnansweredTotal.Inc()

	bestEffort(e.logger, "record_unanswered", func() error {
		return e.unanswered.Record(ctx, req.Question, req.Audience, req.CurrentPage)
	})

	return &model.AskResponse{
		Answer:           FallbackAnswer,
		Confidence:       0,
		Category:         FallbackCategory,
		Outcome:          model.OutcomeFallback,
		SuggestedActions: fallbackActions(),
	}
}

// logTurn appends the user message and then the assistant message, in that
// order, and bumps the session's last-activity timestamp. All best-effort:
// a session-less turn is simply not logged.
func (e *Engine) logTurn(ctx context.Context, sess *model.Session, req *model.AskRequest, resp *model.AskResponse, latency time.Duration) {
	if sess == nil {
		return
	}

	bestEffort(e.logger, "append_user_message", func() error {
		return e.messages.Append(ctx, &model.Message{
			SessionID: sess.ID,
			Role:      model.RoleUser,
			Content:   req.Question,
		})
	})

	latencyMs := latency.Milliseconds()
	assistant := &model.Message{
		SessionID:  sess.ID,
		Role:       model.RoleAssistant,
		Content:    resp.Answer,
		Confidence: &resp.Confidence,
		LatencyMs:  &latencyMs,
	}
	if resp.Category != "" {
		assistant.Intent = &resp.Category
	}
	if resp.MatchedAnswerID != "" {
		assistant.MatchedAnswerID = &resp.MatchedAnswerID
	}
	bestEffort(e.logger, "append_assistant_message", func() error {
		return e.messages.Append(ctx, assistant)
	})

	bestEffort(e.logger, "touch_session", func() error {
		return e.sessions.Touch(ctx, sess.ID, req.CurrentPage)
	})
}
