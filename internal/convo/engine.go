package convo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aetv-bot/internal/cache"
	"aetv-bot/internal/catalog"
	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
	"aetv-bot/internal/metrics"
	"aetv-bot/internal/repo"
)

// Deliverer sends a text message to a recipient identifier. Delivery is
// best-effort; the engine logs failures and moves on.
type Deliverer interface {
	SendText(ctx context.Context, to, body string) error
}

// Notifier relays a formatted event string to the operator channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// EngineConfig tunes the engine's cache behaviour.
type EngineConfig struct {
	DedupeTTL   time.Duration
	TurnLockTTL time.Duration
}

// Engine executes one conversation turn: it loads the sender's state, lets
// the router decide, runs the decision's effects in order (recorder,
// notifier, state write, reply) and never sends more than one reply.
type Engine struct {
	store     repo.Store
	router    *Router
	deliverer Deliverer
	notifier  Notifier
	redis     *cache.Redis
	metrics   *metrics.Metrics
	logger    *slog.Logger
	locks     *senderLocks
	cfg       EngineConfig
}

// New wires the engine. notifier and redisClient may be nil; the matching
// features are then disabled.
func New(store repo.Store, cat *catalog.Catalog, deliverer Deliverer, notifier Notifier, redisClient *cache.Redis, metricRegistry *metrics.Metrics, logger *slog.Logger, cfg EngineConfig) *Engine {
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 10 * time.Minute
	}
	if cfg.TurnLockTTL <= 0 {
		cfg.TurnLockTTL = 30 * time.Second
	}
	return &Engine{
		store:     store,
		router:    NewRouter(cat),
		deliverer: deliverer,
		notifier:  notifier,
		redis:     redisClient,
		metrics:   metricRegistry,
		logger:    logger.With("component", "convo"),
		locks:     newSenderLocks(),
		cfg:       cfg,
	}
}

// HandleInbound processes one inbound message. messageID is the gateway's
// message identifier and may be empty; when present it is used to drop
// gateway retries of a turn that was already handled.
func (e *Engine) HandleInbound(ctx context.Context, senderID, text, messageID string) error {
	if senderID == "" {
		e.metrics.InboundMessages.WithLabelValues("dropped").Inc()
		return nil
	}

	if e.redis != nil {
		seen, err := e.redis.MarkSeen(ctx, messageID, e.cfg.DedupeTTL)
		if err != nil {
			e.logger.Warn("inbound dedupe check failed", "error", err)
		} else if seen {
			e.metrics.InboundMessages.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	e.locks.lock(senderID)
	defer e.locks.unlock(senderID)
	e.acquireTurnLock(ctx, senderID)
	defer e.releaseTurnLock(ctx, senderID)

	language := lang.Detect(text)

	if err := e.store.UpsertSeen(ctx, senderID, language); err != nil {
		e.metrics.Errors.WithLabelValues("store").Inc()
		e.metrics.InboundMessages.WithLabelValues("failed").Inc()
		return fmt.Errorf("upsert seen: %w", err)
	}

	snapshot, err := e.store.GetState(ctx, senderID)
	if err != nil {
		// Without the state no coherent reply can be composed; abort the turn.
		e.metrics.Errors.WithLabelValues("store").Inc()
		e.metrics.InboundMessages.WithLabelValues("failed").Inc()
		return fmt.Errorf("load state: %w", err)
	}

	if err := e.store.InsertMessage(ctx, domain.Message{
		SenderID:  senderID,
		Direction: domain.DirectionInbound,
		Content:   text,
	}); err != nil {
		e.logger.Warn("failed auditing inbound message", "sender", senderID, "error", err)
	}

	decision := e.router.Decide(senderID, snapshot, language, text)
	e.metrics.RouterBranches.WithLabelValues(decision.Branch).Inc()
	e.logger.Debug("router decision",
		"sender", senderID,
		"branch", decision.Branch,
		"state", snapshot.State.String(),
		"next", decision.Next.String(),
	)

	var turnErrs []error
	turnErrs = append(turnErrs, e.runRecorder(ctx, senderID, decision)...)

	if decision.Notice != "" && e.notifier != nil {
		if err := e.notifier.Notify(ctx, decision.Notice); err != nil {
			e.metrics.NotifierEvents.WithLabelValues("error").Inc()
			e.logger.Warn("operator notification failed", "error", err)
		} else {
			e.metrics.NotifierEvents.WithLabelValues("ok").Inc()
		}
	}

	if err := e.store.SetState(ctx, senderID, decision.Next, decision.PendingPlan); err != nil {
		// The reply was already composed; favour forward progress and record
		// the inconsistency.
		e.metrics.Errors.WithLabelValues("store").Inc()
		e.logger.Error("failed persisting state transition", "sender", senderID, "error", err)
		turnErrs = append(turnErrs, fmt.Errorf("set state: %w", err))
	}

	if err := e.deliverer.SendText(ctx, senderID, decision.Reply); err != nil {
		e.metrics.OutboundMessages.WithLabelValues("error").Inc()
		e.logger.Error("failed delivering reply", "sender", senderID, "error", err)
		turnErrs = append(turnErrs, fmt.Errorf("deliver reply: %w", err))
	} else {
		e.metrics.OutboundMessages.WithLabelValues("ok").Inc()
		if err := e.store.InsertMessage(ctx, domain.Message{
			SenderID:  senderID,
			Direction: domain.DirectionOutbound,
			Content:   decision.Reply,
		}); err != nil {
			e.logger.Warn("failed auditing outbound message", "sender", senderID, "error", err)
		}
	}

	if len(turnErrs) > 0 {
		e.metrics.InboundMessages.WithLabelValues("failed").Inc()
		return errors.Join(turnErrs...)
	}
	e.metrics.InboundMessages.WithLabelValues("ok").Inc()
	return nil
}

func (e *Engine) runRecorder(ctx context.Context, senderID string, decision Decision) []error {
	var errs []error
	if decision.Lead != nil {
		_, err := e.store.InsertLead(ctx, domain.Lead{
			SenderID:    senderID,
			ContactText: decision.Lead.ContactText,
			Source:      decision.Lead.Source,
		})
		if err != nil {
			e.metrics.Errors.WithLabelValues("recorder").Inc()
			e.logger.Error("failed recording lead", "sender", senderID, "error", err)
			errs = append(errs, fmt.Errorf("record lead: %w", err))
		} else {
			e.metrics.LeadsRecorded.WithLabelValues(string(decision.Lead.Source)).Inc()
		}
	}
	if decision.Order != nil {
		_, err := e.store.InsertOrder(ctx, domain.Order{
			SenderID: senderID,
			Plan:     string(decision.Order.Plan),
			Status:   domain.OrderStatusInitiated,
		})
		if err != nil {
			e.metrics.Errors.WithLabelValues("recorder").Inc()
			e.logger.Error("failed recording order", "sender", senderID, "error", err)
			errs = append(errs, fmt.Errorf("record order: %w", err))
		} else {
			e.metrics.OrdersRecorded.Inc()
		}
	}
	return errs
}

// acquireTurnLock takes the cross-instance lock when redis is configured.
// The in-process sender lock already serializes turns within one instance;
// the redis lock covers multi-instance deploys. A busy lock is waited on
// briefly rather than failing the turn.
func (e *Engine) acquireTurnLock(ctx context.Context, senderID string) {
	if e.redis == nil {
		return
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		ok, err := e.redis.AcquireTurnLock(ctx, senderID, e.cfg.TurnLockTTL)
		if err != nil {
			e.logger.Warn("turn lock acquire failed", "sender", senderID, "error", err)
			return
		}
		if ok {
			return
		}
		if time.Now().After(deadline) {
			e.logger.Warn("turn lock busy past deadline, proceeding", "sender", senderID)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (e *Engine) releaseTurnLock(ctx context.Context, senderID string) {
	if e.redis == nil {
		return
	}
	e.redis.ReleaseTurnLock(ctx, senderID)
}
