package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/narrative"
	"MarketBrief/internal/pulse"
	"MarketBrief/internal/snapshot"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// RefreshedTopic is the default topic for refresh notifications when events
// are wired.
const RefreshedTopic = "brief.refreshed"

// Refresh targets accepted by RefreshRequest.
const (
	TargetAll      = "all"
	TargetBrief    = "brief"
	TargetSnapshot = "snapshot"
	TargetPulse    = "pulse"
)

// BriefUseCase composes the daily brief: one snapshot, one risk pulse, one
// narrative pass over both. The composed brief is cached per day so repeat
// reads cost nothing upstream.
type BriefUseCase struct {
	snapshots   *snapshot.Aggregator
	pulse       *pulse.Classifier
	synth       *narrative.Synthesizer
	cache       cache.Service
	archive     domrepo.Archive
	events      domrepo.Publisher
	eventsTopic string
	log         *logger.Logger
	metrics     domrepo.Metrics
	ttl         time.Duration
	now         func() time.Time
}

// Option configures optional collaborators.
type Option func(*BriefUseCase)

// WithArchive enables best-effort archival of snapshots and pulse items.
func WithArchive(a domrepo.Archive) Option {
	return func(uc *BriefUseCase) { uc.archive = a }
}

// WithEvents enables refresh notifications on the given topic. An empty
// topic keeps RefreshedTopic.
func WithEvents(p domrepo.Publisher, topic string) Option {
	return func(uc *BriefUseCase) {
		uc.events = p
		if topic != "" {
			uc.eventsTopic = topic
		}
	}
}

// WithBriefTTL overrides the composed brief's cache TTL. Zero keeps the
// default of caching until the next UTC day.
func WithBriefTTL(ttl time.Duration) Option {
	return func(uc *BriefUseCase) {
		if ttl > 0 {
			uc.ttl = ttl
		}
	}
}

func NewBriefUseCase(
	snapshots *snapshot.Aggregator,
	classifier *pulse.Classifier,
	synth *narrative.Synthesizer,
	c cache.Service,
	log *logger.Logger,
	m domrepo.Metrics,
	opts ...Option,
) *BriefUseCase {
	uc := &BriefUseCase{
		snapshots:   snapshots,
		pulse:       classifier,
		synth:       synth,
		cache:       c,
		log:         log,
		metrics:     m,
		eventsTopic: RefreshedTopic,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Brief returns the composed narrative brief for today, building it on a
// cache miss or when force is set. Feed failures never fail the brief; the
// result carries a diagnostic instead.
func (uc *BriefUseCase) Brief(ctx context.Context, force bool) (*models.NarrativeResult, error) {
	start := uc.now()
	key := "brief:" + util.DayKey(start)

	if !force {
		var cached models.NarrativeResult
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			uc.metrics.RecordCache("brief", "hit")
			return &cached, nil
		}
		uc.metrics.RecordCache("brief", "miss")
	}

	snap := uc.snapshots.Snapshot(ctx, force)
	pulseRes := uc.pulse.Pulse(ctx, force)
	result := uc.synth.Synthesize(snap, pulseRes.Items)

	// The brief is good for the rest of the UTC day unless an explicit TTL
	// shortens it; only force recomputes within a day.
	ttl := uc.ttl
	if ttl <= 0 {
		ttl = util.UntilNextUTCDay(start)
	}
	if err := uc.cache.Set(ctx, key, result, ttl); err != nil {
		uc.log.Warn("brief cache set failed", logger.Error(err))
	}
	uc.archiveBestEffort(ctx, snap, pulseRes.Items)
	uc.metrics.RecordLatency("brief", uc.now().Sub(start).Seconds())

	return &result, nil
}

// Snapshot exposes the market snapshot directly.
func (uc *BriefUseCase) Snapshot(ctx context.Context, force bool) models.MarketSnapshot {
	return uc.snapshots.Snapshot(ctx, force)
}

// Pulse exposes the risk pulse directly.
func (uc *BriefUseCase) Pulse(ctx context.Context, force bool) models.PulseResult {
	return uc.pulse.Pulse(ctx, force)
}

// Refresh invalidates the caches behind the given target and notifies
// listeners when an event publisher is wired.
func (uc *BriefUseCase) Refresh(ctx context.Context, target string) error {
	if target == "" {
		target = TargetAll
	}

	var err error
	switch target {
	case TargetAll:
		err = firstErr(
			uc.invalidateBrief(ctx),
			uc.snapshots.Invalidate(ctx),
			uc.pulse.Invalidate(ctx),
		)
	case TargetBrief:
		err = uc.invalidateBrief(ctx)
	case TargetSnapshot:
		err = firstErr(uc.invalidateBrief(ctx), uc.snapshots.Invalidate(ctx))
	case TargetPulse:
		err = firstErr(uc.invalidateBrief(ctx), uc.pulse.Invalidate(ctx))
	default:
		return fmt.Errorf("unknown refresh target %q", target)
	}
	if err != nil {
		return fmt.Errorf("refresh %s: %w", target, err)
	}

	if uc.events != nil {
		payload := map[string]any{
			"target": target,
			"at":     uc.now().UTC().Format(time.RFC3339),
		}
		if perr := uc.events.PublishMessage(ctx, uc.eventsTopic, payload); perr != nil {
			uc.log.Warn("refresh event publish failed", logger.Error(perr))
		}
	}
	return nil
}

func (uc *BriefUseCase) invalidateBrief(ctx context.Context) error {
	return uc.cache.DeleteByPattern(ctx, "brief:*")
}

func (uc *BriefUseCase) archiveBestEffort(ctx context.Context, snap models.MarketSnapshot, items []models.RiskPulseItem) {
	if uc.archive == nil {
		return
	}
	if err := uc.archive.SaveSnapshotRows(ctx, snap.AsOf, snap.Tickers); err != nil {
		uc.log.Warn("snapshot archive failed", logger.Error(err))
		uc.metrics.RecordError("archive")
	}
	if err := uc.archive.SavePulseItems(ctx, items); err != nil {
		uc.log.Warn("pulse archive failed", logger.Error(err))
		uc.metrics.RecordError("archive")
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
