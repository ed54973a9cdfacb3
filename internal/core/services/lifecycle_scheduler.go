package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
)

type RuleReport struct {
	Rule     string
	Due      int
	Advanced int
	Skipped  int
	Failed   int
}

type TickReport struct {
	Rules []RuleReport
}

func (r TickReport) Advanced() int {
	n := 0
	for _, rr := range r.Rules {
		n += rr.Advanced
	}
	return n
}

// LifecycleScheduler moves events through their time-driven sale phases.
// A tick is stateless: it looks at what is due now and tries each event once.
type LifecycleScheduler struct {
	events     ports.EventRepository
	batchLimit int
	options
}

func NewLifecycleScheduler(events ports.EventRepository, batchLimit int, opts ...Option) *LifecycleScheduler {
	return &LifecycleScheduler{
		events:     events,
		batchLimit: batchLimit,
		options:    buildOptions("lifecycle", opts),
	}
}

func (s *LifecycleScheduler) Tick(ctx context.Context) (TickReport, error) {
	now := s.clock.Now()
	report := TickReport{Rules: make([]RuleReport, 0, len(domain.LifecycleRules))}

	var errs []error
	for _, rule := range domain.LifecycleRules {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		rr, err := s.applyRule(ctx, rule, now)
		report.Rules = append(report.Rules, rr)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return report, errors.Join(errs...)
}

func (s *LifecycleScheduler) applyRule(ctx context.Context, rule domain.LifecycleRule, now time.Time) (RuleReport, error) {
	rr := RuleReport{Rule: rule.String()}

	due, err := s.events.FindDue(ctx, rule, now, s.batchLimit)
	if err != nil {
		return rr, fmt.Errorf("find due events for %s: %w", rule, err)
	}
	rr.Due = len(due)

	for i := range due {
		event := &due[i]
		log := s.log.With(zap.String("event_id", event.ID.String()), zap.String("rule", rr.Rule))

		// The query already filtered on status and trigger time; re-check so a
		// stale row never skips a phase.
		if event.Status != rule.From || rule.TriggerTime(event).After(now) {
			rr.Skipped++
			continue
		}

		from := event.Status
		if err := event.AdvanceTo(rule.To); err != nil {
			rr.Skipped++
			continue
		}

		ok, err := s.events.UpdateStatus(ctx, event.ID, from, rule.To)
		if err != nil {
			rr.Failed++
			s.metrics.Transition(rr.Rule, "error")
			log.Error("failed to advance event", zap.Error(err))
			continue
		}
		if !ok {
			rr.Skipped++
			s.metrics.Transition(rr.Rule, "skipped")
			log.Debug("event advanced by another writer")
			continue
		}

		rr.Advanced++
		s.metrics.Transition(rr.Rule, "advanced")
		log.Info("event advanced", zap.String("status", string(rule.To)))
	}

	return rr, nil
}
