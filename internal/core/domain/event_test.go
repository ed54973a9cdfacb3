package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

func TestEventStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, domain.EventReady.CanAdvanceTo(domain.EventPreOpen))
	assert.True(t, domain.EventPreClosed.CanAdvanceTo(domain.EventQueueReady))
	assert.True(t, domain.EventOpen.CanAdvanceTo(domain.EventClosed))

	assert.False(t, domain.EventReady.CanAdvanceTo(domain.EventPreClosed), "phases are never skipped")
	assert.False(t, domain.EventOpen.CanAdvanceTo(domain.EventQueueReady), "status never moves backwards")
	assert.False(t, domain.EventClosed.CanAdvanceTo(domain.EventClosed))
	assert.False(t, domain.EventStatus("BOGUS").CanAdvanceTo(domain.EventReady))
}

func TestEvent_AdvanceTo(t *testing.T) {
	e := &domain.Event{Status: domain.EventPreOpen}

	assert.NoError(t, e.AdvanceTo(domain.EventPreClosed))
	assert.Equal(t, domain.EventPreClosed, e.Status)

	assert.ErrorIs(t, e.AdvanceTo(domain.EventOpen), domain.ErrInvalidEventTransition)
	assert.Equal(t, domain.EventPreClosed, e.Status)
}

func TestLifecycleRules_ExcludeShuffleTransition(t *testing.T) {
	for _, r := range domain.LifecycleRules {
		assert.True(t, r.From.CanAdvanceTo(r.To), r.String())
		assert.NotEqual(t, domain.EventQueueReady, r.To, "only a shuffle produces QUEUE_READY")
	}
	assert.Len(t, domain.LifecycleRules, 4)
}

func TestLifecycleRule_TriggerTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := &domain.Event{
		PreOpenAt:     base,
		PreCloseAt:    base.Add(time.Hour),
		TicketOpenAt:  base.Add(2 * time.Hour),
		TicketCloseAt: base.Add(3 * time.Hour),
	}

	want := []time.Time{e.PreOpenAt, e.PreCloseAt, e.TicketOpenAt, e.TicketCloseAt}
	for i, r := range domain.LifecycleRules {
		assert.Equal(t, want[i], r.TriggerTime(e), r.String())
	}
	assert.Equal(t, "READY->PRE_OPEN", domain.LifecycleRules[0].String())
}

func TestEventStatus_Precedes(t *testing.T) {
	assert.True(t, domain.EventPreOpen.Precedes(domain.EventPreClosed))
	assert.True(t, domain.EventQueueReady.Precedes(domain.EventClosed))
	assert.False(t, domain.EventOpen.Precedes(domain.EventQueueReady))
	assert.False(t, domain.EventOpen.Precedes(domain.EventOpen))
}
