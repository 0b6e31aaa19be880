package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseEvent_ImplementsEvent(t *testing.T) {
	now := time.Now()
	e := BaseEvent{
		Type:      "test.event",
		Entity:    "job",
		ID:        "0192a4d6-job",
		Timestamp: now,
	}

	assert.Equal(t, "test.event", e.EventType())
	assert.Equal(t, "job", e.EntityType())
	assert.Equal(t, "0192a4d6-job", e.EntityID())
	assert.Equal(t, now, e.OccurredAt())
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent(EventJobQueued, EntityJob, "abc")

	assert.Equal(t, "job.queued", e.EventType())
	assert.Equal(t, "job", e.EntityType())
	assert.Equal(t, "abc", e.EntityID())
	assert.False(t, e.OccurredAt().IsZero())
}
