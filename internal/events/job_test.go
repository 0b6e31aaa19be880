// internal/events/job_test.go
package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobEvents_ImplementEvent(t *testing.T) {
	tests := []struct {
		name       string
		event      Event
		wantType   string
		wantEntity string
	}{
		{"queued", &JobQueued{BaseEvent: NewBaseEvent(EventJobQueued, EntityJob, "j1")}, EventJobQueued, EntityJob},
		{"started", &JobStarted{BaseEvent: NewBaseEvent(EventJobStarted, EntityJob, "j1")}, EventJobStarted, EntityJob},
		{"completed", &JobCompleted{BaseEvent: NewBaseEvent(EventJobCompleted, EntityJob, "j1")}, EventJobCompleted, EntityJob},
		{"failed", &JobFailed{BaseEvent: NewBaseEvent(EventJobFailed, EntityJob, "j1")}, EventJobFailed, EntityJob},
		{"cancelled", &JobCancelled{BaseEvent: NewBaseEvent(EventJobCancelled, EntityJob, "j1")}, EventJobCancelled, EntityJob},
		{"removed", &JobRemoved{BaseEvent: NewBaseEvent(EventJobRemoved, EntityJob, "j1")}, EventJobRemoved, EntityJob},
		{"resized", &QueueResized{BaseEvent: NewBaseEvent(EventQueueResized, EntityQueue, "queue")}, EventQueueResized, EntityQueue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.EventType())
			assert.Equal(t, tt.wantEntity, tt.event.EntityType())
		})
	}
}

func TestJobCompleted_JSON(t *testing.T) {
	e := &JobCompleted{
		BaseEvent:  NewBaseEvent(EventJobCompleted, EntityJob, "j1"),
		Title:      "Big Buck Bunny",
		OutputPath: "/videos/Big Buck Bunny_davinci.mov",
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "job.completed", m["type"])
	assert.Equal(t, "job", m["entity_type"])
	assert.Equal(t, "j1", m["entity_id"])
	assert.Equal(t, "Big Buck Bunny", m["title"])
	assert.Equal(t, "/videos/Big Buck Bunny_davinci.mov", m["output_path"])
}

func TestJobCancelled_OmitsEmptyStage(t *testing.T) {
	e := &JobCancelled{BaseEvent: NewBaseEvent(EventJobCancelled, EntityJob, "j1")}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"stage"`)
}
