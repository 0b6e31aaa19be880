package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
	"github.com/vmunix/carbon/internal/tui"
)

const testJobID = "01928a6e-7c3b-7000-8000-00000000abcd"

func TestClientStatus_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		RespondJSON(StatusResponse{
			Status:        "ok",
			Version:       "1.0.0",
			Jobs:          map[string]int{"queued": 2},
			Total:         2,
			MaxConcurrent: 3,
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	status, err := client.Status()
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, 2, status.Jobs["queued"])
	assert.Equal(t, 3, status.MaxConcurrent)
}

func TestClientStatus_PlainTextError(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusInternalServerError, "internal server error").
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal server error")
}

func TestClientStatus_ConnectionError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_APIErrorDecoded(t *testing.T) {
	srv := newMockServer(t).
		RespondAPIError(http.StatusNotFound, "NOT_FOUND", "job not found").
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Job(testJobID)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "job not found", apiErr.Message)
	assert.Equal(t, "server error 404 (NOT_FOUND): job not found", err.Error())
}

func TestClientJobs_StatusFilter(t *testing.T) {
	var query string
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			respondJSON(t, w, http.StatusOK, JobsResponse{
				Items: []job.Job{{ID: testJobID, URL: "https://example.com/v", Status: job.StatusFailed}},
				Total: 1,
			})
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Jobs("failed")
	require.NoError(t, err)
	assert.Equal(t, "status=failed", query)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, job.StatusFailed, resp.Items[0].Status)
}

func TestClientAddJob(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://example.com/v", body["url"])
			assert.Equal(t, "720p", body["quality"])
			respondJSON(t, w, http.StatusCreated, job.Job{ID: testJobID, URL: body["url"], Quality: body["quality"], Status: job.StatusQueued})
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	j, err := client.AddJob("https://example.com/v", "720p")
	require.NoError(t, err)
	assert.Equal(t, testJobID, j.ID)
	assert.Equal(t, job.StatusQueued, j.Status)
}

func TestClientAddJob_OmitsEmptyQuality(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, ok := body["quality"]
			assert.False(t, ok)
			respondJSON(t, w, http.StatusCreated, job.Job{ID: testJobID})
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).AddJob("https://example.com/v", "")
	require.NoError(t, err)
}

func TestClientSubmit(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs").
		ExpectPOST().
		RespondJSONStatus(http.StatusCreated, job.Job{ID: testJobID, Status: job.StatusQueued}).
		Build()
	defer srv.Close()

	var ctrl tui.Controller = NewClient(srv.URL)
	id, err := ctrl.Submit(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, testJobID, id)
}

func TestClientSubmit_Rejected(t *testing.T) {
	srv := newMockServer(t).
		RespondAPIError(http.StatusBadRequest, "INVALID_URL", "url must be http or https").
		Build()
	defer srv.Close()

	id, err := NewClient(srv.URL).Submit(context.Background(), "ftp://example.com")
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "url must be http or https")
}

func TestClientCancelJob(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		settled bool
	}{
		{"settled", http.StatusOK, true},
		{"still stopping", http.StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMockServer(t).
				ExpectPath("/api/v1/jobs/" + testJobID + "/cancel").
				ExpectPOST().
				RespondJSONStatus(tt.code, job.Job{ID: testJobID, Status: job.StatusDownloading}).
				Build()
			defer srv.Close()

			j, settled, err := NewClient(srv.URL).CancelJob(context.Background(), testJobID)
			require.NoError(t, err)
			assert.Equal(t, tt.settled, settled)
			assert.Equal(t, testJobID, j.ID)
		})
	}
}

func TestClientDelete(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs/" + testJobID).
		ExpectDELETE().
		RespondStatus(http.StatusNoContent).
		Build()
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Delete(context.Background(), testJobID))
}

func TestClientDelete_Active(t *testing.T) {
	srv := newMockServer(t).
		RespondAPIError(http.StatusConflict, "JOB_ACTIVE", "job is still active").
		Build()
	defer srv.Close()

	err := NewClient(srv.URL).Delete(context.Background(), testJobID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "JOB_ACTIVE", apiErr.Code)
}

func TestClientClearJobs(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs/clear").
		ExpectPOST().
		RespondJSON(map[string]int{"removed": 4}).
		Build()
	defer srv.Close()

	n, err := NewClient(srv.URL).ClearCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestClientSetConcurrency(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/queue/concurrency").
		ExpectPUT().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 5, body["max_concurrent"])
			respondJSON(t, w, http.StatusOK, ConcurrencyResponse{MaxConcurrent: 5, Active: 1})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).SetConcurrency(5)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.MaxConcurrent)
	assert.Equal(t, 1, resp.Active)
}

func TestClientEvents_Pagination(t *testing.T) {
	var query string
	srv := newMockServer(t).
		ExpectPath("/api/v1/events").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			respondJSON(t, w, http.StatusOK, ListEventsResponse{Total: 0, Limit: 10, Offset: 20})
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).Events(10, 20, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "limit=10&offset=20", query)
}

func TestClientEvents_Since(t *testing.T) {
	var since string
	srv := newMockServer(t).
		ExpectPath("/api/v1/events").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			since = r.URL.Query().Get("since")
			respondJSON(t, w, http.StatusOK, ListEventsResponse{})
		}).
		Build()
	defer srv.Close()

	at := time.Date(2026, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))
	_, err := NewClient(srv.URL).Events(20, 0, at)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T12:00:00Z", since)
}

func TestClientJobEvents(t *testing.T) {
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs/" + testJobID + "/events").
		RespondJSON(ListEventsResponse{
			Items: []EventResponse{{ID: 7, EventType: "job.completed", EntityType: "job", EntityID: testJobID, OccurredAt: occurred}},
			Total: 1,
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).JobEvents(testJobID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "job.completed", resp.Items[0].EventType)
	assert.True(t, occurred.Equal(resp.Items[0].OccurredAt))
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{"http://localhost:8686", "ws://localhost:8686/api/v1/ws", false},
		{"https://media.example.com/carbon/", "wss://media.example.com/carbon/api/v1/ws", false},
		{"ws://127.0.0.1:9000", "ws://127.0.0.1:9000/api/v1/ws", false},
		{"ftp://example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := streamURL(tt.base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// wsServer upgrades /api/v1/ws and hands the connection to serve.
func wsServer(t *testing.T, serve func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return newMockServer(t).
		ExpectPath("/api/v1/ws").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				t.Errorf("upgrade: %v", err)
				return
			}
			defer func() { _ = conn.Close() }()
			serve(conn)
		}).
		Build()
}

func TestClientStream_ReceivesSnapshots(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(queue.Snapshot{Version: 1, MaxConcurrent: 2,
			Jobs: []job.Job{{ID: testJobID, Status: job.StatusDownloading}}})
		// Hold the connection open until the client goes away.
		_, _, _ = conn.ReadMessage()
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps, err := NewClient(srv.URL).Stream(ctx)
	require.NoError(t, err)

	select {
	case snap := <-snaps:
		assert.Equal(t, uint64(1), snap.Version)
		require.Len(t, snap.Jobs, 1)
		assert.Equal(t, job.StatusDownloading, snap.Jobs[0].Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-snaps:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "channel closes after ctx is cancelled")
}

func TestClientStream_ClosedByServer(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
	})
	defer srv.Close()

	snaps, err := NewClient(srv.URL).Stream(context.Background())
	require.NoError(t, err)

	select {
	case _, ok := <-snaps:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close")
	}
}

func TestClientStream_DialError(t *testing.T) {
	srv := newMockServer(t).RespondStatus(http.StatusNotFound).Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).Stream(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect stream")
}
