package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

type countingView struct {
	id string
	mu sync.Mutex
	n  int
}

func (v *countingView) GroupID() string { return v.id }

func (v *countingView) Refresh(context.Context) error {
	v.mu.Lock()
	v.n++
	v.mu.Unlock()
	return nil
}

func (v *countingView) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.n
}

func TestLiveRefresher_Handle(t *testing.T) {
	tests := []struct {
		name        string
		opts        []LiveOption
		event       fixdesk.Event
		wantRefresh int
	}{
		{
			name:        "matching group",
			event:       fixdesk.Event{Type: fixdesk.EventTaskGroupUpdated, TaskGroupID: "g1"},
			wantRefresh: 1,
		},
		{
			name:        "other group",
			event:       fixdesk.Event{Type: fixdesk.EventTaskGroupUpdated, TaskGroupID: "g2"},
			wantRefresh: 0,
		},
		{
			name:        "notification",
			event:       fixdesk.Event{Type: fixdesk.EventNotificationReceived, Message: "hi"},
			wantRefresh: 1,
		},
		{
			name:        "notification disabled",
			opts:        []LiveOption{WithNotificationRefresh(false)},
			event:       fixdesk.Event{Type: fixdesk.EventNotificationReceived, Message: "hi"},
			wantRefresh: 0,
		},
		{
			name:        "inventory",
			event:       fixdesk.Event{Type: fixdesk.EventInventoryUpdated},
			wantRefresh: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := &countingView{id: "g1"}
			l := NewLiveRefresher(view, tt.opts...)
			got := l.Handle(context.Background(), tt.event)
			assert.Equal(t, tt.wantRefresh == 1, got)
			assert.Equal(t, tt.wantRefresh, view.count())
		})
	}
}

func TestLiveRefresher_RunRefreshesOncePerEvent(t *testing.T) {
	view := &countingView{id: "g1"}
	l := NewLiveRefresher(view)

	events := make(chan fixdesk.Event, 4)
	events <- fixdesk.Event{Type: fixdesk.EventTaskGroupUpdated, TaskGroupID: "g1"}
	events <- fixdesk.Event{Type: fixdesk.EventTaskGroupUpdated, TaskGroupID: "g2"}
	events <- fixdesk.Event{Type: fixdesk.EventTaskGroupUpdated, TaskGroupID: "g1"}
	close(events)

	require.NoError(t, l.Run(context.Background(), events))
	assert.Equal(t, 2, view.count())
}

func TestLiveRefresher_RunStopsWithContext(t *testing.T) {
	l := NewLiveRefresher(&countingView{id: "g1"})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, make(chan fixdesk.Event)) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLiveRefresher_DrivesPage(t *testing.T) {
	api := newFakeAPI(replacementGroup())
	page := NewTaskGroupPage(api, "g1")
	defer page.Close()
	l := NewLiveRefresher(page)

	assert.True(t, l.Handle(context.Background(), fixdesk.Event{Type: fixdesk.EventTaskGroupUpdated, TaskGroupID: "g1"}))
	assert.Equal(t, 1, api.count("GetTaskGroup"))
	assert.NotNil(t, page.State().Group)
}
