package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

// Refresher is a view that can reload itself for a task group.
type Refresher interface {
	GroupID() string
	Refresh(ctx context.Context) error
}

// LiveOption configures a LiveRefresher.
type LiveOption func(*LiveRefresher)

// WithNotificationRefresh sets whether NotificationReceived events refresh
// the view. The default is true.
func WithNotificationRefresh(enabled bool) LiveOption {
	return func(l *LiveRefresher) {
		l.onNotification = enabled
	}
}

// WithLiveLogger sets the logger for failed refreshes.
func WithLiveLogger(logger *slog.Logger) LiveOption {
	return func(l *LiveRefresher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// LiveRefresher refreshes a view in response to live events.
type LiveRefresher struct {
	view           Refresher
	onNotification bool
	logger         *slog.Logger
}

// NewLiveRefresher creates a refresher for view.
func NewLiveRefresher(view Refresher, opts ...LiveOption) *LiveRefresher {
	l := &LiveRefresher{view: view, onNotification: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Relevant reports whether evt should refresh the view.
func (l *LiveRefresher) Relevant(evt fixdesk.Event) bool {
	switch evt.Type {
	case fixdesk.EventTaskGroupUpdated:
		return evt.TaskGroupID == l.view.GroupID()
	case fixdesk.EventNotificationReceived:
		return l.onNotification
	default:
		return false
	}
}

// Handle refreshes the view once if evt is relevant. It reports whether a
// refresh was started.
func (l *LiveRefresher) Handle(ctx context.Context, evt fixdesk.Event) bool {
	if !l.Relevant(evt) {
		return false
	}
	if err := l.view.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, context.Canceled) {
		l.logger.Warn("live refresh failed", "group", l.view.GroupID(), "event", evt.Type, "error", err)
	}
	return true
}

// Run handles events until the channel closes or ctx ends. Each relevant
// event starts its own refresh so a newer one can supersede an older one.
func (l *LiveRefresher) Run(ctx context.Context, events <-chan fixdesk.Event) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if !l.Relevant(evt) {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Handle(ctx, evt)
			}()
		}
	}
}
