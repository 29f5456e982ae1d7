package dashboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

var (
	// ErrApplyInFlight is returned when ApplySuggested is called while a
	// previous call has not finished.
	ErrApplyInFlight = errors.New("apply suggested already in progress")
	// ErrNothingSuggested is returned by ApplySuggested when the group has no
	// suggested task.
	ErrNothingSuggested = errors.New("task group has no suggested tasks")
	// ErrSuperseded is returned by a refresh whose result was discarded
	// because a newer refresh started.
	ErrSuperseded = errors.New("refresh superseded by a newer one")
	// ErrClosed is returned once the page has been closed.
	ErrClosed = errors.New("page closed")
)

// DefaultPrefetchLimit bounds concurrent detail and device fetches.
const DefaultPrefetchLimit = 4

const maxNotices = 20

// TaskGroupAPI is the part of the Fixdesk client a TaskGroupPage uses.
type TaskGroupAPI interface {
	GetTaskGroup(ctx context.Context, id string) (*fixdesk.TaskGroup, error)
	ApplySuggested(ctx context.Context, groupID string) (*fixdesk.TaskGroup, error)
	GetInstallationDetail(ctx context.Context, taskID string) (*fixdesk.InstallTaskDetail, error)
	GetWarrantyDetail(ctx context.Context, taskID string) (*fixdesk.WarrantyTaskDetail, error)
	GetRepairDetail(ctx context.Context, taskID string) (*fixdesk.RepairTaskDetail, error)
	GetDevice(ctx context.Context, id string) (*fixdesk.Device, error)
}

// Notice records a failed secondary fetch. Prior state is left untouched.
type Notice struct {
	Time    time.Time
	Message string
	Err     error
}

// State is a snapshot of a TaskGroupPage.
type State struct {
	Group *fixdesk.TaskGroup
	// Err is set when the group itself could not be loaded; NotFound
	// distinguishes a missing group from a failed call.
	Err      error
	NotFound bool

	// InstallDetails holds the installation details that could be fetched,
	// keyed by task id. Tasks whose fetch failed are absent.
	InstallDetails      map[string]*fixdesk.InstallTaskDetail
	ActiveInstallTaskID string
	// Devices maps device ids to names for the devices referenced by details.
	Devices map[string]string

	SelectedTaskID string
	Selected       Detail
}

// PageOption configures a TaskGroupPage.
type PageOption func(*TaskGroupPage)

// WithLogger sets the logger used for degraded fetches.
func WithLogger(logger *slog.Logger) PageOption {
	return func(p *TaskGroupPage) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPrefetchLimit bounds concurrent fetches during prefetch.
func WithPrefetchLimit(n int) PageOption {
	return func(p *TaskGroupPage) {
		if n > 0 {
			p.limit = n
		}
	}
}

// TaskGroupPage assembles one task group with the per-task details its tabs
// need. All fetches run inside the page's lifetime; Close cancels them.
type TaskGroupPage struct {
	api     TaskGroupAPI
	groupID string
	logger  *slog.Logger
	limit   int

	life   context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	state         State
	notices       []Notice
	seq           uint64
	cancelRefresh context.CancelFunc

	applying atomic.Bool
}

// NewTaskGroupPage creates a page for the group with the given id. Nothing
// is fetched until Refresh or LoadTaskGroup is called.
func NewTaskGroupPage(api TaskGroupAPI, groupID string, opts ...PageOption) *TaskGroupPage {
	life, cancel := context.WithCancel(context.Background())
	p := &TaskGroupPage{
		api:     api,
		groupID: groupID,
		logger:  slog.Default(),
		limit:   DefaultPrefetchLimit,
		life:    life,
		cancel:  cancel,
		state: State{
			InstallDetails: map[string]*fixdesk.InstallTaskDetail{},
			Devices:        map[string]string{},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GroupID returns the id of the group shown by the page.
func (p *TaskGroupPage) GroupID() string {
	return p.groupID
}

// State returns a snapshot of the page.
func (p *TaskGroupPage) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.InstallDetails = maps.Clone(p.state.InstallDetails)
	s.Devices = maps.Clone(p.state.Devices)
	return s
}

// Notices returns the recorded secondary fetch failures, oldest first.
func (p *TaskGroupPage) Notices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.notices)
}

// Close cancels every fetch in flight. Later calls return ErrClosed.
func (p *TaskGroupPage) Close() {
	p.cancel()
	p.mu.Lock()
	if p.cancelRefresh != nil {
		p.cancelRefresh()
		p.cancelRefresh = nil
	}
	p.mu.Unlock()
}

// begin starts a sequenced operation. The returned context ends when the
// caller's context ends, the page closes or a newer operation begins.
func (p *TaskGroupPage) begin(ctx context.Context) (context.Context, uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.life.Err() != nil {
		return nil, 0, ErrClosed
	}
	if p.cancelRefresh != nil {
		p.cancelRefresh()
	}
	opCtx, cancel := context.WithCancel(p.life)
	stop := context.AfterFunc(ctx, cancel)
	p.seq++
	p.cancelRefresh = func() {
		stop()
		cancel()
	}
	return opCtx, p.seq, nil
}

// end releases the context of operation seq if it is still the latest.
func (p *TaskGroupPage) end(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq == p.seq && p.cancelRefresh != nil {
		p.cancelRefresh()
		p.cancelRefresh = nil
	}
}

// commit applies fn to the state unless operation seq was superseded,
// the page closed or opCtx ended.
func (p *TaskGroupPage) commit(opCtx context.Context, seq uint64, fn func(*State)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case seq != p.seq:
		return ErrSuperseded
	case p.life.Err() != nil:
		return ErrClosed
	case opCtx.Err() != nil:
		return opCtx.Err()
	}
	fn(&p.state)
	return nil
}

func (p *TaskGroupPage) noticeLocked(msg string, err error) {
	p.logger.Warn(msg, "group", p.groupID, "error", err)
	p.notices = append(p.notices, Notice{Time: time.Now(), Message: msg, Err: err})
	if len(p.notices) > maxNotices {
		p.notices = p.notices[len(p.notices)-maxNotices:]
	}
}

// LoadTaskGroup fetches the group. On failure the page enters its error
// state; NotFound is set when the group does not exist.
func (p *TaskGroupPage) LoadTaskGroup(ctx context.Context) (*fixdesk.TaskGroup, error) {
	opCtx, seq, err := p.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer p.end(seq)

	group, err := p.api.GetTaskGroup(opCtx, p.groupID)
	if cerr := p.commit(opCtx, seq, func(s *State) { applyGroup(s, group, err) }); cerr != nil {
		return nil, cerr
	}
	return group, err
}

func applyGroup(s *State, group *fixdesk.TaskGroup, err error) {
	if err != nil {
		s.Group = nil
		s.Err = err
		s.NotFound = fixdesk.IsNotFound(err)
		return
	}
	s.Group = group
	s.Err = nil
	s.NotFound = false
}

type prefetchResult struct {
	details map[string]*fixdesk.InstallTaskDetail
	active  string
	devices map[string]string
}

// PrefetchInstallationDetails fetches the detail of every installation task
// concurrently. Failed fetches are left out of the result. The first
// installation task with a detail becomes the active one, and the devices
// those details reference are resolved into the device cache.
func (p *TaskGroupPage) PrefetchInstallationDetails(ctx context.Context, tasks []*fixdesk.Task) (map[string]*fixdesk.InstallTaskDetail, error) {
	opCtx, seq, err := p.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer p.end(seq)

	res := p.prefetch(opCtx, tasks)
	if err := p.commit(opCtx, seq, func(s *State) { applyPrefetch(s, res) }); err != nil {
		return nil, err
	}
	return maps.Clone(res.details), nil
}

func (p *TaskGroupPage) prefetch(ctx context.Context, tasks []*fixdesk.Task) prefetchResult {
	res := prefetchResult{
		details: map[string]*fixdesk.InstallTaskDetail{},
		devices: map[string]string{},
	}
	installs := installationTasks(tasks)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(p.limit)
	for _, task := range installs {
		g.Go(func() error {
			d, err := p.api.GetInstallationDetail(ctx, task.ID)
			if err != nil {
				p.logger.Debug("installation detail unavailable", "task", task.ID, "error", err)
				return nil
			}
			mu.Lock()
			res.details[task.ID] = d
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, task := range installs {
		if _, ok := res.details[task.ID]; ok {
			res.active = task.ID
			break
		}
	}

	p.mu.Lock()
	known := maps.Clone(p.state.Devices)
	p.mu.Unlock()

	var ids []string
	for _, task := range installs {
		d, ok := res.details[task.ID]
		if !ok {
			continue
		}
		for _, id := range (Detail{Kind: fixdesk.DetailInstallation, Installation: d}).DeviceIDs() {
			if _, cached := known[id]; !cached && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	for _, id := range ids {
		g.Go(func() error {
			device, err := p.api.GetDevice(ctx, id)
			if err != nil {
				p.logger.Debug("device lookup failed", "device", id, "error", err)
				return nil
			}
			mu.Lock()
			res.devices[id] = device.Name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return res
}

func applyPrefetch(s *State, res prefetchResult) {
	s.InstallDetails = res.details
	if _, ok := res.details[s.ActiveInstallTaskID]; !ok {
		s.ActiveInstallTaskID = res.active
	}
	if s.Devices == nil {
		s.Devices = map[string]string{}
	}
	maps.Copy(s.Devices, res.devices)
}

// FetchTaskDetail loads the type-specific detail of task. Installation
// details already prefetched are served without a call. Task types without
// a detail resolve to a zero Detail.
func (p *TaskGroupPage) FetchTaskDetail(ctx context.Context, task *fixdesk.Task) (Detail, error) {
	p.mu.Lock()
	prefetched := p.state.InstallDetails
	p.mu.Unlock()

	d, err := fetchDetail(ctx, p.api, task, prefetched)
	if err == nil && d.Kind == fixdesk.DetailNone {
		p.logger.Info("task type has no detail", "task", task.ID, "type", task.Type)
	}
	return d, err
}

// SelectTask opens the side panel for a task and loads its detail. When the
// fetch fails a notice is recorded and the previous detail stays. A Refresh
// started during the fetch supersedes it, since that refresh reloads the
// selected detail itself.
func (p *TaskGroupPage) SelectTask(ctx context.Context, taskID string) error {
	p.mu.Lock()
	if p.life.Err() != nil {
		p.mu.Unlock()
		return ErrClosed
	}
	var task *fixdesk.Task
	if p.state.Group != nil {
		task = findTask(p.state.Group.Tasks, taskID)
	}
	if task == nil {
		p.mu.Unlock()
		return fmt.Errorf("task %s is not part of group %s", taskID, p.groupID)
	}
	p.state.SelectedTaskID = taskID
	seq := p.seq
	p.mu.Unlock()

	fetchCtx, cancel := p.scoped(ctx)
	defer cancel()
	d, err := p.FetchTaskDetail(fetchCtx, task)

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.life.Err() != nil:
		return ErrClosed
	case p.state.SelectedTaskID != taskID:
		return nil
	case p.seq != seq:
		return ErrSuperseded
	case err != nil:
		p.noticeLocked("failed to load task detail", err)
		return err
	}
	p.state.Selected = d
	return nil
}

// scoped returns a context that ends with ctx or when the page closes. It
// does not take part in refresh sequencing.
func (p *TaskGroupPage) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(p.life)
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// SelectInstallTask switches the device tab to another installation task.
func (p *TaskGroupPage) SelectInstallTask(taskID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.state.InstallDetails[taskID]; !ok {
		return false
	}
	p.state.ActiveInstallTaskID = taskID
	return true
}

// Refresh reloads the group, prefetches installation details and refetches
// the detail of the selected task. A newer Refresh cancels an older one, and
// a superseded refresh returns ErrSuperseded without touching the state.
func (p *TaskGroupPage) Refresh(ctx context.Context) error {
	opCtx, seq, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer p.end(seq)

	group, err := p.api.GetTaskGroup(opCtx, p.groupID)
	if err != nil {
		if cerr := p.commit(opCtx, seq, func(s *State) { applyGroup(s, nil, err) }); cerr != nil {
			return cerr
		}
		return err
	}

	res := p.prefetch(opCtx, group.Tasks)

	p.mu.Lock()
	selectedID := p.state.SelectedTaskID
	p.mu.Unlock()

	var (
		selected  Detail
		detailErr error
		task      = findTask(group.Tasks, selectedID)
	)
	if task != nil {
		selected, detailErr = fetchDetail(opCtx, p.api, task, res.details)
	}

	return p.commit(opCtx, seq, func(s *State) {
		applyGroup(s, group, nil)
		applyPrefetch(s, res)
		switch {
		case selectedID == "":
		case task == nil:
			s.SelectedTaskID = ""
			s.Selected = Detail{}
		case detailErr != nil:
			p.noticeLocked("failed to refresh task detail", detailErr)
		default:
			s.Selected = selected
		}
	})
}

// SortedTasks returns the group's tasks ordered by order index. Tasks with
// equal index keep their server order.
func (p *TaskGroupPage) SortedTasks() []*fixdesk.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Group == nil {
		return nil
	}
	return SortTasks(p.state.Group.Tasks)
}

// SuggestedTasks returns the tasks still awaiting confirmation.
func (p *TaskGroupPage) SuggestedTasks() []*fixdesk.Task {
	var out []*fixdesk.Task
	for _, t := range p.SortedTasks() {
		if t.Status == fixdesk.StatusSuggested {
			out = append(out, t)
		}
	}
	return out
}

// InstallationTasks returns the installation tasks in display order.
func (p *TaskGroupPage) InstallationTasks() []*fixdesk.Task {
	return installationTasks(p.SortedTasks())
}

// CanApplySuggested reports whether the apply action should be enabled.
func (p *TaskGroupPage) CanApplySuggested() bool {
	return !p.applying.Load() && len(p.SuggestedTasks()) > 0
}

// ApplySuggested confirms every suggested task with one call and refreshes
// the page on success. Closing the page cancels the call.
func (p *TaskGroupPage) ApplySuggested(ctx context.Context) error {
	if !p.applying.CompareAndSwap(false, true) {
		return ErrApplyInFlight
	}
	defer p.applying.Store(false)

	if p.life.Err() != nil {
		return ErrClosed
	}
	if len(p.SuggestedTasks()) == 0 {
		return ErrNothingSuggested
	}

	applyCtx, cancel := p.scoped(ctx)
	_, err := p.api.ApplySuggested(applyCtx, p.groupID)
	cancel()
	if err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.life.Err() != nil {
			return ErrClosed
		}
		p.noticeLocked("failed to apply suggested tasks", err)
		return err
	}
	return p.Refresh(ctx)
}

// SortTasks returns a copy of tasks stably sorted by ascending order index.
func SortTasks(tasks []*fixdesk.Task) []*fixdesk.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b *fixdesk.Task) int {
		return cmp.Compare(a.OrderIndex, b.OrderIndex)
	})
	return out
}

func installationTasks(tasks []*fixdesk.Task) []*fixdesk.Task {
	var out []*fixdesk.Task
	for _, t := range SortTasks(tasks) {
		if t.Type.DetailKind() == fixdesk.DetailInstallation {
			out = append(out, t)
		}
	}
	return out
}

func findTask(tasks []*fixdesk.Task, id string) *fixdesk.Task {
	if id == "" {
		return nil
	}
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
