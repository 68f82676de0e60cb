// Package state holds the in-memory task list and new-task form, and binds
// them to the four backend operations.
//
// The list is a cache of the last known server state. Every operation
// catches its own failure, hands it to the failure handler and leaves state
// untouched; callers learn about failure only through the handler or the
// returned Outcome.
package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"gtodo/internal/service"
)

// Operation names passed to the failure handler.
const (
	OpLoad     = "load"
	OpCreate   = "create"
	OpComplete = "complete"
	OpDelete   = "delete"
)

// ErrTitleRequired is reported when Create is called with an empty title.
var ErrTitleRequired = errors.New("title required")

// Outcome is the result of one operation.
type Outcome int

const (
	// Applied means the backend call succeeded and state was updated.
	Applied Outcome = iota
	// Skipped means the operation was a deliberate no-op and nothing was sent.
	Skipped
	// Failed means the failure handler was called and state is unchanged.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form holds the new-task form fields as typed by the user.
type Form struct {
	Title   string
	DueDate string
}

// Snapshot is an immutable copy of the store's state.
type Snapshot struct {
	Tasks []service.Task
	Form  Form
}

// FailureFunc receives every operation failure exactly once.
type FailureFunc func(op string, err error)

// Store is the view-layer state: the task list and the form.
// It is safe for concurrent use; backend calls run without holding the lock.
// Subscribers see every change in the order it was applied, one at a time,
// and must not mutate the store from inside the callback.
type Store struct {
	svc       service.Service
	onFailure FailureFunc

	// notifyMu is held from applying a change until every subscriber has
	// seen it, so snapshots are delivered in order and never concurrently.
	notifyMu sync.Mutex

	mu      sync.Mutex
	tasks   []service.Task
	form    Form
	mounted bool
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithFailureHandler replaces the default handler, which logs at error level.
func WithFailureHandler(fn FailureFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.onFailure = fn
		}
	}
}

// WithLogger sets the logger used by the default failure handler.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.onFailure = logFailure(logger)
		}
	}
}

// New creates an empty store backed by svc.
func New(svc service.Service, opts ...Option) *Store {
	s := &Store{
		svc:       svc,
		onFailure: logFailure(slog.Default()),
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func logFailure(logger *slog.Logger) FailureFunc {
	return func(op string, err error) {
		logger.Error("todo operation failed", "op", op, "error", err)
	}
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Tasks returns a copy of the task list.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyTasks()
}

// Form returns the current form fields.
func (s *Store) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Tasks: s.copyTasks(), Form: s.form}
}

// Find returns the task with the given ID.
func (s *Store) Find(id service.ID) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.tasks[i], true
}

// SetTitle sets the form title.
func (s *Store) SetTitle(title string) {
	s.update(func() { s.form.Title = title })
}

// SetDueDate sets the form due-date text.
func (s *Store) SetDueDate(due string) {
	s.update(func() { s.form.DueDate = due })
}

// Load fetches the full list and replaces local state with it.
// Only the first call does anything; later calls are Skipped.
func (s *Store) Load(ctx context.Context) Outcome {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return Skipped
	}
	s.mounted = true
	s.mu.Unlock()

	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.onFailure(OpLoad, err)
		return Failed
	}

	s.update(func() {
		s.tasks = make([]service.Task, len(tasks))
		copy(s.tasks, tasks)
	})
	return Applied
}

// Create submits the form as a new task. On success the server's task is
// appended and the form is cleared.
func (s *Store) Create(ctx context.Context) Outcome {
	form := s.Form()

	if strings.TrimSpace(form.Title) == "" {
		s.onFailure(OpCreate, ErrTitleRequired)
		return Failed
	}
	due, err := service.ParseDateTime(form.DueDate)
	if err != nil {
		s.onFailure(OpCreate, err)
		return Failed
	}

	created, err := s.svc.CreateTask(ctx, service.NewTask{
		Title:     form.Title,
		Completed: false,
		DueDate:   due,
	})
	if err != nil {
		s.onFailure(OpCreate, err)
		return Failed
	}

	s.update(func() {
		s.tasks = append(s.tasks, created)
		s.form = Form{}
	})
	return Applied
}

// Complete marks a task completed. Unknown and already-completed tasks
// are Skipped without a request.
func (s *Store) Complete(ctx context.Context, id service.ID) Outcome {
	task, ok := s.Find(id)
	if !ok || task.Completed {
		return Skipped
	}

	task.Completed = true
	updated, err := s.svc.UpdateTask(ctx, task)
	if err != nil {
		s.onFailure(OpComplete, err)
		return Failed
	}

	s.update(func() {
		if i := s.indexOf(id); i >= 0 {
			s.tasks[i] = updated
		}
	})
	return Applied
}

// Delete removes a task on the server and then locally.
// The local entry is removed by ID whether or not the server said which
// entity it removed.
func (s *Store) Delete(ctx context.Context, id service.ID) Outcome {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.onFailure(OpDelete, err)
		return Failed
	}

	s.update(func() {
		if i := s.indexOf(id); i >= 0 {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		}
	})
	return Applied
}

// update applies fn under the lock, then notifies subscribers outside it.
// Readers are not blocked while subscribers run; other updates are.
func (s *Store) update(fn func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn()
	snap := Snapshot{Tasks: s.copyTasks(), Form: s.form}
	subs := make([]func(Snapshot), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if sub, ok := s.subs[i]; ok {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func (s *Store) indexOf(id service.ID) int {
	for i, t := range s.tasks {
		if t.ID.Equal(id) {
			return i
		}
	}
	return -1
}

func (s *Store) copyTasks() []service.Task {
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
