package courses

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/internal/result"
)

// Editor owns the draft of one authoring session. Edits are applied under a lock, only one save
// or status change runs at a time, and once closed the editor ignores results that arrive late.
type Editor struct {
	reconciler *Reconciler

	draft     Draft
	busy      bool
	closed    bool
	observers map[int]func(Draft)
	nextObs   int
	lock      sync.Mutex
}

func NewEditor(r *Reconciler, d Draft) (*Editor, error) {
	if r == nil {
		return nil, errors.New("[courses.NewEditor] reconciler is required")
	}
	return &Editor{
		reconciler: r,
		draft:      d,
		observers:  make(map[int]func(Draft)),
	}, nil
}

// Draft returns the current draft.
func (e *Editor) Draft() Draft {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.draft
}

// Busy reports whether a save or status change is in flight.
func (e *Editor) Busy() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.busy
}

// OnChange registers fn to receive the draft after every change. The returned function
// unregisters it.
func (e *Editor) OnChange(fn func(Draft)) (unregister func()) {
	e.lock.Lock()
	defer e.lock.Unlock()

	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	return func() {
		e.lock.Lock()
		defer e.lock.Unlock()
		delete(e.observers, id)
	}
}

// Close disposes the editor. A save still in flight completes on the backend but its result is
// not applied.
func (e *Editor) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.closed = true
	e.observers = make(map[int]func(Draft))
}

func (e *Editor) AddModule() (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.AddModule() })
}

func (e *Editor) AddLesson(moduleID ID) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.AddLesson(moduleID) })
}

func (e *Editor) UpdateCourse(patch CoursePatch) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.UpdateCourse(patch) })
}

func (e *Editor) UpdateModule(moduleID ID, patch ModulePatch) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.UpdateModule(moduleID, patch) })
}

func (e *Editor) UpdateLesson(moduleID, lessonID ID, patch LessonPatch) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.UpdateLesson(moduleID, lessonID, patch) })
}

func (e *Editor) DeleteModule(moduleID ID) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.DeleteModule(moduleID) })
}

func (e *Editor) DeleteLesson(moduleID, lessonID ID) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.DeleteLesson(moduleID, lessonID) })
}

func (e *Editor) MoveModule(moduleID ID, to int) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.MoveModule(moduleID, to) })
}

func (e *Editor) MoveLesson(moduleID, lessonID ID, to int) (Draft, error) {
	return e.apply(func(d Draft) Draft { return d.MoveLesson(moduleID, lessonID, to) })
}

// Save commits the draft. It fails with ErrBusy while another save or status change is running.
func (e *Editor) Save(ctx context.Context) (SaveReport, error) {
	snapshot, err := e.begin()
	if err != nil {
		return SaveReport{}, err
	}

	saved, report := e.reconciler.Save(ctx, snapshot)
	e.finish(func() Draft { return saved })
	return report, report.Err()
}

// Publish publishes the course of the draft.
func (e *Editor) Publish(ctx context.Context) error {
	return e.changeStatus(ctx, e.reconciler.Publish)
}

// Unpublish moves the course of the draft back to draft status.
func (e *Editor) Unpublish(ctx context.Context) error {
	return e.changeStatus(ctx, e.reconciler.Unpublish)
}

func (e *Editor) changeStatus(ctx context.Context, call func(context.Context, Course) result.Result[Course]) error {
	snapshot, err := e.begin()
	if err != nil {
		return err
	}

	res := call(ctx, snapshot.Course)
	if !res.Success() {
		e.finish(nil)
		return res.Err
	}
	e.finish(func() Draft {
		next := e.draft.clone()
		next.Course.Status = res.Data.Status
		return next
	})
	return nil
}

func (e *Editor) apply(fn func(Draft) Draft) (Draft, error) {
	e.lock.Lock()
	if e.closed {
		e.lock.Unlock()
		return Draft{}, apperrors.ErrEditorClosed
	}
	if e.busy {
		d := e.draft
		e.lock.Unlock()
		return d, apperrors.ErrBusy
	}
	e.draft = fn(e.draft)
	d := e.draft
	observers := e.observerList()
	e.lock.Unlock()

	notify(observers, d)
	return d, nil
}

func (e *Editor) begin() (Draft, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.closed {
		return Draft{}, apperrors.ErrEditorClosed
	}
	if e.busy {
		return Draft{}, apperrors.ErrBusy
	}
	e.busy = true
	return e.draft, nil
}

// finish clears the busy flag and, unless the editor was closed meanwhile, installs the draft
// returned by next. next runs under the lock.
func (e *Editor) finish(next func() Draft) {
	e.lock.Lock()
	e.busy = false
	if e.closed || next == nil {
		e.lock.Unlock()
		return
	}
	e.draft = next()
	d := e.draft
	observers := e.observerList()
	e.lock.Unlock()

	notify(observers, d)
}

func (e *Editor) observerList() []func(Draft) {
	out := make([]func(Draft), 0, len(e.observers))
	for _, fn := range e.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []func(Draft), d Draft) {
	for _, fn := range observers {
		fn(d)
	}
}
