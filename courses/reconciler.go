package courses

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/internal/result"
	"github.com/jrsteele09/go-course-client/internal/validation"
)

// Outcome summarizes a save.
type Outcome string

const (
	OutcomeSuccess Outcome = "success" // everything was saved
	OutcomePartial Outcome = "partial" // some entities were saved, Errors lists the rest
	OutcomeFailed  Outcome = "failed"  // nothing was saved, the draft stays dirty
)

// SaveReport is the result of one Reconciler.Save.
type SaveReport struct {
	SavedModules int
	SavedLessons int
	Errors       []string
	Outcome      Outcome
}

// Err returns nil when the save had no errors, otherwise a partial failure error listing them.
func (r SaveReport) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return apperrors.New(apperrors.KindPartial, fmt.Sprintf("Saved with %d errors: %s", len(r.Errors), strings.Join(r.Errors, "; ")), nil)
}

// Reconciler commits drafts to the backend one entity at a time and resynchronizes them from
// the backend afterwards.
type Reconciler struct {
	api API
	log zerolog.Logger
}

// ReconcilerOption defines a function type to modify the Reconciler instance.
type ReconcilerOption func(*Reconciler)

func WithLogger(l zerolog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.log = l
	}
}

func NewReconciler(api API, options ...ReconcilerOption) (*Reconciler, error) {
	if api == nil {
		return nil, errors.New("[courses.NewReconciler] api is required")
	}
	r := &Reconciler{api: api, log: log.Logger}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// pending tracks the entities whose local state did not reach the backend during a save.
type pending struct {
	modules map[ID]bool
	lessons map[ID]bool
}

// Save creates the course if needed, applies deletions, then creates or updates every module
// followed by its lessons, in order. Finally the module tree is reloaded from the backend and
// anything that failed to save is carried over onto it so no edit is lost.
func (r *Reconciler) Save(ctx context.Context, d Draft) (Draft, SaveReport) {
	res := result.Run(func() (saveResult, error) {
		return r.save(ctx, d), nil
	})
	if !res.Success() {
		r.log.Error().Str("error", res.Error()).Msg("course save aborted")
		return d, SaveReport{Errors: []string{"Failed to save course: " + res.Error()}, Outcome: OutcomeFailed}
	}
	return res.Data.draft, res.Data.report
}

type saveResult struct {
	draft  Draft
	report SaveReport
}

func (r *Reconciler) save(ctx context.Context, d Draft) saveResult {
	work := d.clone()
	report := SaveReport{}
	logger := r.log.With().Str("course", work.Course.ID.String()).Logger()

	courseID, ok := work.Course.ID.Int64()
	if !ok {
		created, err := r.createCourse(ctx, work.Course)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Outcome = OutcomeFailed
			return saveResult{draft: d, report: report}
		}
		work.Course.ID = created.ID
		work.Course.Status = created.Status
		courseID, _ = created.ID.Int64()
		logger = r.log.With().Int64("course", courseID).Logger()
	}

	report.Errors = append(report.Errors, r.applyDeletions(ctx, &work)...)

	left := pending{modules: make(map[ID]bool), lessons: make(map[ID]bool)}
	for i := range work.Modules {
		m := &work.Modules[i]
		if err := r.saveModule(ctx, courseID, m); err != nil {
			report.Errors = append(report.Errors, err.Error())
			left.modules[m.ID] = true
			if m.unsaved() {
				// lessons cannot be attached to a module the backend does not have
				for _, l := range m.Lessons {
					left.lessons[l.ID] = true
				}
				continue
			}
		} else {
			report.SavedModules++
		}

		moduleID, _ := m.ID.Int64()
		for j := range m.Lessons {
			l := &m.Lessons[j]
			if err := r.saveLesson(ctx, moduleID, l); err != nil {
				report.Errors = append(report.Errors, err.Error())
				left.lessons[l.ID] = true
				continue
			}
			report.SavedLessons++
		}
	}

	reloaded := r.api.ListModules(ctx, courseID)
	if reloaded.Success() {
		work.Modules = carryOver(work.Modules, reloaded.Data, left)
		work.renumber()
	} else {
		logger.Warn().Str("error", reloaded.Error()).Msg("failed to reload modules after save")
		report.Errors = append(report.Errors, "Failed to reload course: "+reloaded.Error())
	}

	switch {
	case len(report.Errors) == 0:
		report.Outcome = OutcomeSuccess
		work.dirty = false
	case report.SavedModules > 0 || report.SavedLessons > 0:
		report.Outcome = OutcomePartial
		work.dirty = false
	default:
		report.Outcome = OutcomeFailed
		work.dirty = true
	}

	logger.Info().
		Int("modules", report.SavedModules).
		Int("lessons", report.SavedLessons).
		Int("errors", len(report.Errors)).
		Str("outcome", string(report.Outcome)).
		Msg("course saved")
	return saveResult{draft: work, report: report}
}

func (r *Reconciler) createCourse(ctx context.Context, c Course) (Course, error) {
	if err := validation.Struct(courseRequest{Title: c.Title}); err != nil {
		return Course{}, apperrors.Validation("Course must have a title", apperrors.ErrMissingTitle)
	}
	res := r.api.CreateCourse(ctx, c)
	if !res.Success() {
		return Course{}, apperrors.New(res.Kind(), "Failed to save course: "+res.Error(), res.Err)
	}
	return res.Data, nil
}

// applyDeletions deletes removed lessons, then removed modules. Failed deletions stay queued.
func (r *Reconciler) applyDeletions(ctx context.Context, d *Draft) []string {
	var errs []string

	var keepLessons []int64
	for _, id := range d.removedLessons {
		if res := r.api.DeleteLesson(ctx, id); !res.Success() {
			errs = append(errs, "Failed to delete lesson: "+res.Error())
			keepLessons = append(keepLessons, id)
		}
	}
	var keepModules []int64
	for _, id := range d.removedModules {
		if res := r.api.DeleteModule(ctx, id); !res.Success() {
			errs = append(errs, "Failed to delete module: "+res.Error())
			keepModules = append(keepModules, id)
		}
	}

	d.removedLessons = keepLessons
	d.removedModules = keepModules
	return errs
}

func (r *Reconciler) saveModule(ctx context.Context, courseID int64, m *Module) error {
	if m.unsaved() {
		req := ModuleRequest{Course: courseID, Title: strings.TrimSpace(m.Title), Description: m.Description, Order: m.Order}
		if err := validation.Struct(req); err != nil {
			return apperrors.Validation("Module must have a title", apperrors.ErrMissingTitle)
		}
		res := r.api.CreateModule(ctx, req)
		if !res.Success() {
			return apperrors.New(res.Kind(), "Failed to save module: "+res.Error(), res.Err)
		}
		m.ID = PersistedID(res.Data)
		m.IsNew = false
		return nil
	}

	id, _ := m.ID.Int64()
	res := r.api.UpdateModule(ctx, id, ModuleRequest{Title: m.Title, Description: m.Description, Order: m.Order})
	if !res.Success() {
		return apperrors.New(res.Kind(), "Failed to update module: "+res.Error(), res.Err)
	}
	return nil
}

func (r *Reconciler) saveLesson(ctx context.Context, moduleID int64, l *Lesson) error {
	contentType := l.ContentType
	if contentType == "" {
		contentType = ContentText
	}

	if l.unsaved() {
		req := LessonRequest{Module: moduleID, Title: strings.TrimSpace(l.Title), Content: l.Content, ContentType: contentType, Order: l.Order}
		if err := validation.Struct(req); err != nil {
			if len(validation.Failed(err, "title")) > 0 {
				return apperrors.Validation("Lesson must have a title", apperrors.ErrMissingTitle)
			}
			return err
		}
		res := r.api.CreateLesson(ctx, req)
		if !res.Success() {
			return apperrors.New(res.Kind(), "Failed to save lesson: "+res.Error(), res.Err)
		}
		l.ID = PersistedID(res.Data)
		l.IsNew = false
		return nil
	}

	id, _ := l.ID.Int64()
	res := r.api.UpdateLesson(ctx, id, LessonRequest{Title: l.Title, Content: l.Content, ContentType: contentType, Order: l.Order})
	if !res.Success() {
		return apperrors.New(res.Kind(), "Failed to update lesson: "+res.Error(), res.Err)
	}
	return nil
}

// carryOver merges the entities listed in left from local onto the reloaded tree. Unsaved
// entities are inserted at their local position, saved ones keep their reloaded children but
// take their local fields and position.
func carryOver(local, reloaded []Module, left pending) []Module {
	out := make([]Module, 0, len(reloaded))
	for _, m := range reloaded {
		out = append(out, m.clone())
	}

	for i, m := range local {
		if !left.modules[m.ID] {
			continue
		}
		if m.unsaved() {
			out = insertAt(out, i, m.clone())
			continue
		}
		if at := indexOfModule(out, m.ID); at >= 0 {
			merged := out[at]
			merged.Title = m.Title
			merged.Description = m.Description
			out = append(out[:at], out[at+1:]...)
			out = insertAt(out, i, merged)
			continue
		}
		out = insertAt(out, i, m.clone())
	}

	for _, m := range local {
		if m.unsaved() {
			continue
		}
		at := indexOfModule(out, m.ID)
		if at < 0 {
			continue
		}
		target := &out[at]
		for j, l := range m.Lessons {
			if !left.lessons[l.ID] {
				continue
			}
			if li := lessonIndex(*target, l.ID); li >= 0 {
				target.Lessons = append(target.Lessons[:li], target.Lessons[li+1:]...)
			}
			target.Lessons = insertAt(target.Lessons, j, l)
		}
	}
	return out
}

func indexOfModule(modules []Module, id ID) int {
	for i, m := range modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func insertAt[T any](items []T, at int, item T) []T {
	if at > len(items) {
		at = len(items)
	}
	items = append(items, item)
	copy(items[at+1:], items[at:])
	items[at] = item
	return items
}

// Publish makes the course visible to students. A course without a description is rejected
// before any request is sent.
func (r *Reconciler) Publish(ctx context.Context, c Course) result.Result[Course] {
	return r.transition(ctx, c, "publish", r.api.Publish)
}

// Unpublish moves the course back to draft.
func (r *Reconciler) Unpublish(ctx context.Context, c Course) result.Result[Course] {
	return r.transition(ctx, c, "unpublish", r.api.Unpublish)
}

type publishRequest struct {
	Description string `json:"description" validate:"notblank"`
}

func (r *Reconciler) transition(ctx context.Context, c Course, action string, call func(context.Context, int64) result.Result[Course]) result.Result[Course] {
	return result.Run(func() (Course, error) {
		if action == "publish" {
			if err := validation.Struct(publishRequest{Description: c.Description}); err != nil {
				return c, apperrors.Validation("Course must have a description to be published", apperrors.ErrMissingDescript)
			}
		}
		id, ok := c.ID.Int64()
		if !ok {
			return c, apperrors.Validation(fmt.Sprintf("Save the course before you %s it", action), apperrors.ErrCourseNotSaved)
		}

		res := call(ctx, id)
		if !res.Success() {
			r.log.Warn().Int64("course", id).Str("action", action).Str("error", res.Error()).Msg("course status change failed")
			return c, apperrors.New(res.Kind(), fmt.Sprintf("Failed to %s course: %s", action, res.Error()), res.Err)
		}

		out := c
		out.Status = StatusDraft
		if action == "publish" {
			out.Status = StatusPublished
		}
		return out, nil
	})
}
