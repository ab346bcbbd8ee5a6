// Package courses holds the course authoring model: an immutable draft tree of modules and
// lessons, and the reconciler that commits a draft to the backend.
package courses

import (
	"fmt"

	"github.com/jrsteele09/go-course-client/internal/utils"
)

// Draft is an editable course tree that has not necessarily been saved. Every operation returns a
// new Draft and leaves the receiver untouched, so a Draft value can be shared freely.
//
// Within a course and within each module, Order is always 1..N in slice order.
type Draft struct {
	Course  Course
	Modules []Module

	dirty          bool
	removedModules []int64
	removedLessons []int64
	moduleSeq      int
	lessonSeq      int
}

// NewDraft builds a clean draft from course and modules. Entities without an id are given
// temporary ids and marked new, and orders are renumbered from slice position.
func NewDraft(course Course, modules []Module) Draft {
	d := Draft{Course: course, Modules: make([]Module, 0, len(modules))}
	for _, m := range modules {
		d.Modules = append(d.Modules, m.clone())
	}
	for i := range d.Modules {
		m := &d.Modules[i]
		if m.ID.IsZero() {
			m.ID = d.freshModuleID()
		}
		m.IsNew = m.IsNew || m.ID.IsTemp()
		for j := range m.Lessons {
			l := &m.Lessons[j]
			if l.ID.IsZero() {
				l.ID = d.freshLessonID(*m)
			}
			l.IsNew = l.IsNew || l.ID.IsTemp()
			if l.ContentType == "" {
				l.ContentType = ContentText
			}
		}
	}
	d.renumber()
	return d
}

// Dirty reports whether the draft holds changes that have not been saved.
func (d Draft) Dirty() bool {
	return d.dirty
}

// RemovedModules returns the backend ids of saved modules deleted from the draft.
func (d Draft) RemovedModules() []int64 {
	return append([]int64(nil), d.removedModules...)
}

// RemovedLessons returns the backend ids of saved lessons deleted from the draft.
func (d Draft) RemovedLessons() []int64 {
	return append([]int64(nil), d.removedLessons...)
}

func (d Draft) Module(moduleID ID) (Module, bool) {
	if i := d.moduleIndex(moduleID); i >= 0 {
		return d.Modules[i].clone(), true
	}
	return Module{}, false
}

func (d Draft) Lesson(moduleID, lessonID ID) (Lesson, bool) {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return Lesson{}, false
	}
	if li := lessonIndex(d.Modules[mi], lessonID); li >= 0 {
		return d.Modules[mi].Lessons[li], true
	}
	return Lesson{}, false
}

// LessonCount returns the number of lessons across all modules.
func (d Draft) LessonCount() int {
	n := 0
	for _, m := range d.Modules {
		n += len(m.Lessons)
	}
	return n
}

func (d Draft) UpdateCourse(patch CoursePatch) Draft {
	next := d.clone()
	next.Course.Title = utils.Or(patch.Title, next.Course.Title)
	next.Course.Description = utils.Or(patch.Description, next.Course.Description)
	next.dirty = true
	return next
}

// AddModule appends an empty module titled "New Module".
func (d Draft) AddModule() Draft {
	next := d.clone()
	next.Modules = append(next.Modules, Module{
		ID:      next.freshModuleID(),
		Title:   defaultModuleTitle,
		Order:   len(next.Modules) + 1,
		Lessons: []Lesson{},
		IsNew:   true,
	})
	next.dirty = true
	return next
}

// AddLesson appends a text lesson titled "New Lesson" to the module. An unknown module is ignored.
func (d Draft) AddLesson(moduleID ID) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	next := d.clone()
	m := &next.Modules[mi]
	m.Lessons = append(m.Lessons, Lesson{
		ID:          next.freshLessonID(*m),
		Title:       defaultLessonTitle,
		ContentType: ContentText,
		Order:       len(m.Lessons) + 1,
		IsNew:       true,
	})
	next.dirty = true
	return next
}

func (d Draft) UpdateModule(moduleID ID, patch ModulePatch) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	next := d.clone()
	m := &next.Modules[mi]
	m.Title = utils.Or(patch.Title, m.Title)
	m.Description = utils.Or(patch.Description, m.Description)
	next.dirty = true
	return next
}

func (d Draft) UpdateLesson(moduleID, lessonID ID, patch LessonPatch) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	li := lessonIndex(d.Modules[mi], lessonID)
	if li < 0 {
		return d
	}
	next := d.clone()
	l := &next.Modules[mi].Lessons[li]
	l.Title = utils.Or(patch.Title, l.Title)
	l.Content = utils.Or(patch.Content, l.Content)
	l.ContentType = utils.Or(patch.ContentType, l.ContentType)
	next.dirty = true
	return next
}

// DeleteModule removes the module with its lessons. Saved modules are remembered so the next
// save deletes them on the backend.
func (d Draft) DeleteModule(moduleID ID) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	next := d.clone()
	if id, ok := next.Modules[mi].ID.Int64(); ok && !next.Modules[mi].IsNew {
		next.removedModules = append(next.removedModules, id)
	}
	next.Modules = append(next.Modules[:mi], next.Modules[mi+1:]...)
	next.renumber()
	next.dirty = true
	return next
}

func (d Draft) DeleteLesson(moduleID, lessonID ID) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	li := lessonIndex(d.Modules[mi], lessonID)
	if li < 0 {
		return d
	}
	next := d.clone()
	m := &next.Modules[mi]
	if id, ok := m.Lessons[li].ID.Int64(); ok && !m.Lessons[li].IsNew {
		next.removedLessons = append(next.removedLessons, id)
	}
	m.Lessons = append(m.Lessons[:li], m.Lessons[li+1:]...)
	next.renumber()
	next.dirty = true
	return next
}

// MoveModule moves the module to index to, clamped to the module list.
func (d Draft) MoveModule(moduleID ID, to int) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	next := d.clone()
	next.Modules = move(next.Modules, mi, to)
	next.renumber()
	next.dirty = true
	return next
}

// MoveLesson moves the lesson to index to within its module, clamped to the lesson list.
func (d Draft) MoveLesson(moduleID, lessonID ID, to int) Draft {
	mi := d.moduleIndex(moduleID)
	if mi < 0 {
		return d
	}
	li := lessonIndex(d.Modules[mi], lessonID)
	if li < 0 {
		return d
	}
	next := d.clone()
	next.Modules[mi].Lessons = move(next.Modules[mi].Lessons, li, to)
	next.renumber()
	next.dirty = true
	return next
}

func (d Draft) clone() Draft {
	next := d
	next.Modules = make([]Module, len(d.Modules))
	for i, m := range d.Modules {
		next.Modules[i] = m.clone()
	}
	next.removedModules = append([]int64(nil), d.removedModules...)
	next.removedLessons = append([]int64(nil), d.removedLessons...)
	return next
}

func (d *Draft) renumber() {
	for i := range d.Modules {
		d.Modules[i].Order = i + 1
		for j := range d.Modules[i].Lessons {
			d.Modules[i].Lessons[j].Order = j + 1
		}
	}
}

func (d *Draft) freshModuleID() ID {
	for {
		d.moduleSeq++
		id := TempID(fmt.Sprintf("%d", d.moduleSeq))
		if d.moduleIndex(id) < 0 {
			return id
		}
	}
}

// freshLessonID derives the lesson id from its module, e.g. the first lesson of temp-1 is temp-1-1.
func (d *Draft) freshLessonID(m Module) ID {
	for {
		d.lessonSeq++
		id := TempID(fmt.Sprintf("%s-%d", m.ID.tempKey(), d.lessonSeq))
		if lessonIndex(m, id) < 0 {
			return id
		}
	}
}

func (d Draft) moduleIndex(id ID) int {
	for i, m := range d.Modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func lessonIndex(m Module, id ID) int {
	for i, l := range m.Lessons {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func move[T any](items []T, from, to int) []T {
	if to < 0 {
		to = 0
	}
	if to > len(items)-1 {
		to = len(items) - 1
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}
