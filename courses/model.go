package courses

// ContentType is the kind of material a lesson holds.
type ContentType string

const (
	ContentText       ContentType = "text"
	ContentVideo      ContentType = "video"
	ContentQuiz       ContentType = "quiz"
	ContentAssignment ContentType = "assignment"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

const (
	defaultModuleTitle = "New Module"
	defaultLessonTitle = "New Lesson"
)

// Course is the authored course. ID is zero until the course has been created on the backend.
type Course struct {
	ID          ID     `json:"id" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Status      Status `json:"status" yaml:"status,omitempty"`
}

type Module struct {
	ID          ID       `json:"id" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description,omitempty"`
	Order       int      `json:"order" yaml:"order,omitempty"`
	Lessons     []Lesson `json:"lessons" yaml:"lessons,omitempty"`
	IsNew       bool     `json:"is_new,omitempty" yaml:"-"`
}

type Lesson struct {
	ID          ID          `json:"id" yaml:"id,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Content     string      `json:"content" yaml:"content,omitempty"`
	ContentType ContentType `json:"content_type" yaml:"content_type,omitempty"`
	Order       int         `json:"order" yaml:"order,omitempty"`
	IsNew       bool        `json:"is_new,omitempty" yaml:"-"`
}

// unsaved reports whether the module has never been created on the backend.
func (m Module) unsaved() bool {
	return m.IsNew || m.ID.IsTemp() || m.ID.IsZero()
}

func (l Lesson) unsaved() bool {
	return l.IsNew || l.ID.IsTemp() || l.ID.IsZero()
}

func (m Module) clone() Module {
	if m.Lessons != nil {
		lessons := make([]Lesson, len(m.Lessons))
		copy(lessons, m.Lessons)
		m.Lessons = lessons
	}
	return m
}

// ModulePatch holds the module fields to change; nil fields are left as they are.
type ModulePatch struct {
	Title       *string
	Description *string
}

type LessonPatch struct {
	Title       *string
	Content     *string
	ContentType *ContentType
}

type CoursePatch struct {
	Title       *string
	Description *string
}
