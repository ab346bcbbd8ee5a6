package courses

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-course-client/apiclient"
	"github.com/jrsteele09/go-course-client/internal/result"
)

// API is the backend surface the reconciler needs.
type API interface {
	CreateCourse(ctx context.Context, c Course) result.Result[Course]
	ListModules(ctx context.Context, courseID int64) result.Result[[]Module]
	CreateModule(ctx context.Context, req ModuleRequest) result.Result[int64]
	UpdateModule(ctx context.Context, moduleID int64, req ModuleRequest) result.Result[int64]
	DeleteModule(ctx context.Context, moduleID int64) result.Result[struct{}]
	CreateLesson(ctx context.Context, req LessonRequest) result.Result[int64]
	UpdateLesson(ctx context.Context, lessonID int64, req LessonRequest) result.Result[int64]
	DeleteLesson(ctx context.Context, lessonID int64) result.Result[struct{}]
	Publish(ctx context.Context, courseID int64) result.Result[Course]
	Unpublish(ctx context.Context, courseID int64) result.Result[Course]
}

// ModuleRequest is the body of a module create or update.
type ModuleRequest struct {
	Course      int64  `json:"course,omitempty"`
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// LessonRequest is the body of a lesson create or update.
type LessonRequest struct {
	Module      int64       `json:"module,omitempty"`
	Title       string      `json:"title" validate:"notblank"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type" validate:"oneof=text video quiz assignment"`
	Order       int         `json:"order"`
}

type courseRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
}

type courseResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

type moduleResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	Lessons     []lessonResponse `json:"lessons"`
}

type lessonResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	Order       int         `json:"order"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func (c courseResponse) course() Course {
	status := c.Status
	if status == "" {
		status = StatusDraft
	}
	return Course{ID: PersistedID(c.ID), Title: c.Title, Description: c.Description, Status: status}
}

func (m moduleResponse) module() Module {
	out := Module{
		ID:          PersistedID(m.ID),
		Title:       m.Title,
		Description: m.Description,
		Order:       m.Order,
		Lessons:     make([]Lesson, 0, len(m.Lessons)),
	}
	for _, l := range m.Lessons {
		contentType := l.ContentType
		if contentType == "" {
			contentType = ContentText
		}
		out.Lessons = append(out.Lessons, Lesson{
			ID:          PersistedID(l.ID),
			Title:       l.Title,
			Content:     l.Content,
			ContentType: contentType,
			Order:       l.Order,
		})
	}
	return out
}

// HTTPAPI talks to the backend through the shared api client.
type HTTPAPI struct {
	client *apiclient.Client
}

var _ API = (*HTTPAPI)(nil)

func NewHTTPAPI(client *apiclient.Client) *HTTPAPI {
	return &HTTPAPI{client: client}
}

func (a *HTTPAPI) CreateCourse(ctx context.Context, c Course) result.Result[Course] {
	res := apiclient.Do[courseResponse](ctx, a.client, http.MethodPost, apiclient.RouteCourses,
		courseRequest{Title: c.Title, Description: c.Description})
	return result.Map(res, courseResponse.course)
}

func (a *HTTPAPI) ListModules(ctx context.Context, courseID int64) result.Result[[]Module] {
	res := apiclient.Do[[]moduleResponse](ctx, a.client, http.MethodGet, apiclient.CourseModulesPath(courseID), nil)
	return result.Map(res, func(list []moduleResponse) []Module {
		modules := make([]Module, 0, len(list))
		for _, m := range list {
			modules = append(modules, m.module())
		}
		return modules
	})
}

func (a *HTTPAPI) CreateModule(ctx context.Context, req ModuleRequest) result.Result[int64] {
	return a.sendID(ctx, http.MethodPost, apiclient.RouteModules, req)
}

func (a *HTTPAPI) UpdateModule(ctx context.Context, moduleID int64, req ModuleRequest) result.Result[int64] {
	return a.sendID(ctx, http.MethodPatch, apiclient.ModulePath(moduleID), req)
}

func (a *HTTPAPI) DeleteModule(ctx context.Context, moduleID int64) result.Result[struct{}] {
	return a.delete(ctx, apiclient.ModulePath(moduleID))
}

func (a *HTTPAPI) CreateLesson(ctx context.Context, req LessonRequest) result.Result[int64] {
	return a.sendID(ctx, http.MethodPost, apiclient.RouteLessons, req)
}

func (a *HTTPAPI) UpdateLesson(ctx context.Context, lessonID int64, req LessonRequest) result.Result[int64] {
	return a.sendID(ctx, http.MethodPatch, apiclient.LessonPath(lessonID), req)
}

func (a *HTTPAPI) DeleteLesson(ctx context.Context, lessonID int64) result.Result[struct{}] {
	return a.delete(ctx, apiclient.LessonPath(lessonID))
}

func (a *HTTPAPI) Publish(ctx context.Context, courseID int64) result.Result[Course] {
	res := apiclient.Do[courseResponse](ctx, a.client, http.MethodPost, apiclient.CoursePublishPath(courseID), nil)
	return result.Map(res, courseResponse.course)
}

func (a *HTTPAPI) Unpublish(ctx context.Context, courseID int64) result.Result[Course] {
	res := apiclient.Do[courseResponse](ctx, a.client, http.MethodPost, apiclient.CourseUnpublishPath(courseID), nil)
	return result.Map(res, courseResponse.course)
}

func (a *HTTPAPI) sendID(ctx context.Context, method, path string, body interface{}) result.Result[int64] {
	res := apiclient.Do[idResponse](ctx, a.client, method, path, body)
	return result.Map(res, func(r idResponse) int64 { return r.ID })
}

func (a *HTTPAPI) delete(ctx context.Context, path string) result.Result[struct{}] {
	res := a.client.Request(ctx, http.MethodDelete, path, nil)
	return result.Map(res, func([]byte) struct{} { return struct{}{} })
}
