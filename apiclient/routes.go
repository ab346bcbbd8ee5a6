package apiclient

import "fmt"

// Backend route constants, relative to the configured base URL
const (
	// Auth Routes
	RouteAuthLogin                = "/auth/login"
	RouteAuthRefresh              = "/auth/refresh"
	RouteAuthRegister             = "/auth/register"
	RouteAuthResendVerification   = "/auth/resend-verification"
	RouteAuthPasswordReset        = "/auth/password-reset"
	RouteAuthPasswordResetConfirm = "/auth/password-reset/confirm"
	RouteAuthGoogle               = "/auth/google"

	// User Routes
	RouteCurrentUser = "/users/me"

	// Course Routes
	RouteCourses         = "/courses"
	RouteCourseModules   = "/courses/{id}/modules"
	RouteCoursePublish   = "/courses/{id}/publish"
	RouteCourseUnpublish = "/courses/{id}/unpublish"
	RouteModules         = "/courses/modules"
	RouteModule          = "/courses/modules/{id}"
	RouteLessons         = "/courses/lessons"
	RouteLesson          = "/courses/lessons/{id}"
)

// CourseModulesPath returns the module listing path of a course.
func CourseModulesPath(courseID int64) string {
	return fmt.Sprintf("/courses/%d/modules", courseID)
}

func CoursePublishPath(courseID int64) string {
	return fmt.Sprintf("/courses/%d/publish", courseID)
}

func CourseUnpublishPath(courseID int64) string {
	return fmt.Sprintf("/courses/%d/unpublish", courseID)
}

func ModulePath(moduleID int64) string {
	return fmt.Sprintf("%s/%d", RouteModules, moduleID)
}

func LessonPath(lessonID int64) string {
	return fmt.Sprintf("%s/%d", RouteLessons, lessonID)
}
