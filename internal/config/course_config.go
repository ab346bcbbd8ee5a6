package config

type CourseConfig interface {
	GetCourseFile() string
	GetPublish() bool
}

type Course struct{}

var _ CourseConfig = Course{}

// GetCourseFile is the YAML draft the command saves; it is rewritten with the saved ids.
func (Course) GetCourseFile() string {
	return GetEnv("COURSE_FILE", "course.yaml")
}

func (Course) GetPublish() bool {
	return getBool("COURSE_PUBLISH", false)
}
