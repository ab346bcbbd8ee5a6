package config

type SessionConfig interface {
	GetUsername() string
	GetPassword() string
	GetGoogleClientID() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetUsername() string {
	return GetEnv("COURSE_USERNAME", "")
}

func (Session) GetPassword() string {
	return GetEnv("COURSE_PASSWORD", "")
}

// GetGoogleClientID enables local verification of Google ID tokens when set.
func (Session) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}
