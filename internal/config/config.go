package config

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	SessionConfig
	CourseConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Client
	Storage
	Session
	Course
}

func New() Config {
	return mainConfig{}
}
