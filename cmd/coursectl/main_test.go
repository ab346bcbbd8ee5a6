package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-course-client/internal/config"
)

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEnvBeforeConfig(t *testing.T) {
	unsetEnv(t, "ENV", "LOG_LEVEL", "COURSE_FILE")
	path := writeEnvFile(t, "ENV=PRODUCTION\nLOG_LEVEL=debug\nCOURSE_FILE=intro.yaml\n")

	loadEnv(path)
	c := config.New()

	require.Equal(t, "PRODUCTION", c.GetEnv())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, "intro.yaml", c.GetCourseFile())
}

func TestLoadEnvKeepsProcessValues(t *testing.T) {
	unsetEnv(t, "COURSE_FILE")
	t.Setenv("LOG_LEVEL", "warn")
	path := writeEnvFile(t, "LOG_LEVEL=debug\nCOURSE_FILE=intro.yaml\n")

	loadEnv(path)
	c := config.New()

	require.Equal(t, "warn", c.GetLogLevel())
	require.Equal(t, "intro.yaml", c.GetCourseFile())
}

func TestLoadEnvSkippedInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	unsetEnv(t, "COURSE_FILE")
	path := writeEnvFile(t, "COURSE_FILE=intro.yaml\n")

	loadEnv(path)

	require.Equal(t, "course.yaml", config.New().GetCourseFile())
}

func TestLoadEnvMissingFile(t *testing.T) {
	unsetEnv(t, "ENV", "COURSE_FILE")

	loadEnv(filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, "course.yaml", config.New().GetCourseFile())
}
