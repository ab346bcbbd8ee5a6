package courses_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jrsteele09/go-course-client/courses"
)

func TestParseID(t *testing.T) {
	require.Equal(t, courses.PersistedID(42), courses.ParseID("42"))
	require.Equal(t, courses.TempID("temp-1"), courses.ParseID("temp-1"))
	require.Equal(t, courses.TempID("1"), courses.ParseID("temp-1"))
	require.True(t, courses.ParseID("").IsZero())

	n, ok := courses.PersistedID(42).Int64()
	require.True(t, ok)
	require.Equal(t, int64(42), n)
	_, ok = courses.TempID("1").Int64()
	require.False(t, ok)
}

func TestIDJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A courses.ID `json:"a"`
		B courses.ID `json:"b"`
		C courses.ID `json:"c"`
	}{courses.PersistedID(7), courses.TempID("3"), courses.ID{}})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":7,"b":"temp-3","c":null}`, string(out))

	var in struct {
		A courses.ID `json:"a"`
		B courses.ID `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":"temp-3"}`), &in))
	require.Equal(t, courses.PersistedID(7), in.A)
	require.Equal(t, courses.TempID("3"), in.B)

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &in))
}

func TestIDYAML(t *testing.T) {
	src := `
id: 5
title: Go
modules:
  - title: Basics
    lessons:
      - id: 9
        title: Hello
  - id: temp-4
    title: Later
`
	var doc struct {
		ID      courses.ID       `yaml:"id"`
		Title   string           `yaml:"title"`
		Modules []courses.Module `yaml:"modules"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	require.Equal(t, courses.PersistedID(5), doc.ID)
	require.True(t, doc.Modules[0].ID.IsZero())
	require.Equal(t, courses.PersistedID(9), doc.Modules[0].Lessons[0].ID)
	require.Equal(t, courses.TempID("4"), doc.Modules[1].ID)

	out, err := yaml.Marshal(doc.Modules[1])
	require.NoError(t, err)
	require.Contains(t, string(out), "id: temp-4")

	out, err = yaml.Marshal(doc.Modules[0])
	require.NoError(t, err)
	require.NotContains(t, string(out), "\nid:")
}
