package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jrsteele09/go-course-client/courses"
)

// document is the YAML form of a course draft.
type document struct {
	Course  courses.Course   `yaml:"course"`
	Modules []courses.Module `yaml:"modules"`
}

func loadDocument(path string) (document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return document{}, fmt.Errorf("read course file: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return document{}, fmt.Errorf("parse course file %s: %w", path, err)
	}
	return doc, nil
}

func (doc document) draft() courses.Draft {
	return courses.NewDraft(doc.Course, doc.Modules)
}

func saveDocument(path string, d courses.Draft) error {
	raw, err := yaml.Marshal(document{Course: d.Course, Modules: d.Modules})
	if err != nil {
		return fmt.Errorf("encode course file: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write course file: %w", err)
	}
	return nil
}
