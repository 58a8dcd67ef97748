// Package taxonomy classifies category display names into families
// (projects and course departments).
//
// The curated tables live in a Taxonomy value rather than package globals so
// callers and tests can substitute their own. Default returns the built-in
// tables; Load reads an override from YAML.
package taxonomy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Family types.
const (
	TypeCourse   = "course"
	TypeResearch = "research"
	TypePersonal = "personal"
	TypeOther    = "other"
)

// CurrentVersion is the taxonomy schema version this build understands.
const CurrentVersion = 1

var departmentRegex = regexp.MustCompile(`^([a-z]+)\s+\d`)

// Family describes one curated family.
type Family struct {
	Key         string `yaml:"key"`
	DisplayName string `yaml:"display_name"`
	Type        string `yaml:"type"`
	Color       string `yaml:"color,omitempty"`
}

// Taxonomy is a versioned set of curated families.
type Taxonomy struct {
	Version int `yaml:"version"`
	// Projects match a category display name exactly (case-insensitive).
	Projects []Family `yaml:"projects"`
	// Departments match the leading letters of a course code.
	Departments []Family `yaml:"departments"`

	projects    map[string]Family
	departments map[string]Family
}

// New builds a taxonomy from project and department families.
func New(projects, departments []Family) (*Taxonomy, error) {
	t := &Taxonomy{Version: CurrentVersion, Projects: projects, Departments: departments}
	if err := t.index(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}
	if t.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported taxonomy version %d (want %d)", t.Version, CurrentVersion)
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Taxonomy) index() error {
	t.projects = make(map[string]Family, len(t.Projects))
	t.departments = make(map[string]Family, len(t.Departments))

	for i, f := range t.Projects {
		f.Key = strings.ToLower(strings.TrimSpace(f.Key))
		if f.Key == "" {
			return fmt.Errorf("project family #%d has no key", i)
		}
		if _, dup := t.projects[f.Key]; dup {
			return fmt.Errorf("duplicate project family %q", f.Key)
		}
		t.Projects[i] = f
		t.projects[f.Key] = f
	}
	for i, f := range t.Departments {
		f.Key = strings.ToLower(strings.TrimSpace(f.Key))
		if f.Key == "" {
			return fmt.Errorf("department family #%d has no key", i)
		}
		if _, dup := t.departments[f.Key]; dup {
			return fmt.Errorf("duplicate department family %q", f.Key)
		}
		t.Departments[i] = f
		t.departments[f.Key] = f
	}
	return nil
}

// Classify returns the family key for a clean display name.
// An exact project match wins over a department prefix, so "CSE 257" maps to
// its own family rather than "cse". ok is false when nothing matches; callers
// must not invent a family in that case.
func (t *Taxonomy) Classify(displayName string) (key string, ok bool) {
	name := strings.ToLower(strings.TrimSpace(displayName))

	if _, found := t.projects[name]; found {
		return name, true
	}

	if m := departmentRegex.FindStringSubmatch(name); m != nil {
		if _, found := t.departments[m[1]]; found {
			return m[1], true
		}
	}

	return "", false
}

// Resolve returns the curated attributes for a family key. Unknown keys get
// a title-cased display name, type "other" and no color.
func (t *Taxonomy) Resolve(key string) Family {
	key = strings.ToLower(strings.TrimSpace(key))
	if f, ok := t.projects[key]; ok {
		return withDefaults(f)
	}
	if f, ok := t.departments[key]; ok {
		return withDefaults(f)
	}
	return Family{
		Key:         key,
		DisplayName: cases.Title(language.Und).String(key),
		Type:        TypeOther,
	}
}

// Known reports whether key is a curated family.
func (t *Taxonomy) Known(key string) bool {
	key = strings.ToLower(key)
	_, p := t.projects[key]
	_, d := t.departments[key]
	return p || d
}

func withDefaults(f Family) Family {
	if f.Type == "" {
		f.Type = TypeOther
	}
	if f.DisplayName == "" {
		f.DisplayName = cases.Title(language.Und).String(f.Key)
	}
	return f
}

// ValidType reports whether s is one of the family type tags.
func ValidType(s string) bool {
	switch s {
	case TypeCourse, TypeResearch, TypePersonal, TypeOther:
		return true
	}
	return false
}
