package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownHost is returned when a container names a crosstab that is not in the file
	ErrUnknownHost = errors.New("container host crosstab not found")
	// ErrDuplicateItem is returned when two report items share a name
	ErrDuplicateItem = errors.New("duplicate report item name")
	// ErrItemNameRequired is returned when a report item has no name
	ErrItemNameRequired = errors.New("report item name is required")
)

// File is a report design reduced to the items the planner needs
type File struct {
	Path       string       `yaml:"-"`
	Crosstabs  []*Crosstab  `yaml:"crosstabs,omitempty"`
	Containers []*Container `yaml:"containers"`
}

// LoadFile reads and links a report file
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path) //nolint:gosec // User-provided report path
	if err != nil {
		return nil, err
	}

	f, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path

	return f, nil
}

// Parse decodes report YAML, applies defaults and links nested containers to their host crosstab
func Parse(content []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(content, f); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	hosts := make(map[string]*Crosstab, len(f.Crosstabs))
	for _, x := range f.Crosstabs {
		if x.Name == "" {
			return nil, fmt.Errorf("%w: crosstab", ErrItemNameRequired)
		}
		if _, exists := hosts[x.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, x.Name)
		}
		hosts[x.Name] = x
	}

	names := make(map[string]bool, len(f.Containers))
	for _, c := range f.Containers {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: container", ErrItemNameRequired)
		}
		if names[c.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, c.Name)
		}
		names[c.Name] = true

		if err := defaults.Set(&c.Chart); err != nil {
			return nil, err
		}

		if c.HostName == "" {
			continue
		}

		host, ok := hosts[c.HostName]
		if !ok {
			return nil, fmt.Errorf("%w: %s (container %s)", ErrUnknownHost, c.HostName, c.Name)
		}
		c.Host = host
	}

	return f, nil
}

// Container returns the named container
func (f *File) Container(name string) (*Container, bool) {
	for _, c := range f.Containers {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// Crosstab returns the named crosstab
func (f *File) Crosstab(name string) (*Crosstab, bool) {
	for _, x := range f.Crosstabs {
		if x.Name == name {
			return x, true
		}
	}

	return nil, false
}
