package cube

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Resolver looks up cube catalogs by name
type Resolver interface {
	Get(name string) (*Catalog, error)
}

// Repository is an in-memory set of catalogs keyed by cube name
type Repository struct {
	catalogs map[string]*Catalog
}

// NewRepository creates a repository holding the given catalogs
func NewRepository(catalogs ...*Catalog) (*Repository, error) {
	r := &Repository{catalogs: make(map[string]*Catalog, len(catalogs))}

	for _, c := range catalogs {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Add validates and registers a catalog
func (r *Repository) Add(c *Catalog) error {
	if c == nil {
		return nil
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return err
	}

	if _, exists := r.catalogs[c.Name]; exists {
		return fmt.Errorf("%w: cube %s", ErrDuplicateName, c.Name)
	}

	r.catalogs[c.Name] = c

	return nil
}

// Get returns the named catalog
func (r *Repository) Get(name string) (*Catalog, error) {
	c, ok := r.catalogs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCubeNotFound, name)
	}

	return c, nil
}

// Names returns all cube names, sorted
func (r *Repository) Names() []string {
	names := make([]string, 0, len(r.catalogs))
	for name := range r.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// catalogFile is the on-disk layout; a file may hold one or several cubes
type catalogFile struct {
	Cubes []*Catalog `yaml:"cubes"`
}

// LoadCatalogs discovers catalog files under the given paths and loads them into a repository
func LoadCatalogs(paths []string) (*Repository, error) {
	repo, err := NewRepository()
	if err != nil {
		return nil, err
	}

	for _, base := range paths {
		files, discoverErr := discoverYAML(base)
		if discoverErr != nil {
			return nil, fmt.Errorf("failed to discover catalogs in %s: %w", base, discoverErr)
		}

		for _, file := range files {
			catalogs, parseErr := ParseCatalogFile(file)
			if parseErr != nil {
				return nil, parseErr
			}

			for _, c := range catalogs {
				if addErr := repo.Add(c); addErr != nil {
					return nil, fmt.Errorf("invalid catalog in %s: %w", file, addErr)
				}
			}
		}
	}

	return repo, nil
}

// ParseCatalogFile reads one catalog file
func ParseCatalogFile(path string) ([]*Catalog, error) {
	content, err := os.ReadFile(path) //nolint:gosec // User-provided catalog path
	if err != nil {
		return nil, err
	}

	return ParseCatalogs(content)
}

// ParseCatalogs decodes catalog YAML and applies defaults to every element
func ParseCatalogs(content []byte) ([]*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for _, c := range file.Cubes {
		if c == nil {
			continue
		}
		for i := range c.Measures {
			if err := defaults.Set(&c.Measures[i]); err != nil {
				return nil, err
			}
		}
		for i := range c.Dimensions {
			for j := range c.Dimensions[i].Hierarchies {
				levels := c.Dimensions[i].Hierarchies[j].Levels
				for k := range levels {
					if err := defaults.Set(&levels[k]); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return file.Cubes, nil
}

func discoverYAML(basePath string) ([]string, error) {
	var files []string

	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // Skip if directory doesn't exist
			}
			return err
		}

		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)

	return files, err
}
