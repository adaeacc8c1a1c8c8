// Package projects imports project definitions from a YAML seed file into
// the project store and keeps them in sync while the file changes.
package projects

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedFile is the top-level layout of a project seed file.
type SeedFile struct {
	Projects []Seed `yaml:"projects"`
}

// Seed describes one project and its members by roster identifier.
type Seed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

// ValidateName checks a project name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	return nil
}

// Validate checks a single seed.
func (s *Seed) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	for _, m := range s.Members {
		if strings.TrimSpace(m) == "" {
			return errors.New("member ids must not be empty")
		}
	}
	return nil
}

// LoadSeedsFromFile loads project seeds from a YAML file.
func LoadSeedsFromFile(path string) ([]Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return LoadSeeds(f)
}

// LoadSeeds loads project seeds from a reader.
func LoadSeeds(r io.Reader) ([]Seed, error) {
	var file SeedFile
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}

	seen := make(map[string]bool, len(file.Projects))
	for i := range file.Projects {
		s := &file.Projects[i]
		s.Name = strings.TrimSpace(s.Name)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid project at index %d: %w", i, err)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate project name %q", s.Name)
		}
		seen[s.Name] = true
	}

	return file.Projects, nil
}
