package registry

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modelarena/go-arena/internal/domain"
)

// ActiveRef names the definition a competitions file marks active.
type ActiveRef struct {
	CompetitionID string `yaml:"competition_id" validate:"required"`
	Version       int    `yaml:"version" validate:"gt=0"`
}

// CompetitionsFile is the administrative publication surface: a YAML
// document listing competition definitions to publish plus, optionally,
// the one to activate.
type CompetitionsFile struct {
	// Competitions are published in order.
	Competitions []domain.CompetitionDefinition `yaml:"competitions" validate:"required,min=1,dive"`

	// Active, when set, is activated after all publications succeed.
	Active *ActiveRef `yaml:"active"`
}

// LoadCompetitionsFile reads a competitions YAML file and applies it to
// the registry: every listed definition is published, then the active
// reference (if any) is activated. Decoding is strict so configuration
// typos fail loudly rather than being silently ignored.
func LoadCompetitionsFile(r *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read competitions file: %w", err)
	}
	return ApplyCompetitions(r, data)
}

// ApplyCompetitions parses a competitions YAML document and applies it to
// the registry. Publication failures abort before any activation occurs.
func ApplyCompetitions(r *Registry, data []byte) error {
	var file CompetitionsFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("parse competitions file (check for typos): %w", err)
	}

	if err := validate.Struct(file); err != nil {
		return fmt.Errorf("competitions file validation failed: %w", err)
	}

	for _, def := range file.Competitions {
		if err := r.Publish(def); err != nil {
			return err
		}
	}

	if file.Active != nil {
		if err := r.Activate(file.Active.CompetitionID, file.Active.Version); err != nil {
			return err
		}
	}

	return nil
}
