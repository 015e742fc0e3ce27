package configs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixtures is the seed data for a development or emulator project.
// Each collection maps a document ID to its fields; an empty ID lets Firestore generate one.
type Fixtures struct {
	Collections map[string][]Document `yaml:"collections"`
}

// Document is one seeded document.
type Document struct {
	ID     string                 `yaml:"id"`
	Fields map[string]interface{} `yaml:"fields"`
}

// LoadFixtures reads fixtures from path. PATH_FIXTURES overrides an empty path.
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		path = os.Getenv("PATH_FIXTURES")
	}
	if path == "" {
		path = "configs/fixtures.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading fixtures file %s: %w", path, err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML fixtures and rejects documents without fields.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error unmarshalling fixtures: %w", err)
	}
	for name, docs := range f.Collections {
		for i, doc := range docs {
			if len(doc.Fields) == 0 {
				return nil, fmt.Errorf("fixtures: %s[%d] has no fields", name, i)
			}
		}
	}
	return &f, nil
}
