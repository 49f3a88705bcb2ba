package envelope

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Load parses a fixture document from YAML (or JSON, a YAML subset) bytes.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("envelope: parse fixture: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses a fixture document from path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("envelope: read %s: %w", path, err)
	}
	return Load(data)
}

// Find returns the method named name owned by owningClass, or false if the
// document has none matching.
func (d *Document) Find(owningClass, name string) (Method, bool) {
	for _, m := range d.Methods {
		if m.OwningClass == owningClass && m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}
