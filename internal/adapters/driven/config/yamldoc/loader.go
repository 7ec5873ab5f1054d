// Package yamldoc loads training config files. A config file is a
// YAML key-value document: the "model" key designates the model
// artifact and every other key is passed through to the delegated
// trainer unexamined.
package yamldoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.ConfigDocumentLoader = Loader{}

// Loader parses YAML config documents.
type Loader struct{}

// Load reads and parses the document at path.
func (Loader) Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}
