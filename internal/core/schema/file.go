package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

type fileFormat struct {
	Categories []domain.CategoryDefinition `yaml:"categories"`
}

// Parse reads a registry from YAML:
//
//	categories:
//	  - name: Akta Kelahiran
//	    endpoint: akta-kelahiran
//	    fields:
//	      - {name: noAkta, label: No. Akta, kind: certificate_code}
func Parse(data []byte) (*Registry, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	return New(doc.Categories...)
}

func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	return Parse(data)
}

// Marshal renders the registry in the format accepted by Parse.
func (r *Registry) Marshal() ([]byte, error) {
	doc := fileFormat{Categories: make([]domain.CategoryDefinition, 0, len(r.order))}
	for _, name := range r.order {
		doc.Categories = append(doc.Categories, r.categories[name])
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}
	return out, nil
}
