// Package schema holds the category definitions that drive form generation,
// validation and upload endpoints.
package schema

import (
	"fmt"
	"strings"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

// Registry is read-only after construction.
type Registry struct {
	order      []string
	categories map[string]domain.CategoryDefinition
}

func New(categories ...domain.CategoryDefinition) (*Registry, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("schema: at least one category is required")
	}
	r := &Registry{
		order:      make([]string, 0, len(categories)),
		categories: make(map[string]domain.CategoryDefinition, len(categories)),
	}
	for _, c := range categories {
		if err := validateCategory(c); err != nil {
			return nil, err
		}
		if _, exists := r.categories[c.Name]; exists {
			return nil, fmt.Errorf("schema: duplicate category %q", c.Name)
		}
		c.Fields = append([]domain.FieldDefinition(nil), c.Fields...)
		r.order = append(r.order, c.Name)
		r.categories[c.Name] = c
	}
	return r, nil
}

func MustNew(categories ...domain.CategoryDefinition) *Registry {
	r, err := New(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns category names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Definition(name string) (domain.CategoryDefinition, error) {
	c, ok := r.categories[name]
	if !ok {
		return domain.CategoryDefinition{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, name)
	}
	c.Fields = append([]domain.FieldDefinition(nil), c.Fields...)
	return c, nil
}

func validateCategory(c domain.CategoryDefinition) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("schema: category name is required")
	}
	if strings.Trim(strings.TrimSpace(c.EndpointSlug), "/") == "" {
		return fmt.Errorf("schema: category %q: endpoint is required", c.Name)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("schema: category %q: no fields", c.Name)
	}
	seen := make(map[string]bool, len(c.Fields))
	carryOver := 0
	for _, f := range c.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("schema: category %q: field name is required", c.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema: category %q: duplicate field %q", c.Name, f.Name)
		}
		seen[f.Name] = true
		if !f.Kind.Valid() {
			return fmt.Errorf("schema: category %q: field %q has unknown kind", c.Name, f.Name)
		}
		if f.CarryOver {
			carryOver++
		}
	}
	if carryOver > 1 {
		return fmt.Errorf("schema: category %q: more than one carry-over field", c.Name)
	}
	return nil
}
