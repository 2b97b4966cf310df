// Package form holds the metadata values entered for the active document category.
package form

import (
	"fmt"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/core/normalize"
)

type Registry interface {
	Names() []string
	Definition(name string) (domain.CategoryDefinition, error)
}

// Form is owned by the presentation loop and is not safe for concurrent use.
type Form struct {
	registry   Registry
	category   *domain.CategoryDefinition
	values     map[string]string
	formatters map[string]normalize.LiveFormatter
}

func New(registry Registry) *Form {
	return &Form{registry: registry}
}

// SelectCategory discards every value of the previous category.
func (f *Form) SelectCategory(name string) error {
	def, err := f.registry.Definition(name)
	if err != nil {
		return err
	}
	f.category = &def
	f.values = make(map[string]string, len(def.Fields))
	f.formatters = make(map[string]normalize.LiveFormatter)
	for _, field := range def.Fields {
		f.values[field.Name] = ""
		if lf, ok := normalize.NewLiveFormatter(field.Kind); ok {
			f.formatters[field.Name] = lf
		}
	}
	return nil
}

func (f *Form) Category() (domain.CategoryDefinition, bool) {
	if f.category == nil {
		return domain.CategoryDefinition{}, false
	}
	return *f.category, true
}

func (f *Form) Fields() []domain.FieldDefinition {
	if f.category == nil {
		return nil
	}
	return append([]domain.FieldDefinition(nil), f.category.Fields...)
}

func (f *Form) SetField(name, raw string) error {
	if err := f.ensureField(name); err != nil {
		return err
	}
	f.values[name] = raw
	return nil
}

// Input records a keystroke-level edit, running the field's live formatter if it has one.
// It returns the value to display and where the cursor should go.
func (f *Form) Input(name, raw string, cursor int) (string, int, error) {
	if err := f.ensureField(name); err != nil {
		return "", 0, err
	}
	value := raw
	if lf, ok := f.formatters[name]; ok {
		value, cursor, _ = lf.Apply(raw, cursor)
	}
	f.values[name] = value
	return value, cursor, nil
}

func (f *Form) Value(name string) string {
	return f.values[name]
}

// BuildPayload validates fields in declared order and stops at the first failure.
func (f *Form) BuildPayload() (domain.Payload, error) {
	if f.category == nil {
		return nil, fmt.Errorf("%w: no category selected", domain.ErrNotReady)
	}
	payload := make(domain.Payload, len(f.category.Fields))
	for _, field := range f.category.Fields {
		value, err := normalize.Field(field, f.values[field.Name])
		if err != nil {
			return nil, err
		}
		payload[field.Name] = value
	}
	return payload, nil
}

// ResetAfterUpload clears the form, keeping the carry-over field at its uploaded value.
func (f *Form) ResetAfterUpload(payload domain.Payload) {
	if f.category == nil {
		return
	}
	carry, hasCarry := f.category.CarryOverField()
	for _, field := range f.category.Fields {
		f.values[field.Name] = ""
	}
	if hasCarry {
		f.values[carry.Name] = payload[carry.Name]
	}
	for _, lf := range f.formatters {
		lf.Reset()
	}
}

func (f *Form) ensureField(name string) error {
	if f.category == nil {
		return fmt.Errorf("%w: %q (no category selected)", domain.ErrUnknownField, name)
	}
	if _, ok := f.values[name]; !ok {
		return fmt.Errorf("%w: %q in category %q", domain.ErrUnknownField, name, f.category.Name)
	}
	return nil
}
