package domain

import (
	"fmt"
	"strings"
)

// FieldKind selects the validation and formatting rules applied to a field.
type FieldKind int

const (
	KindText FieldKind = iota + 1
	KindNationalID
	KindDate
	KindPhysicalRef
	KindCertificateCode
)

var fieldKindNames = map[FieldKind]string{
	KindText:            "text",
	KindNationalID:      "national_id",
	KindDate:            "date",
	KindPhysicalRef:     "physical_ref",
	KindCertificateCode: "certificate_code",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

func (k FieldKind) Valid() bool {
	_, ok := fieldKindNames[k]
	return ok
}

func ParseFieldKind(s string) (FieldKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, kindName := range fieldKindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

func (k FieldKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown field kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type FieldDefinition struct {
	Name        string    `yaml:"name"`
	Label       string    `yaml:"label"`
	Kind        FieldKind `yaml:"kind"`
	Placeholder string    `yaml:"placeholder,omitempty"`
	// CarryOver keeps the field's value when the form is reset after an upload.
	CarryOver bool `yaml:"carry_over,omitempty"`
}

type CategoryDefinition struct {
	Name         string            `yaml:"name"`
	EndpointSlug string            `yaml:"endpoint"`
	Fields       []FieldDefinition `yaml:"fields"`
}

func (c CategoryDefinition) Field(name string) (FieldDefinition, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// CarryOverField returns the field preserved across a post-upload reset, if any.
func (c CategoryDefinition) CarryOverField() (FieldDefinition, bool) {
	for _, f := range c.Fields {
		if f.CarryOver {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Payload maps field names to normalized values.
type Payload map[string]string
