// Package normalize validates and normalizes form values per field kind.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

const DateLayout = "2006-01-02"

var (
	nationalIDPattern      = regexp.MustCompile(`^\d{16}$`)
	certificateCodePattern = regexp.MustCompile(`^\d{4}-[A-Z]{2}-\d{8}-\d{4}$`)
)

// Rule validates a trimmed, non-empty value and returns its normalized form.
// On failure it returns the reason shown next to the field label.
type Rule func(value string) (string, error)

var rules = map[domain.FieldKind]Rule{
	domain.KindText:            normalizeText,
	domain.KindNationalID:      normalizeNationalID,
	domain.KindDate:            normalizeDate,
	domain.KindPhysicalRef:     normalizePhysicalRef,
	domain.KindCertificateCode: normalizeCertificateCode,
}

func RuleFor(kind domain.FieldKind) (Rule, bool) {
	rule, ok := rules[kind]
	return rule, ok
}

// Field runs the submit-time check for one field. The empty check runs before any kind rule.
func Field(def domain.FieldDefinition, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &domain.ValidationError{Field: def.Label, Reason: "is required"}
	}
	rule, ok := RuleFor(def.Kind)
	if !ok {
		return "", &domain.ValidationError{Field: def.Label, Reason: fmt.Sprintf("has unsupported kind %s", def.Kind)}
	}
	normalized, err := rule(value)
	if err != nil {
		return "", &domain.ValidationError{Field: def.Label, Reason: err.Error()}
	}
	return normalized, nil
}

func normalizeText(value string) (string, error) {
	return value, nil
}

func normalizeNationalID(value string) (string, error) {
	if !nationalIDPattern.MatchString(value) {
		return "", fmt.Errorf("must be exactly 16 digits")
	}
	return value, nil
}

func normalizeDate(value string) (string, error) {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return "", fmt.Errorf("must be a date in YYYY-MM-DD format")
	}
	return value, nil
}

func normalizePhysicalRef(value string) (string, error) {
	return strings.ToUpper(value), nil
}

func normalizeCertificateCode(value string) (string, error) {
	upper := strings.ToUpper(value)
	if !certificateCodePattern.MatchString(upper) {
		return "", fmt.Errorf("must match 0000-AA-00000000-0000 (e.g. 3502-LU-31072002-0001)")
	}
	return upper, nil
}
