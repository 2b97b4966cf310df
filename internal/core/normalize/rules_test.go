package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

func field(kind domain.FieldKind) domain.FieldDefinition {
	return domain.FieldDefinition{Name: "f", Label: "Label", Kind: kind}
}

func TestFieldRejectsEmptyBeforeKindRule(t *testing.T) {
	kinds := []domain.FieldKind{
		domain.KindText,
		domain.KindNationalID,
		domain.KindDate,
		domain.KindPhysicalRef,
		domain.KindCertificateCode,
	}
	for _, kind := range kinds {
		for _, raw := range []string{"", "   ", "\t\n"} {
			_, err := Field(field(kind), raw)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("kind %s raw %q: expected ValidationError, got %v", kind, raw, err)
			}
			if verr.Field != "Label" || verr.Reason != "is required" {
				t.Fatalf("kind %s: unexpected validation error %+v", kind, verr)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation kind")
			}
		}
	}
}

func TestNationalID(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"1234567890123456", true},
		{"  1234567890123456  ", true},
		{"123", false},
		{"12345678901234567", false},
		{"123456789012345a", false},
		{"１２３４５６７８９０１２３４５６", false},
	}
	for _, tt := range tests {
		got, err := Field(field(domain.KindNationalID), tt.raw)
		if tt.valid && err != nil {
			t.Fatalf("%q: unexpected error %v", tt.raw, err)
		}
		if !tt.valid && err == nil {
			t.Fatalf("%q: expected error, got %q", tt.raw, got)
		}
		if tt.valid && got != strings.TrimSpace(tt.raw) {
			t.Fatalf("%q: normalized to %q", tt.raw, got)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"2024-01-31", true},
		{"2024-02-29", true},
		{"2024-1-31", false},
		{"31-01-2024", false},
		{"2023-02-29", false},
		{"2024/01/31", false},
	}
	for _, tt := range tests {
		_, err := Field(field(domain.KindDate), tt.raw)
		if (err == nil) != tt.valid {
			t.Fatalf("%q: valid=%v, err=%v", tt.raw, tt.valid, err)
		}
	}
}

func TestPhysicalRefUppercases(t *testing.T) {
	got, err := Field(field(domain.KindPhysicalRef), " ab-12c ")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != "AB-12C" {
		t.Fatalf("expected AB-12C, got %q", got)
	}
}

func TestTextKeepsCase(t *testing.T) {
	got, err := Field(field(domain.KindText), " 474.1/12 ")
	if err != nil || got != "474.1/12" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestCertificateCode(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"3502-LU-31072002-0001", "3502-LU-31072002-0001", true},
		{"3502-lu-31072002-0001", "3502-LU-31072002-0001", true},
		{"3502-1L-31072002-0001", "", false},
		{"3502LU310720020001", "", false},
		{"3502-LU-3107200-0001", "", false},
		{"3502-LU-31072002-00011", "", false},
	}
	for _, tt := range tests {
		got, err := Field(field(domain.KindCertificateCode), tt.raw)
		if tt.valid {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("%q: got %q, want %q", tt.raw, got, tt.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q: expected error", tt.raw)
		}
	}
}

func TestUnknownKindIsRejected(t *testing.T) {
	if _, ok := RuleFor(domain.FieldKind(99)); ok {
		t.Fatalf("expected no rule for unknown kind")
	}
	_, err := Field(field(domain.FieldKind(99)), "x")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
