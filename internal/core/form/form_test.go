package form

import (
	"errors"
	"testing"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/core/schema"
)

var minimalValid = map[domain.FieldKind]string{
	domain.KindText:            "AK-001",
	domain.KindNationalID:      "1234567890123456",
	domain.KindDate:            "2024-01-31",
	domain.KindPhysicalRef:     "rak-7",
	domain.KindCertificateCode: "3502-LU-31072002-0001",
}

func fill(t *testing.T, f *Form) {
	t.Helper()
	for _, field := range f.Fields() {
		if err := f.SetField(field.Name, minimalValid[field.Kind]); err != nil {
			t.Fatalf("SetField(%q) error = %v", field.Name, err)
		}
	}
}

func TestEveryCategoryAcceptsMinimallyValidValues(t *testing.T) {
	reg := schema.Default()
	f := New(reg)
	for _, name := range reg.Names() {
		if err := f.SelectCategory(name); err != nil {
			t.Fatalf("SelectCategory(%q) error = %v", name, err)
		}
		fill(t, f)
		payload, err := f.BuildPayload()
		if err != nil {
			t.Fatalf("category %q: BuildPayload() error = %v", name, err)
		}
		if len(payload) != len(f.Fields()) {
			t.Fatalf("category %q: payload has %d fields", name, len(payload))
		}
		if payload["noFisik"] != "RAK-7" {
			t.Fatalf("category %q: expected uppercased noFisik, got %q", name, payload["noFisik"])
		}
	}
}

func TestEmptyFieldNamesThatField(t *testing.T) {
	reg := schema.Default()
	f := New(reg)
	for _, name := range reg.Names() {
		_ = f.SelectCategory(name)
		for _, target := range f.Fields() {
			fill(t, f)
			_ = f.SetField(target.Name, "  ")

			_, err := f.BuildPayload()
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("category %q field %q: expected ValidationError, got %v", name, target.Name, err)
			}
			if verr.Field != target.Label || verr.Reason != "is required" {
				t.Fatalf("category %q field %q: got %+v", name, target.Name, verr)
			}
		}
	}
}

func TestFirstFailureWins(t *testing.T) {
	f := New(schema.Default())
	_ = f.SelectCategory("Surat Kehilangan")
	_ = f.SetField("nik", "123")
	_ = f.SetField("tanggal", "31-01-2024")

	_, err := f.BuildPayload()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "NIK" {
		t.Fatalf("expected NIK failure first, got %v", err)
	}
}

func TestSelectCategoryDiscardsPreviousValues(t *testing.T) {
	f := New(schema.Default())
	_ = f.SelectCategory("Surat Permohonan Pindah")
	_ = f.SetField("nik", "1234567890123456")
	_ = f.SetField("noFisik", "A1")

	if err := f.SelectCategory("Surat Perubahan Kependudukan"); err != nil {
		t.Fatalf("SelectCategory() error = %v", err)
	}
	if f.Value("nik") != "" || f.Value("noFisik") != "" {
		t.Fatalf("values leaked across categories")
	}
}

func TestSelectUnknownCategoryKeepsState(t *testing.T) {
	f := New(schema.Default())
	_ = f.SelectCategory("Akta Kematian")
	_ = f.SetField("noAkta", "X")

	err := f.SelectCategory("Kartu Keluarga")
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if cat, _ := f.Category(); cat.Name != "Akta Kematian" || f.Value("noAkta") != "X" {
		t.Fatalf("failed selection must not alter the form")
	}
}

func TestSetFieldUnknownField(t *testing.T) {
	f := New(schema.Default())
	if err := f.SetField("nik", "x"); !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField without category, got %v", err)
	}
	_ = f.SelectCategory("Akta Kelahiran")
	if err := f.SetField("nik", "x"); !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestBuildPayloadWithoutCategory(t *testing.T) {
	_, err := New(schema.Default()).BuildPayload()
	if !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestInputRunsLiveFormatterOnlyOnCodeField(t *testing.T) {
	f := New(schema.Default())
	_ = f.SelectCategory("Akta Kelahiran")

	value, cursor, err := f.Input("noAkta", "3502l", 5)
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if value != "3502-L" || cursor != 6 || f.Value("noAkta") != "3502-L" {
		t.Fatalf("got %q cursor=%d stored=%q", value, cursor, f.Value("noAkta"))
	}

	value, _, _ = f.Input("noFisik", "rak-1", 5)
	if value != "rak-1" {
		t.Fatalf("plain field must not be reshaped, got %q", value)
	}
}

func TestResetAfterUploadKeepsCarryOver(t *testing.T) {
	f := New(schema.Default())
	_ = f.SelectCategory("Akta Kelahiran")
	fill(t, f)
	payload, err := f.BuildPayload()
	if err != nil {
		t.Fatalf("BuildPayload() error = %v", err)
	}

	f.ResetAfterUpload(payload)

	if f.Value("noAkta") != "" {
		t.Fatalf("expected noAkta cleared, got %q", f.Value("noAkta"))
	}
	if f.Value("noFisik") != "RAK-7" {
		t.Fatalf("expected carried noFisik RAK-7, got %q", f.Value("noFisik"))
	}

	// the formatter baseline is cleared too, so typing starts fresh
	value, _, _ := f.Input("noAkta", "3502L", 5)
	if value != "3502-L" {
		t.Fatalf("expected fresh formatting after reset, got %q", value)
	}
}
