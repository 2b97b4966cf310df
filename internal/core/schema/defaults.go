package schema

import "github.com/kirillkom/scan-uploader/internal/core/domain"

var (
	physicalRefField = domain.FieldDefinition{
		Name:        "noFisik",
		Label:       "Nomor Fisik",
		Kind:        domain.KindPhysicalRef,
		Placeholder: "Masukkan nomor fisik",
		CarryOver:   true,
	}
	nationalIDField = domain.FieldDefinition{
		Name:        "nik",
		Label:       "NIK",
		Kind:        domain.KindNationalID,
		Placeholder: "16 digit angka",
	}
)

// DefaultCategories are the document categories served by the civil registry archive API.
func DefaultCategories() []domain.CategoryDefinition {
	return []domain.CategoryDefinition{
		{
			Name:         "Akta Kelahiran",
			EndpointSlug: "akta-kelahiran",
			Fields: []domain.FieldDefinition{
				{
					Name:        "noAkta",
					Label:       "No. Akta",
					Kind:        domain.KindCertificateCode,
					Placeholder: "3502-LL-XXXXXXXX-XXXX",
				},
				physicalRefField,
			},
		},
		{
			Name:         "Akta Kematian",
			EndpointSlug: "akta-kematian",
			Fields: []domain.FieldDefinition{
				{
					Name:        "noAkta",
					Label:       "Nomor Akta Kematian",
					Kind:        domain.KindText,
					Placeholder: "Masukkan nomor akta",
				},
				physicalRefField,
			},
		},
		{
			Name:         "Surat Kehilangan",
			EndpointSlug: "surat-kehilangan",
			Fields: []domain.FieldDefinition{
				nationalIDField,
				{
					Name:        "tanggal",
					Label:       "Tanggal",
					Kind:        domain.KindDate,
					Placeholder: "YYYY-MM-DD",
				},
				physicalRefField,
			},
		},
		{
			Name:         "Surat Permohonan Pindah",
			EndpointSlug: "surat-permohonan-pindah",
			Fields:       []domain.FieldDefinition{nationalIDField, physicalRefField},
		},
		{
			Name:         "Surat Perubahan Kependudukan",
			EndpointSlug: "surat-perubahan-kependudukan",
			Fields:       []domain.FieldDefinition{nationalIDField, physicalRefField},
		},
	}
}

func Default() *Registry {
	return MustNew(DefaultCategories()...)
}
