package normalize

import (
	"strings"
	"unicode"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

// CertificateCodeMaxChars is the number of alphanumerics in 0000-AA-00000000-0000.
const CertificateCodeMaxChars = 18

// group boundaries in the cleaned (dash-free) code
var certificateCodeGroups = []int{4, 6, 14, CertificateCodeMaxChars}

// LiveFormatter reshapes a field value on every keystroke.
type LiveFormatter interface {
	// Apply returns the value to display and the cursor position to restore.
	// changed reports whether the display must be replaced.
	Apply(raw string, cursor int) (value string, newCursor int, changed bool)
	Reset()
}

func NewLiveFormatter(kind domain.FieldKind) (LiveFormatter, bool) {
	switch kind {
	case domain.KindCertificateCode:
		return &CodeFormatter{}, true
	default:
		return nil, false
	}
}

// CodeFormatter inserts the dashes of a birth certificate number while the user types.
// A keystroke that shrinks the alphanumeric content is treated as a deletion and left alone,
// so dashes are never pushed back in while the user is erasing.
type CodeFormatter struct {
	last string
}

func (f *CodeFormatter) Apply(raw string, cursor int) (string, int, bool) {
	value := strings.ToUpper(raw)
	clean := alphanumerics(value)

	if len(clean) < len(alphanumerics(f.last)) {
		f.last = value
		return raw, cursor, false
	}

	formatted := formatCertificateCode(clean)
	f.last = formatted
	if formatted == raw {
		return raw, cursor, false
	}

	newCursor := cursor + (runeLen(formatted) - runeLen(raw))
	if newCursor > runeLen(formatted) {
		newCursor = runeLen(formatted)
	}
	if newCursor < 0 {
		newCursor = 0
	}
	return formatted, newCursor, true
}

func (f *CodeFormatter) Reset() {
	f.last = ""
}

// FormatCertificateCode applies the dash layout to any input in one pass.
func FormatCertificateCode(raw string) string {
	return formatCertificateCode(alphanumerics(strings.ToUpper(raw)))
}

func formatCertificateCode(clean []rune) string {
	if len(clean) > CertificateCodeMaxChars {
		clean = clean[:CertificateCodeMaxChars]
	}
	var b strings.Builder
	start := 0
	for i, end := range certificateCodeGroups {
		if len(clean) <= start {
			break
		}
		if i > 0 {
			b.WriteByte('-')
		}
		if end > len(clean) {
			end = len(clean)
		}
		b.WriteString(string(clean[start:end]))
		start = end
	}
	return b.String()
}

func alphanumerics(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
