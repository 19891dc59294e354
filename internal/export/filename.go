package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Sanitize maps every non-alphanumeric rune to an underscore so organization
// names are safe in filenames. Runs of punctuation collapse rune-for-rune, the
// same way the download names have always been built.
func Sanitize(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Filename builds "<base>_<Org>_<YYYY-MM-DD>.<ext>". Organization is optional;
// when empty the segment is dropped.
func Filename(base, organization, ext string, now time.Time) string {
	date := now.UTC().Format("2006-01-02")
	if organization == "" {
		return fmt.Sprintf("%s_%s.%s", base, date, ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", base, Sanitize(organization), date, ext)
}
