package workspace

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// multiDot matches multiple consecutive dots.
var multiDot = regexp.MustCompile(`\.{2,}`)

// maxNameBytes keeps names under the common 255 byte filesystem limit.
const maxNameBytes = 200

// stripControl drops control and format runes that video titles sometimes carry.
var stripControl = runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}))

// SanitizeFilename makes a downloaded title safe to use as a file name.
// The result is NFC normalized so the same title always maps to the same
// bytes, whatever form the fetch tool produced.
func SanitizeFilename(name string) string {
	t := transform.Chain(norm.NFC, stripControl)
	if s, _, err := transform.String(t, name); err == nil {
		name = s
	}

	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimRight(strings.TrimSuffix(name, ext), " ") + ext
	}

	return truncateName(name)
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func truncateName(name string) string {
	if len(name) <= maxNameBytes {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	limit := maxNameBytes - len(ext)
	// Cut on a rune boundary.
	for limit > 0 && !utf8Start(stem[limit]) {
		limit--
	}
	return strings.TrimRight(stem[:limit], " .") + ext
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
