package utils

import (
	"regexp"
	"strings"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	underscoreRuns      = regexp.MustCompile(`_+`)
)

// record files are named after hosts, which are short; longer names are cut on a rune boundary
const maxFilenameRunes = 100

// SanitizeFilename turns a host or business name into a file name stem usable on Windows and Unix.
// Returns "untitled" when nothing usable is left.
func SanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(name, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(TruncateRunes(strings.Trim(s, "_ "), maxFilenameRunes), "_ .")
	if s == "" {
		return "untitled"
	}
	return s
}
