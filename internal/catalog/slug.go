package catalog

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// asciiSlug transliterates a display name into an ASCII folder name:
// Han runes become pinyin syllables, ASCII letters and digits pass
// through, everything else separates. An empty result falls back to the
// caller's default.
func asciiSlug(name string) string {
	args := pinyin.NewArgs()
	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			if syllables := pinyin.SinglePinyin(r, args); len(syllables) > 0 {
				parts = append(parts, syllables[0])
			}
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			current.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			current.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()
	return strings.Join(parts, "-")
}
