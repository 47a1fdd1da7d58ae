// Package sanitize cleans user-authored text before it is embedded in a model prompt.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLength is the rune cap applied to sanitized text.
const MaxLength = 1000

// Marker replaces every recognized override phrase.
const Marker = "[removido]"

var overridePhrases = []string{
	`ignore\s+(?:all\s+)?(?:the\s+)?previous\s+instructions?`,
	`ignore\s+(?:all\s+)?(?:the\s+)?above\s+instructions?`,
	`disregard\s+(?:all\s+)?(?:the\s+)?previous(?:\s+instructions?)?`,
	`forget\s+(?:all\s+)?(?:your\s+|the\s+)?(?:previous\s+)?instructions?`,
	`you\s+are\s+now`,
	`new\s+instructions?\s*:`,
	`system\s+prompt`,
	`ignore\s+(?:todas\s+)?(?:as\s+)?instruç(?:ões|ão)\s+anteriores?`,
	`desconsidere\s+(?:todas\s+)?(?:as\s+)?instruç(?:ões|ão)(?:\s+anteriores?)?`,
	`esqueça\s+(?:todas\s+)?(?:as\s+)?(?:suas\s+)?instruç(?:ões|ão)`,
	`você\s+agora\s+é`,
	`novas?\s+instruç(?:ões|ão)\s*:`,
}

var overrideRe = regexp.MustCompile(`(?i)(?:` + strings.Join(overridePhrases, `|`) + `)`)

var angleReplacer = strings.NewReplacer("<", "", ">", "")

// Text removes angle brackets, replaces known instruction-override phrases with
// Marker and truncates the result to MaxLength runes. Applying it twice yields
// the same result as applying it once.
func Text(s string) string {
	s = angleReplacer.Replace(s)
	s = overrideRe.ReplaceAllString(s, Marker)

	return truncate(s, MaxLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)

	return string(runes[:n])
}
