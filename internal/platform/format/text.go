package format

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSuffix is appended to shortened text.
const DefaultSuffix = "..."

// excerptBreakRatio is how far into the limit a word break must be to be used.
const excerptBreakRatio = 0.8

var (
	upperRune    = regexp.MustCompile(`([A-Z])`)
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	slugSepRuns  = regexp.MustCompile(`[\s_-]+`)
	edgeHyphens  = regexp.MustCompile(`^-+|-+$`)
)

// Truncate cuts text to maxLength characters and appends "..." when it had
// to cut.
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	return string(runes[:max(maxLength, 0)]) + DefaultSuffix
}

// Capitalize upper-cases the first character.
func Capitalize(text string) string {
	if text == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(text)

	return strings.ToUpper(string(r)) + text[size:]
}

// CapitalizeWords capitalizes every space separated word. Runs of spaces are
// kept as they are.
func CapitalizeWords(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		words[i] = Capitalize(w)
	}

	return strings.Join(words, " ")
}

// SnakeToTitle turns "glory_reward" into "Glory Reward".
func SnakeToTitle(text string) string {
	return CapitalizeWords(strings.ReplaceAll(text, "_", " "))
}

// CamelToTitle turns "xpReward" into "Xp Reward".
func CamelToTitle(text string) string {
	return CapitalizeWords(strings.TrimSpace(upperRune.ReplaceAllString(text, " $1")))
}

// Initials returns up to maxInitials upper-case initials of name.
func Initials(name string, maxInitials int) string {
	var b strings.Builder

	count := 0
	for _, word := range strings.Split(name, " ") {
		if word == "" {
			continue
		}

		if count == maxInitials {
			break
		}

		r, _ := utf8.DecodeRuneInString(word)
		b.WriteString(strings.ToUpper(string(r)))
		count++
	}

	return b.String()
}

// Pluralize returns word for a count of exactly one and the plural form
// otherwise. An empty plural defaults to word + "s".
func Pluralize(word string, count int, plural string) string {
	if count == 1 {
		return word
	}

	if plural != "" {
		return plural
	}

	return word + "s"
}

// Slugify builds a URL-safe slug: "Hello, World! " -> "hello-world".
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSepRuns.ReplaceAllString(s, "-")

	return edgeHyphens.ReplaceAllString(s, "")
}

// Excerpt shortens text to maxLength characters plus suffix. It backs up to
// the last space only when that space lies past 80% of maxLength, otherwise
// it cuts mid-word. Text within the limit is returned unchanged.
func Excerpt(text string, maxLength int, suffix string) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	cut := runes[:max(maxLength, 0)]

	lastSpace := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			lastSpace = i
			break
		}
	}

	if float64(lastSpace) > float64(maxLength)*excerptBreakRatio {
		return string(cut[:lastSpace]) + suffix
	}

	return string(cut) + suffix
}
