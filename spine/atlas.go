package spine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical header values written regardless of the exported ones.
const (
	CanonicalFormat = "format: RGBA8888"
	CanonicalRepeat = "repeat: none"
	CanonicalRotate = "  rotate: false"
)

var (
	headerPattern = regexp.MustCompile(`size:|format:|filter:|repeat:`)
	regionPattern = regexp.MustCompile(`xy:|size:|orig:|offset:|index:`)
)

type atlasState struct {
	headerClosed bool
	sawImage     bool
	lines        []string
}

// NormalizeAtlas rewrites exported atlas text into the dialect the runtime
// atlas reader accepts. Only the first page image line is kept.
func NormalizeAtlas(raw string) string {
	state := atlasState{}
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		state = state.next(line)
	}
	return "\n" + strings.Join(state.lines, "\n") + "\n"
}

func (s atlasState) next(line string) atlasState {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return s
	}

	if strings.Contains(line, ".png") {
		if !s.sawImage {
			s.sawImage = true
			s.lines = append(s.lines, trimmed)
		}
		return s
	}

	if !s.headerClosed && headerPattern.MatchString(line) {
		if strings.Contains(line, "size:") {
			s.lines = append(s.lines, trimmed)
		}
		if strings.Contains(line, "format:") {
			s.lines = append(s.lines, CanonicalFormat)
		}
		if strings.Contains(line, "filter:") {
			s.lines = append(s.lines, NormalizeFilter(trimmed))
			s.headerClosed = true
		}
		if strings.Contains(line, "repeat:") {
			s.lines = append(s.lines, CanonicalRepeat)
		}
		return s
	}

	// format and repeat are page-only keys; they keep their canonical
	// values even after the first page header is closed.
	switch {
	case strings.Contains(line, "rotate:"):
		s.lines = append(s.lines, CanonicalRotate)
	case strings.Contains(line, "format:"):
		s.lines = append(s.lines, CanonicalFormat)
	case strings.Contains(line, "repeat:"):
		s.lines = append(s.lines, CanonicalRepeat)
	case regionPattern.MatchString(line):
		s.lines = append(s.lines, "  "+trimmed)
	default:
		s.lines = append(s.lines, trimmed)
	}
	return s
}

// NormalizeFilter canonicalizes the value of a "filter:" line,
// e.g. "filter: linear,nearest_mipmap" -> "filter: Linear, NearestMipmap".
// Lines it does not understand are returned unchanged.
func NormalizeFilter(line string) string {
	if !strings.HasPrefix(line, "filter:") {
		return line
	}
	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return line
	}

	values := strings.Split(strings.TrimSpace(parts[1]), ",")
	for i, v := range values {
		words := strings.Split(strings.TrimSpace(v), "_")
		for j, w := range words {
			words[j] = capitalize(w)
		}
		values[i] = strings.Join(words, "")
	}
	return "filter: " + strings.Join(values, ", ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	_, n := utf8.DecodeRuneInString(word)
	return cases.Upper(language.Und).String(word[:n]) + cases.Lower(language.Und).String(word[n:])
}
