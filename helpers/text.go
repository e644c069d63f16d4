package helpers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultNoiseKeywords drop boilerplate lines found on most regional sites
var DefaultNoiseKeywords = []string{
	"무단전재", "재배포 금지", "재배포금지", "저작권자", "Copyright", "ⓒ", "©",
	"구독신청", "기사제보", "광고문의", "관련기사", "많이 본 뉴스",
}

var (
	urlPattern        = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// DefaultWriterPatterns find bylines; group 1 is the name
	DefaultWriterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([가-힣]{2,4})\s*(?:선임기자|수습기자|기자)`),
		regexp.MustCompile(`([가-힣]{2,4})\s*(?:특파원|논설위원|객원기자)`),
		regexp.MustCompile(`기자\s*[:：]?\s*([가-힣]{2,4})`),
	}
)

// ContentCleaner is the post-processing applied to every extracted body
type ContentCleaner struct {
	NoiseKeywords []string
	MinLineLength int
}

// Clean strips URLs and emails, collapses whitespace per line, and drops
// lines that are too short or contain a noise keyword. The keyword check runs
// last so no returned line ever contains one.
func (c ContentCleaner) Clean(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = urlPattern.ReplaceAllString(line, " ")
		line = emailPattern.ReplaceAllString(line, " ")
		line = strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) < c.MinLineLength {
			continue
		}
		if c.IsNoise(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// IsNoise reports whether line contains any of the cleaner's keywords
func (c ContentCleaner) IsNoise(line string) bool {
	for _, keyword := range c.NoiseKeywords {
		if keyword != "" && strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}

// ExtractWriter returns the first byline name matched by patterns, or ""
func ExtractWriter(text string, patterns []*regexp.Regexp) string {
	if len(patterns) == 0 {
		patterns = DefaultWriterPatterns
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
