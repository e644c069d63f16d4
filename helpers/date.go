package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the normalized publication date format
const DateLayout = "2006-01-02"

// DateOrder tells which capture group holds which date component
type DateOrder int

const (
	OrderYMD DateOrder = iota
	OrderMDY
)

// DatePattern is an absolute date pattern with three capture groups
type DatePattern struct {
	Regexp *regexp.Regexp
	Order  DateOrder
}

// RelativePattern resolves phrases like "3시간 전" against the clock. When
// the expression has a capture group it holds the number of Units; otherwise
// the phrase counts as a single Unit.
type RelativePattern struct {
	Regexp *regexp.Regexp
	Unit   time.Duration
}

var (
	// DefaultDatePatterns are tried in order; the first that yields a real
	// calendar date wins
	DefaultDatePatterns = []DatePattern{
		{Regexp: regexp.MustCompile(`(\d{4})\s*[-./년 ]\s*(\d{1,2})\s*[-./월 ]\s*(\d{1,2})`), Order: OrderYMD},
		{Regexp: regexp.MustCompile(`\b(\d{4})(\d{2})(\d{2})\b`), Order: OrderYMD},
		{Regexp: regexp.MustCompile(`\b(\d{1,2})[-./ ](\d{1,2})[-./ ]\s*(\d{4})\b`), Order: OrderMDY},
	}

	// DefaultLabelledDatePatterns match the "입력 2026-02-23" style stamps
	// printed on article pages
	DefaultLabelledDatePatterns = []DatePattern{
		{Regexp: regexp.MustCompile(`(?:기사입력|입력|승인|등록)\s*:?\s*(\d{4})\s*[-./년 ]\s*(\d{1,2})\s*[-./월 ]\s*(\d{1,2})`), Order: OrderYMD},
	}

	DefaultRelativePatterns = []RelativePattern{
		{Regexp: regexp.MustCompile(`(\d+)\s*분\s*전`), Unit: time.Minute},
		{Regexp: regexp.MustCompile(`(?i)(\d+)\s*min(?:ute)?s?\s+ago`), Unit: time.Minute},
		{Regexp: regexp.MustCompile(`(\d+)\s*시간\s*전`), Unit: time.Hour},
		{Regexp: regexp.MustCompile(`(?i)(\d+)\s*hours?\s+ago`), Unit: time.Hour},
		{Regexp: regexp.MustCompile(`(\d+)\s*일\s*전`), Unit: 24 * time.Hour},
		{Regexp: regexp.MustCompile(`(?i)(\d+)\s*days?\s+ago`), Unit: 24 * time.Hour},
		{Regexp: regexp.MustCompile(`(?i)어제|yesterday`), Unit: 24 * time.Hour},
		{Regexp: regexp.MustCompile(`(?i)방금|just now`), Unit: 0},
	}

	bracketedTime = regexp.MustCompile(`\[\s*\d{1,2}:\d{2}(?::\d{2})?\s*\]`)
)

// DateParser normalizes free-text dates to YYYY-MM-DD
type DateParser struct {
	Patterns         []DatePattern
	LabelledPatterns []DatePattern
	Relative         []RelativePattern
	Now              func() time.Time
}

// NewDateParser returns a parser with the default pattern tables
func NewDateParser() *DateParser {
	return &DateParser{
		Patterns:         DefaultDatePatterns,
		LabelledPatterns: DefaultLabelledDatePatterns,
		Relative:         DefaultRelativePatterns,
		Now:              time.Now,
	}
}

func (p *DateParser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Normalize converts a listing or byline date string. Bracketed time
// suffixes are dropped, relative phrases resolve against Now, then the
// absolute patterns are tried in order. ok is false when nothing matched.
func (p *DateParser) Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\n", " "))
	s = bracketedTime.ReplaceAllString(s, "")
	if s == "" {
		return "", false
	}

	for _, rel := range p.Relative {
		m := rel.Regexp.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n := 1
		if len(m) > 1 {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			n = v
		}
		return p.now().Add(-time.Duration(n) * rel.Unit).Format(DateLayout), true
	}

	return matchPatterns(p.Patterns, s)
}

// Extract finds the first absolute date in free text such as a whole
// article page. Labelled stamps are preferred; relative phrases are ignored.
func (p *DateParser) Extract(text string) (string, bool) {
	if date, ok := matchPatterns(p.LabelledPatterns, text); ok {
		return date, true
	}
	return matchPatterns(p.Patterns, text)
}

// Before reports whether date a is earlier than date b. Both must be in
// DateLayout; an empty date is never before anything.
func Before(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a < b
}

func matchPatterns(patterns []DatePattern, s string) (string, bool) {
	for _, pattern := range patterns {
		for _, m := range pattern.Regexp.FindAllStringSubmatch(s, -1) {
			if len(m) < 4 {
				continue
			}
			var y, mo, d string
			switch pattern.Order {
			case OrderMDY:
				mo, d, y = m[1], m[2], m[3]
			default:
				y, mo, d = m[1], m[2], m[3]
			}
			if date, ok := calendarDate(y, mo, d); ok {
				return date, true
			}
		}
	}
	return "", false
}

func calendarDate(y, m, d string) (string, bool) {
	year, err1 := strconv.Atoi(y)
	month, err2 := strconv.Atoi(m)
	day, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
