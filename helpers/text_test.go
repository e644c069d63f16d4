package helpers

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentCleaner_Clean(t *testing.T) {
	cleaner := ContentCleaner{NoiseKeywords: []string{"광고", "무단전재"}}

	input := strings.Join([]string{
		"  첫 번째   문단입니다.  ",
		"광고 배너",
		"",
		"자세한 내용은 https://example.com/news?id=1 참고",
		"문의 reporter@example.co.kr 로 연락",
		"<저작권자 무단전재 및 재배포 금지>",
	}, "\n")

	got := cleaner.Clean(input)
	assert.Equal(t, "첫 번째 문단입니다.\n자세한 내용은 참고\n문의 로 연락", got)
}

func TestContentCleaner_MinLineLength(t *testing.T) {
	cleaner := ContentCleaner{MinLineLength: 5}

	got := cleaner.Clean("짧음\n충분히 긴 문장입니다\n123")
	assert.Equal(t, "충분히 긴 문장입니다", got)
}

func TestContentCleaner_NoiseNeverSurvives(t *testing.T) {
	cleaner := ContentCleaner{NoiseKeywords: DefaultNoiseKeywords}

	input := "본문\nCopyright 2026 All rights\n관련기사 더보기\nⓒ 경기일보\n다음 문단"
	got := cleaner.Clean(input)

	for _, keyword := range DefaultNoiseKeywords {
		assert.NotContains(t, got, keyword)
	}
	assert.Equal(t, "본문\n다음 문단", got)
}

func TestContentCleaner_Empty(t *testing.T) {
	assert.Equal(t, "", ContentCleaner{}.Clean(""))
	assert.Equal(t, "", ContentCleaner{}.Clean("\n \n\t"))
}

func TestExtractWriter(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"byline", "승인 2026-02-23 김경희 기자", "김경희"},
		{"no space", "박민수기자 = 지역 경제가", "박민수"},
		{"correspondent", "이서연 특파원", "이서연"},
		{"label first", "기자: 정하늘", "정하늘"},
		{"none", "본문만 있습니다", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractWriter(tc.text, nil))
		})
	}
}

func TestExtractWriter_CustomPatterns(t *testing.T) {
	patterns := []*regexp.Regexp{regexp.MustCompile(`글\s*/\s*([가-힣]{2,4})`)}
	assert.Equal(t, "최유진", ExtractWriter("글 / 최유진", patterns))
	assert.Equal(t, "", ExtractWriter("김경희 기자", patterns))
}
