package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpacePattern = regexp.MustCompile(`[ \t]+`)
	blankRunPattern   = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes resume text while preserving line structure:
// CRLF to LF, trailing whitespace stripped, runs of spaces collapsed,
// and at most two consecutive blank lines.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)
		trimmed = multiSpacePattern.ReplaceAllString(trimmed, " ")
		if indent > 0 && trimmed != "" {
			trimmed = strings.Repeat(" ", indent) + trimmed
		}
		cleaned = append(cleaned, trimmed)
	}

	result := strings.Join(cleaned, "\n")
	result = blankRunPattern.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
