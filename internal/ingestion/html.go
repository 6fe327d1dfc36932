// Package ingestion converts uploaded or pasted resumes into the
// section-addressable plain-text representation the scoring engine consumes.
package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// sectionAliases maps heading text fragments to canonical section ids.
// Matching is case-insensitive substring matching on heading text, checked
// in map-independent order per heading via the ordered alias list below.
type sectionAlias struct {
	Fragment string
	ID       string
}

// Ordered so that more specific fragments are tried first ("work
// experience" before "experience" would be redundant; "professional
// summary" resolves through "summary").
var sectionAliases = []sectionAlias{
	{"experience", "experience"},
	{"employment", "experience"},
	{"work history", "experience"},
	{"education", "education"},
	{"skill", "skills"},
	{"technolog", "skills"},
	{"project", "projects"},
	{"certification", "certifications"},
	{"license", "certifications"},
	{"summary", "summary"},
	{"objective", "summary"},
	{"about", "summary"},
	{"profile", "summary"},
}

// ExtractFromHTML parses an HTML resume and returns whole-document plain
// text plus per-section text keyed by canonical section ids. Headings
// (h1-h4, or elements with a resume-section class) open a section; content
// accumulates until the next heading. List items are rendered as "- "
// bullet lines so the section evaluator can detect them.
func ExtractFromHTML(htmlContent string) (types.ResumeContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return types.ResumeContent{}, &HTMLParseError{Cause: err}
	}

	// Strip non-content elements before extracting text
	doc.Find("script, style, noscript").Remove()

	sections := make(map[string]string)
	current := ""
	var currentText strings.Builder

	flush := func() {
		if current == "" {
			return
		}
		text := CleanText(currentText.String())
		if text != "" {
			if existing, ok := sections[current]; ok && existing != "" {
				text = existing + "\n" + text
			}
			sections[current] = text
		}
		currentText.Reset()
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	body.Find("h1, h2, h3, h4, p, ul, ol, div").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		switch tag {
		case "h1", "h2", "h3", "h4":
			heading := strings.TrimSpace(sel.Text())
			if id := canonicalSectionID(heading); id != "" {
				flush()
				current = id
				return
			}
			// Non-section headings (the candidate's name, job titles)
			// belong to the open section.
			if current != "" && heading != "" {
				currentText.WriteString(heading)
				currentText.WriteString("\n")
			}
		case "ul", "ol":
			if current == "" {
				return
			}
			sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				line := strings.TrimSpace(li.Text())
				if line != "" {
					currentText.WriteString("- ")
					currentText.WriteString(line)
					currentText.WriteString("\n")
				}
			})
		case "p":
			if current == "" {
				return
			}
			line := strings.TrimSpace(sel.Text())
			if line != "" {
				currentText.WriteString(line)
				currentText.WriteString("\n")
			}
		case "div":
			// Divs only contribute when they are leaf-level text holders;
			// container divs are covered by their children.
			if current == "" || sel.Children().Length() > 0 {
				return
			}
			line := strings.TrimSpace(sel.Text())
			if line != "" {
				currentText.WriteString(line)
				currentText.WriteString("\n")
			}
		}
	})
	flush()

	fullText := CleanText(doc.Text())
	if fullText == "" && len(sections) == 0 {
		return types.ResumeContent{}, &EmptyContentError{}
	}

	return types.ResumeContent{Text: fullText, Sections: sections}, nil
}

// FromPlainText wraps already-plain resume text, splitting sections on
// heading-like lines (short lines matching a known section alias).
func FromPlainText(text string) types.ResumeContent {
	cleaned := CleanText(text)
	sections := make(map[string]string)

	current := ""
	var currentText strings.Builder
	flush := func() {
		if current == "" {
			return
		}
		body := strings.TrimSpace(currentText.String())
		if body != "" {
			if existing, ok := sections[current]; ok && existing != "" {
				body = existing + "\n" + body
			}
			sections[current] = body
		}
		currentText.Reset()
	}

	for _, line := range strings.Split(cleaned, "\n") {
		trimmed := strings.TrimSpace(line)
		if looksLikeHeading(trimmed) {
			if id := canonicalSectionID(trimmed); id != "" {
				flush()
				current = id
				continue
			}
		}
		if current != "" {
			currentText.WriteString(line)
			currentText.WriteString("\n")
		}
	}
	flush()

	return types.ResumeContent{Text: cleaned, Sections: sections}
}

// canonicalSectionID resolves heading text to a canonical section id, or
// "" when the heading is not a known resume section.
func canonicalSectionID(heading string) string {
	normalized := strings.ToLower(strings.TrimSpace(heading))
	if normalized == "" || len(normalized) > 60 {
		return ""
	}
	for _, alias := range sectionAliases {
		if strings.Contains(normalized, alias.Fragment) {
			return alias.ID
		}
	}
	return ""
}

// looksLikeHeading reports whether a plain-text line is plausibly a section
// heading: short, no sentence punctuation, not a bullet.
func looksLikeHeading(line string) bool {
	if line == "" || len(line) > 40 {
		return false
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return false
	}
	return !strings.ContainsAny(line, ".,;")
}
