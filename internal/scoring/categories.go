// Package scoring implements the incremental ATS score simulation engine:
// heuristic classifiers for suggestions and keywords, point-impact
// calculators, and the aggregate score computation with diminishing returns.
package scoring

import "regexp"

// Per-category weights for suggestion severity and point impact.
// Unknown categories fall back to defaultCategoryWeight.
var suggestionCategoryWeights = map[string]float64{
	"structure":  0.8,
	"content":    0.7,
	"skills":     0.9,
	"formatting": 0.5,
	"language":   0.4,
	"keywords":   0.8,
	"ats":        0.9,
}

const defaultCategoryWeight = 0.6

// severityWord maps an indicator word found in a suggestion's impact
// description to a severity value on the 1-10 scale.
type severityWord struct {
	Word  string
	Value int
}

// severityWords is scanned in order and the first match wins. The order is
// part of the scoring contract: do not sort or reorder entries, since a
// description containing several indicators must resolve to the earliest
// entry in this list.
var severityWords = []severityWord{
	{"critical", 10},
	{"crucial", 9},
	{"essential", 9},
	{"significant", 8},
	{"substantial", 8},
	{"major", 7},
	{"important", 7},
	{"considerable", 6},
	{"notable", 6},
	{"moderate", 5},
	{"helpful", 4},
	{"useful", 4},
	{"minor", 3},
	{"small", 3},
	{"slight", 1},
	{"minimal", 1},
}

// quantifiablePattern matches descriptions that promise a measurable gain:
// percentages, multipliers, or explicit "increases by N" phrasing.
var quantifiablePattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?\s*%|\bdoubles?\b|\btriples?\b|\bincreases?\s+by\s+\d+)`)

// atsTermPattern matches references to ATS-specific mechanics.
var atsTermPattern = regexp.MustCompile(`(?i)\b(ats|applicant tracking|parser|algorithm|scan)`)

// Keyword categories in cascade priority order. The first pattern that
// matches the keyword text determines its category; anything unmatched is
// "general".
const (
	CategoryTechnical  = "technical"
	CategorySoftSkill  = "soft-skill"
	CategoryActionVerb = "action-verb"
	CategoryIndustry   = "industry-specific"
	CategoryGeneral    = "general"
)

// keywordPattern pairs a category with the pattern that recognizes it.
type keywordPattern struct {
	Category string
	Pattern  *regexp.Regexp
}

// keywordCascade is evaluated top to bottom, first match wins. Order
// matters: "problem-solving" must classify as a soft skill even though
// "solving" could be read as a verb, so soft skills are checked before
// action verbs.
//
// The trailing \b never matches after a symbol, so terms ending in a
// non-word character ("c++", "c#") classify as general unless followed by
// a word character.
var keywordCascade = []keywordPattern{
	{CategoryTechnical, regexp.MustCompile(`(?i)\b(python|javascript|typescript|java|golang|go|c\+\+|c#|ruby|php|swift|kotlin|rust|scala|sql|nosql|postgresql|mysql|mongodb|redis|aws|azure|gcp|docker|kubernetes|terraform|react|angular|vue|node(\.js)?|django|flask|spring|graphql|rest(ful)?\s?api|api|git|ci/cd|linux|html|css|machine learning|deep learning|data analysis|cloud|microservices|etl)\b`)},
	{CategorySoftSkill, regexp.MustCompile(`(?i)\b(leadership|communication|teamwork|collaboration|collaborative|problem[\s-]solving|adaptability|adaptable|creativity|creative|time management|critical thinking|interpersonal|organizational|organized|mentoring|mentorship|negotiation|empathy)\b`)},
	{CategoryActionVerb, regexp.MustCompile(`(?i)\b(managed|led|developed|implemented|designed|created|built|launched|improved|increased|reduced|delivered|achieved|spearheaded|orchestrated|streamlined|optimized|coordinated|executed|automated|architected|drove|initiated)\b`)},
	{CategoryIndustry, regexp.MustCompile(`(?i)\b(agile|scrum|kanban|devops|sre|fintech|healthcare|saas|b2b|b2c|e-?commerce|compliance|regulatory|stakeholder|roi|kpi|okr|crm|erp|seo|sem|analytics|go-to-market|supply chain)\b`)},
}

// Per-category base weights for keyword impact.
var keywordCategoryWeights = map[string]float64{
	CategoryTechnical:  0.9,
	CategoryIndustry:   0.8,
	CategorySoftSkill:  0.6,
	CategoryActionVerb: 0.5,
	CategoryGeneral:    0.4,
}

// alreadyPresentPenalty is subtracted from a keyword's weight when the
// resume already contains the term; inserting it again adds little.
const alreadyPresentPenalty = 0.3
