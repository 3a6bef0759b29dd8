package workflow

import (
	"regexp"
	"strings"
)

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
	// keep, when set, leaves a match untouched if it returns true for the match at text[start:end]
	keep func(text string, start, end int) bool
}

// Order matters: labelled lines go first so that their content is not partially redacted by the
// generic patterns.
var piiRedactions = []redaction{
	{
		pattern:     regexp.MustCompile(`(?im)^([ \t>*#-]*)(?:patient(?:\s+name)?|full\s+name|name)\s*:[^\n]*$`),
		replacement: "${1}Name: [REDACTED]",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(d\.?o\.?b\.?|date\s+of\s+birth|birth\s*date)(\s*[:\-]\s*)[^\n,;]+`),
		replacement: "${1}${2}[DOB]",
	},
	{
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		replacement: "[EMAIL]",
	},
	{
		pattern:     regexp.MustCompile(`\b[STFGMstfgm]\d{7}[A-Za-z]\b`),
		replacement: "[NRIC]",
	},
	{
		pattern:     regexp.MustCompile(`\+\d{1,3}[ \t-]?(?:\(\d{1,4}\)[ \t-]?)?\d{2,4}(?:[ \t-]?\d{2,4}){1,3}\b`),
		replacement: "[PHONE]",
	},
	{
		pattern: regexp.MustCompile(
			`(?i)\b(tel(?:ephone)?|phone|mobile|mob|fax|contact)\b(\.?(?:[ \t]*(?:no|number)\.?)?[ \t]*[:\-]?[ \t]*)(\(?\d[\d \t()-]{5,}\d)`),
		replacement: "${1}${2}[PHONE]",
	},
	// Singapore numbers: mobiles start with 8 or 9, landlines with 6
	{
		pattern:     regexp.MustCompile(`\b[689]\d{3}[ -]?\d{4}\b`),
		replacement: "[PHONE]",
		keep:        isNumericRange,
	},
}

var (
	rangeWordBefore = regexp.MustCompile(
		`(?i)\b(?:range|between|from|normal|reference|ref|target|approx(?:imately)?|about|around)\b[^\n.;]{0,20}$`)
	unitAfter = regexp.MustCompile(
		`(?i)^[ \t]*(?:%|/|mg|mcg|ug|µg|ng|pg|g/|mmol|umol|µmol|iu|u/l|ml|cells|bpm|mmhg|kcal|steps|units?)`)
)

const rangeContextLength = 40

// isNumericRange tells whether a dashed 8 digit match such as "6000-8000" reads as a range of values.
func isNumericRange(text string, start, end int) bool {
	if !strings.Contains(text[start:end], "-") {
		return false
	}
	before := text[max(0, start-rangeContextLength):start]
	return rangeWordBefore.MatchString(before) || unitAfter.MatchString(text[end:])
}

func (r redaction) apply(text string) string {
	if r.keep == nil {
		return r.pattern.ReplaceAllString(text, r.replacement)
	}

	var out strings.Builder
	last := 0
	for _, match := range r.pattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := match[0], match[1]
		if r.keep(text, start, end) {
			continue
		}
		out.WriteString(text[last:start])
		out.Write(r.pattern.ExpandString(nil, r.replacement, text, match))
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

// RedactPii replaces personal identifiers found in a medical document or an answer with placeholders.
func RedactPii(text string) string {
	for _, r := range piiRedactions {
		text = r.apply(text)
	}
	return text
}
