package logging

import "regexp"

// Redactor masks account identifiers embedded in log values. Audit records
// and log lines routinely carry ARNs; the account-ID segment is the part
// that must not leave the machine.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactPattern{
			// ARN account-ID segment: arn:aws:iam::123456789012:role/...
			{
				regex:       regexp.MustCompile(`(arn:aws[a-z\-]*:[a-z0-9\-]*:[a-z0-9\-]*:)\d{12}(:)`),
				replacement: "${1}************${2}",
			},
			// Bare 12-digit account IDs next to an account label.
			{
				regex:       regexp.MustCompile(`(account[-_ ]?(?:id)?[:=]\s*)\d{12}`),
				replacement: "${1}************",
			},
		},
	}
}

// RedactString masks all matches in the value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}
