// Package policy masks sensitive text before it leaves the service, either
// in replies or in logs.
package policy

import "regexp"

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`)
	cardPattern  = regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`)

	// Provider key shapes: Groq gsk_, Anthropic sk-ant-, OpenAI sk- / sk-proj-.
	apiKeyPattern = regexp.MustCompile(`\b(?:gsk_|sk-ant-|sk-proj-|sk-)[A-Za-z0-9_\-]{8,}`)
	bearerPattern = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._\-]{8,}`)
)

// RedactPII masks common high-risk PII patterns.
func RedactPII(input string) (redacted string, changed bool) {
	out := input

	next := emailPattern.ReplaceAllString(out, "[REDACTED_EMAIL]")
	changed = changed || next != out
	out = next

	// Card before phone, or long card numbers are taken for phone numbers.
	next = cardPattern.ReplaceAllString(out, "[REDACTED_CARD]")
	changed = changed || next != out
	out = next

	next = phonePattern.ReplaceAllString(out, "[REDACTED_PHONE]")
	changed = changed || next != out
	out = next

	return out, changed
}

// RedactSecrets masks credentials that upstream errors sometimes echo back.
func RedactSecrets(input string) string {
	out := bearerPattern.ReplaceAllString(input, "Bearer [REDACTED]")
	return apiKeyPattern.ReplaceAllString(out, "[REDACTED_KEY]")
}

// Preview returns at most n runes of input with PII masked, for log lines.
func Preview(input string, n int) string {
	out, _ := RedactPII(input)
	r := []rune(out)
	if n > 0 && len(r) > n {
		return string(r[:n]) + "..."
	}
	return out
}
