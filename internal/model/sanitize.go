package model

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce  sync.Once
	helpPolicy      *bluemonday.Policy
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// SanitizeHelpText strips schema descriptions down to a small inline-markup
// subset so they can be emitted inside form templates without escaping.
func SanitizeHelpText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

// SanitizeLabel reduces titles and labels to plain text.
func SanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(plainSanitizer().Sanitize(trimmed))
	return html.UnescapeString(cleaned)
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("a", "em", "strong", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		helpPolicy = policy
	})
	return helpPolicy
}

func plainSanitizer() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}
