package parser

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// defaultPolicy strips all markup from labels and descriptions.
func defaultPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// plainText removes markup and decodes the entities the policy escapes.
func plainText(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if policy != nil {
		trimmed = html.UnescapeString(policy.Sanitize(trimmed))
	}
	return strings.TrimSpace(trimmed)
}
