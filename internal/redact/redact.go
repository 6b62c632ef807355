// Package redact removes credentials and other sensitive fragments from
// strings before they are logged or returned in error responses. Remote
// errors often echo request URLs, which may carry basic-auth userinfo or
// token query parameters.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

// Redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// sensitiveParams are query parameter names whose values are never logged.
var sensitiveParams = []string{"token", "access_token", "api_key", "apikey", "key", "secret", "password", "signature"}

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Applied in order; URL credentials go first so the scheme and host survive.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.-]*://)[^/\s:@]+:[^/\s@]+@`), "${1}" + RedactedCredentialPlaceholder + "@"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)(bearer|basic)\s+[A-Za-z0-9_\-.~+/=]{8,}`), "${1} " + RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|access[_-]?token|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},
	{regexp.MustCompile(`(/[\w.-]+){2,}\.(?:go|yaml|yml|pem|key)\b`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// URL returns raw with userinfo and sensitive query values replaced. Input
// that does not parse as a URL goes through String instead.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return String(raw)
	}

	if u.User != nil {
		u.User = url.User(RedactionPlaceholder)
	}

	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			for _, sensitive := range sensitiveParams {
				if strings.EqualFold(name, sensitive) {
					q.Set(name, RedactionPlaceholder)
				}
			}
		}
		u.RawQuery = q.Encode()
	}

	// Encode escapes the placeholder brackets; keep them readable
	s := u.String()
	s = strings.ReplaceAll(s, url.QueryEscape(RedactionPlaceholder), RedactionPlaceholder)
	return strings.ReplaceAll(s, url.PathEscape(RedactionPlaceholder), RedactionPlaceholder)
}
