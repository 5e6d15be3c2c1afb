package ai

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/airelay/internal/utils"
)

// ConfigError reports a provider misconfiguration detected before any
// network or disk activity: an unknown provider key, or a required adapter
// field (typically the API key) that is absent.
type ConfigError struct {
	Provider string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Provider == "" {
		return e.Reason
	}
	return fmt.Sprintf("provider %q: %s", e.Provider, e.Reason)
}

// maxErrorBodyLength caps how much of an error response body is echoed into
// the failure message delivered to the caller.
const maxErrorBodyLength = 500

// FormatTransportError builds the generic failure message for an HTTP error
// response, used when the adapter does not implement
// [TransportErrorReporter]. Bodies that look like HTML (reverse proxies and
// API gateways answer with error pages, not JSON) are rendered to markdown
// so the caller sees "502 Bad Gateway" instead of a wall of markup.
func FormatTransportError(status int, body []byte) string {
	text := strings.TrimSpace(string(body))

	if looksLikeHTML(text) {
		if markdown, err := htmltomarkdown.ConvertString(text); err == nil {
			text = strings.TrimSpace(markdown)
		}
	}

	if text == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return fmt.Sprintf("request failed with status %d: %s", status, utils.TruncateString(text, maxErrorBodyLength))
}

// looksLikeHTML is a cheap sniff for HTML error pages. It only needs to
// catch the markup that proxies actually emit, not validate HTML.
func looksLikeHTML(text string) bool {
	lowered := strings.ToLower(text)
	return strings.HasPrefix(lowered, "<!doctype html") ||
		strings.HasPrefix(lowered, "<html") ||
		strings.Contains(lowered, "<body")
}
