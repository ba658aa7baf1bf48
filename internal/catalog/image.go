package catalog

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var absoluteURL = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// ResolveImage turns an attachment field into a displayable URL.
//
// The field is expected to be an array of attachment objects; only the first
// one is used. A signed URL (signedUrl, then signedPath) wins over a plain one
// (url, then path). Absolute values are returned as they are, relative ones are
// joined to base with exactly one slash. Anything else yields placeholder.
func ResolveImage(raw interface{}, base, placeholder string) string {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return placeholder
	}
	info, ok := list[0].(map[string]interface{})
	if !ok {
		return placeholder
	}
	if u := joinImageURL(base, firstString(info, "signedUrl", "signedPath")); u != "" {
		return u
	}
	if u := joinImageURL(base, firstString(info, "url", "path")); u != "" {
		return u
	}
	return placeholder
}

func joinImageURL(base, p string) string {
	if p == "" {
		return ""
	}
	if absoluteURL.MatchString(p) {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// firstString returns the first non-empty value among keys
func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(cast.ToString(m[k])); s != "" {
			return s
		}
	}
	return ""
}
