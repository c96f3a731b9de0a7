package instagram

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

// Heuristic markers for Instagram's anti-automation walls. These track the
// platform's current HTML and are package variables rather than constants so
// tests (and future fixes) can adjust them without touching the logic.
var (
	challengeMarker = "/challenge/"
	loginPathMarker = "/accounts/login"
)

var (
	titleHandlePattern   = regexp.MustCompile(`\(@([A-Za-z0-9._]+)\)`)
	alternateNamePattern = regexp.MustCompile(`"alternateName"\s*:\s*"@([A-Za-z0-9._]+)"`)
	deepLinkPattern      = regexp.MustCompile(`instagram://user\?username=([A-Za-z0-9._]+)`)
)

// MetaContent returns the content attribute of the meta element whose
// property or name attribute equals key, or "" if no such element exists.
// Attribute order on the tag does not matter.
func MetaContent(html, key string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	selector := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// DisplayNameFromTitle derives a display name from an Instagram-style page
// title such as "Jane Doe (@jane_doe) • Instagram photos and videos". It
// returns the trimmed prefix before the first "(@", or "" when the title has
// no handle marker or an empty prefix.
func DisplayNameFromTitle(title string) string {
	idx := strings.Index(title, "(@")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSpace(title[:idx])
}

// AlternateHandle extracts the handle embedded in the page's structured-data
// field "alternateName":"@handle", or "" if absent.
func AlternateHandle(html string) string {
	if m := alternateNamePattern.FindStringSubmatch(html); len(m) > 1 {
		return m[1]
	}
	return ""
}

// LooksBlocked reports whether the document resembles a login or challenge
// wall instead of a profile. This is a heuristic gate, not a proof.
func LooksBlocked(html string) bool {
	lower := strings.ToLower(html)
	if strings.Contains(lower, challengeMarker) {
		return true
	}
	if strings.Contains(lower, loginPathMarker) {
		return true
	}
	return strings.Contains(lower, "login") &&
		strings.Contains(lower, "instagram") &&
		strings.Contains(lower, "password")
}

// MatchesUsername reports whether the document plausibly belongs to the given
// handle: the title handle, the structured-data alternate name, or the app
// deep-link parameter case-insensitively equals it. Any single match
// suffices.
func MatchesUsername(html, handle string) bool {
	title := MetaContent(html, "og:title")
	if m := titleHandlePattern.FindStringSubmatch(title); len(m) > 1 && username.Equal(m[1], handle) {
		return true
	}
	if alt := AlternateHandle(html); alt != "" && username.Equal(alt, handle) {
		return true
	}
	if m := deepLinkPattern.FindStringSubmatch(html); len(m) > 1 && username.Equal(m[1], handle) {
		return true
	}
	return false
}
