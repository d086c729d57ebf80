package ui

import (
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxQueryLength = 100

var queryPolicy = bluemonday.StrictPolicy()

// currentURL is the path and query of the request, used by retry links.
func currentURL(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

// searchQuery returns the `query` parameter stripped of markup and bounded in length.
func searchQuery(r *http.Request) string {
	raw := strings.TrimSpace(r.URL.Query().Get("query"))
	if raw == "" {
		return ""
	}
	cleaned := html.UnescapeString(queryPolicy.Sanitize(raw))
	cleaned = strings.TrimSpace(cleaned)
	if len([]rune(cleaned)) > maxQueryLength {
		cleaned = string([]rune(cleaned)[:maxQueryLength])
	}
	return cleaned
}

// pageParam parses the `page` parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
