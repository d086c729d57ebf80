package helpers

import (
	"net/url"
	"strconv"
	"strings"
)

// SetRawQuery returns rawQuery with key set to value.
func SetRawQuery(rawQuery, key, value string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	values.Set(key, value)
	return values.Encode()
}

// DelRawQuery returns rawQuery without key.
func DelRawQuery(rawQuery, key string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	values.Del(key)
	return values.Encode()
}

// BuildURL replaces the query of path with rawQuery. An empty query drops the "?".
func BuildURL(path, rawQuery string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

// PageURL links to a page of the current listing, keeping the other query parameters.
func PageURL(path, rawQuery string, page int) string {
	return BuildURL(path, SetRawQuery(rawQuery, "page", strconv.Itoa(page)))
}

// PageItem is one entry of the pagination strip. Ellipsis items have Page 0.
type PageItem struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Pagination lays out page links: every page when there are at most seven,
// otherwise the first and last pages around a window of the current page.
func Pagination(current, total int) []PageItem {
	if total <= 0 {
		return nil
	}
	var pages []int
	switch {
	case total <= 7:
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
	case current <= 3:
		pages = []int{1, 2, 3, 0, total - 1, total}
	case current >= total-2:
		pages = []int{1, 2, 0, total - 2, total - 1, total}
	default:
		pages = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	items := make([]PageItem, 0, len(pages))
	for _, p := range pages {
		if p == 0 {
			items = append(items, PageItem{Ellipsis: true})
			continue
		}
		items = append(items, PageItem{Page: p, Current: p == current})
	}
	return items
}
