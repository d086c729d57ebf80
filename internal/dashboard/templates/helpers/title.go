package helpers

import "strings"

// AppName is the product name appended to page titles.
const AppName = "Acme Dashboard"

// ComposePageTitle appends the product name unless the title already carries it.
func ComposePageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return AppName
	}
	if strings.HasSuffix(title, "| "+AppName) {
		return title
	}
	return title + " | " + AppName
}
