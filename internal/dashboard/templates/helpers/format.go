package helpers

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats an amount in cents as US dollars, e.g. 110636 -> "$1,106.36".
func Currency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", cents/100), cents%100)
}

// Number formats an integer with thousands separators.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Date formats a calendar date the way the tables show it, e.g. "Dec 6, 2023".
func Date(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("Jan 2, 2006")
}

// Initials returns up to two upper-case initials for avatar placeholders.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

// NavClass returns sidebar link classes.
func NavClass(active bool) string {
	if active {
		return "flex items-center gap-2 rounded-md bg-sky-100 px-3 py-2 text-sm font-medium text-blue-600"
	}
	return "flex items-center gap-2 rounded-md bg-gray-50 px-3 py-2 text-sm font-medium hover:bg-sky-100 hover:text-blue-600"
}

// BadgeClass maps invoice statuses to utility classes.
func BadgeClass(status string) string {
	switch status {
	case "paid":
		return "inline-flex items-center rounded-full bg-green-500 px-2 py-1 text-xs text-white"
	case "pending":
		return "inline-flex items-center rounded-full bg-gray-100 px-2 py-1 text-xs text-gray-500"
	default:
		return "inline-flex items-center rounded-full bg-slate-100 px-2 py-1 text-xs text-slate-700"
	}
}

// StatusLabel returns the display text of an invoice status.
func StatusLabel(status string) string {
	switch status {
	case "paid":
		return "Paid"
	case "pending":
		return "Pending"
	default:
		return status
	}
}
