// Package presenter projects persisted entities into their stable public
// JSON shapes. Projections are pure: same entity, relations and clock in,
// same record out.
package presenter

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// newWindow is how long a resource counts as "new" after creation.
const newWindow = 30 * 24 * time.Hour

var transliterations = strings.NewReplacer(
	"ó", "o", "é", "e", "í", "i", "ú", "u", "ñ", "n", "á", "a",
)

// FormatPrice renders a price as "$" plus the rounded integer amount with
// "." thousands separators: 1500.00 -> "$1.500".
func FormatPrice(price float64) string {
	n := int64(price + 0.5)
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "$-" + b.String()
	}
	return "$" + b.String()
}

// Slug renders a URL slug from a name: lowercase, accents transliterated,
// runs of non-alphanumerics collapsed to single hyphens.
func Slug(name string) string {
	s := transliterations.Replace(strings.ToLower(name))
	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteString("-")
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// CategorySlug renders a category tag: lowercase, spaces removed, the fixed
// accent set transliterated. Empty input falls back to "general".
func CategorySlug(category string) string {
	if category == "" {
		return "general"
	}
	s := strings.ToLower(category)
	s = strings.ReplaceAll(s, " ", "")
	return transliterations.Replace(s)
}

// IsNew reports whether createdAt falls within the 30-day window before now.
func IsNew(createdAt, now time.Time) bool {
	return !createdAt.IsZero() && now.Sub(createdAt) <= newWindow
}

// DiscountedPrice returns price reduced by pct percent, or nil when no
// discount is set.
func DiscountedPrice(price, pct float64) *float64 {
	if pct <= 0 {
		return nil
	}
	v := price * (1 - pct/100)
	return &v
}
