package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategory is used when a client logs an activity without a category.
const DefaultCategory = "General"

// CategoryLabel normalises a free-form category ("home ENERGY") to title case
// ("Home Energy"). Casers are stateful, so one is built per call.
func CategoryLabel(category string) string {
	category = strings.Join(strings.Fields(category), " ")
	if category == "" {
		return DefaultCategory
	}
	return cases.Title(language.English).String(category)
}

// FoldName reduces a display name to a comparison key: transliterated to
// ASCII, lowercased, with whitespace and punctuation removed.
func FoldName(name string) string {
	ascii := strings.ToLower(unidecode.Unidecode(name))
	var b strings.Builder
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SnapshotKey builds the object key for a weekly leaderboard snapshot,
// e.g. "leaderboards/weekly-2026-10-18-3f1c....json".
func SnapshotKey(weekStart time.Time, id string) string {
	return fmt.Sprintf("leaderboards/%s.json", slug.Make(fmt.Sprintf("weekly %s %s", weekStart.Format("2006-01-02"), id)))
}
