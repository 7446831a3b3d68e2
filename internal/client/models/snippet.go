package models

import "time"

// Snippet is a persisted code snippet as returned by the document store.
type Snippet struct {
	ID          string
	Title       string
	Code        string
	Language    string
	Tags        []string
	Description string
	Public      bool
	AuthorID    string
	AuthorName  string
	CreatedAt   time.Time
}

// SnippetFields is the writable field set sent on create/update.
// Tags keep their stored order; de-duplication happens on display only.
type SnippetFields struct {
	Title       string
	Code        string
	Language    string
	Tags        []string
	Description string
	Public      bool
}

// ListFilter narrows a snippet listing.
type ListFilter struct {
	Search   string
	Language string
}

// UniqueTags returns the tags with duplicates removed, keeping first
// occurrence order. Used for display; storage keeps tags as entered.
func UniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
