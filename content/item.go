// Package content defines the items shown by the particle field.
package content

import (
	"strconv"
	"strings"
	"time"
)

// SiteInstagram is the site type whose accounts get a per-account cap.
const SiteInstagram = "instagram"

// UnknownAccount groups capped items that carry neither account nor contributor.
const UnknownAccount = "unknown"

// Item is a post published by a contributor.
type Item struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Link        string `json:"link" yaml:"link"`
	Title       string `json:"title" yaml:"title"`
	Contributor string `json:"contributor" yaml:"contributor"`
	Genre       string `json:"genre,omitempty" yaml:"genre,omitempty"`
	SiteType    string `json:"siteType,omitempty" yaml:"siteType,omitempty"`
	Account     string `json:"account,omitempty" yaml:"account,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Key returns the dedup key: the id when present, else the link.
func (it Item) Key() string {
	if id := strings.TrimSpace(it.ID); id != "" {
		return id
	}
	return strings.TrimSpace(it.Link)
}

// Valid reports whether the item can be shown and linked.
func (it Item) Valid() bool {
	return it.Contributor != "" && it.Title != "" && it.Link != "" && it.Key() != ""
}

// HasLink reports whether activating the item navigates anywhere.
func (it *Item) HasLink() bool {
	return it != nil && strings.TrimSpace(it.Link) != ""
}

// IsInstagram reports whether the item comes from Instagram (case-insensitive).
func (it Item) IsInstagram() bool {
	return strings.EqualFold(strings.TrimSpace(it.SiteType), SiteInstagram)
}

// AccountKey returns the identity used by the per-account cap.
func (it Item) AccountKey() string {
	if a := strings.TrimSpace(it.Account); a != "" {
		return a
	}
	if c := strings.TrimSpace(it.Contributor); c != "" {
		return c
	}
	return UnknownAccount
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UpdatedTime parses UpdatedAt. An all-digit value is unix milliseconds.
// The zero time means "no timestamp".
func (it Item) UpdatedTime() time.Time {
	s := strings.TrimSpace(it.UpdatedAt)
	if s == "" {
		return time.Time{}
	}
	if allDigits(s) {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// SortKey is UpdatedTime in unix milliseconds, 0 when there is no timestamp.
func (it Item) SortKey() int64 {
	t := it.UpdatedTime()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Validate returns the valid items in their original order.
func Validate(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Valid() {
			out = append(out, it)
		}
	}
	return out
}

// Dedup folds item lists in order, later records overwriting earlier ones with the same key.
// The position of a key's first occurrence is kept. Items without a key are dropped.
func Dedup(lists ...[]Item) []Item {
	index := make(map[string]int)
	var out []Item
	for _, list := range lists {
		for _, it := range list {
			key := it.Key()
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				out[i] = it
				continue
			}
			index[key] = len(out)
			out = append(out, it)
		}
	}
	return out
}
