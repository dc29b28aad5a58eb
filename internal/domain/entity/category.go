package entity

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Category is a node in the category DAG. Edges live in CategoryRelation
// join rows, so a category can have several parents and several children.
type Category struct {
	ID        string
	Name      string
	Slug      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryRelation is one parent/child edge of the DAG.
type CategoryRelation struct {
	ParentID string
	ChildID  string
}

// NormalizeSlug lowercases, collapses whitespace to hyphens and strips
// anything that is not alphanumeric or a hyphen.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func NewCategory(name, slug string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name cannot be empty")
	}
	if slug == "" {
		slug = name
	}
	slug = NormalizeSlug(slug)
	if slug == "" {
		return nil, errors.New("category slug cannot be empty")
	}
	now := time.Now().UTC()
	return &Category{
		Name:      name,
		Slug:      slug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
