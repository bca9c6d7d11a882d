package importer

import (
	"sort"
	"strings"

	"finance-app/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeKeyword trims and upper-cases s the way keywords are stored and matched
func NormalizeKeyword(s string) string {
	// A Caser keeps internal state, so each call gets its own
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

type keywordEntry struct {
	keyword  string
	category models.CategoryRef
}

// KeywordConflict records a keyword claimed by more than one category.
// The first owner in snapshot order keeps it.
type KeywordConflict struct {
	Keyword string
	Kept    models.CategoryRef
	Ignored models.CategoryRef
}

// KeywordIndex maps upper-cased keywords to the category owning them.
// It is immutable once built and safe for concurrent lookups.
type KeywordIndex struct {
	entries   []keywordEntry
	conflicts []KeywordConflict
}

// BuildKeywordIndex builds the index from a category snapshot. Blank and
// over-long keywords are ignored.
func BuildKeywordIndex(categories []models.Category) *KeywordIndex {
	idx := &KeywordIndex{}
	owners := make(map[string]models.CategoryRef)

	for _, cat := range categories {
		ref := cat.Ref()
		for _, kw := range cat.Keywords {
			key := NormalizeKeyword(kw.Keyword)
			if models.ValidateKeyword(key) != nil {
				continue
			}
			if owner, exists := owners[key]; exists {
				if owner.ID != ref.ID {
					idx.conflicts = append(idx.conflicts, KeywordConflict{Keyword: key, Kept: owner, Ignored: ref})
				}
				continue
			}
			owners[key] = ref
			idx.entries = append(idx.entries, keywordEntry{keyword: key, category: ref})
		}
	}

	// Longest keyword first so the most specific one wins; ties break lexically
	sort.Slice(idx.entries, func(i, j int) bool {
		li, lj := len(idx.entries[i].keyword), len(idx.entries[j].keyword)
		if li != lj {
			return li > lj
		}
		return idx.entries[i].keyword < idx.entries[j].keyword
	})

	return idx
}

// Match returns the category of the first keyword contained in partnerName,
// or nil when the name is empty or nothing matches.
func (idx *KeywordIndex) Match(partnerName string) *models.CategoryRef {
	if idx == nil {
		return nil
	}
	name := NormalizeKeyword(partnerName)
	if name == "" {
		return nil
	}

	for _, e := range idx.entries {
		if strings.Contains(name, e.keyword) {
			ref := e.category
			return &ref
		}
	}
	return nil
}

// Lookup returns the owner of an exact keyword
func (idx *KeywordIndex) Lookup(keyword string) (models.CategoryRef, bool) {
	key := NormalizeKeyword(keyword)
	for _, e := range idx.entries {
		if e.keyword == key {
			return e.category, true
		}
	}
	return models.CategoryRef{}, false
}

// Len returns the number of indexed keywords
func (idx *KeywordIndex) Len() int {
	return len(idx.entries)
}

// Conflicts returns the keywords that more than one category tried to claim
func (idx *KeywordIndex) Conflicts() []KeywordConflict {
	return idx.conflicts
}
