package query

import (
	"regexp"
	"strings"
)

var fieldPrefix = regexp.MustCompile(`[^\s:()]+:`)

// Columns maps column keys to their display titles so free text can use either.
type Columns struct {
	byKey   map[string]string
	byTitle map[string]string
}

// NewColumns builds the mapping from key/title pairs. Empty titles are ignored.
func NewColumns(pairs map[string]string) Columns {
	c := Columns{byKey: map[string]string{}, byTitle: map[string]string{}}
	for key, title := range pairs {
		if key == "" || title == "" {
			continue
		}
		c.byKey[key] = title
		c.byTitle[title] = key
	}
	return c
}

// ToKeys rewrites "Title:" prefixes in free text into "key:" prefixes.
func (c Columns) ToKeys(text string) string {
	return rewrite(text, c.byTitle)
}

// ToTitles rewrites "key:" prefixes back into "Title:" for display.
func (c Columns) ToTitles(text string) string {
	return rewrite(text, c.byKey)
}

func rewrite(text string, table map[string]string) string {
	if len(table) == 0 || !strings.Contains(text, ":") {
		return text
	}
	return fieldPrefix.ReplaceAllStringFunc(text, func(m string) string {
		if to, ok := table[strings.TrimSuffix(m, ":")]; ok {
			return to + ":"
		}
		return m
	})
}
