// Package keywords derives descriptive keywords for a venue from its raw
// analysis blob. Derivation is best-effort presentation data: a missing or
// unparsable blob falls back to the catalog's default set, never an error.
package keywords

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/snapspot/snapspot-api/internal/domain"
)

const (
	relevancePreferred = 0.95
	relevanceMatched   = 0.75
	relevanceDefault   = 0.70

	unknownType = "기타"
)

type Entry struct {
	Keyword string `json:"keyword"`
	Type    string `json:"type"`
}

// Catalog maps raw analysis keywords to typed entries and carries the
// default set served when a venue has no usable analysis data.
type Catalog struct {
	Entries  []Entry  `json:"entries"`
	Defaults []string `json:"defaults"`

	typeByKeyword map[string]string
}

// Default returns the built-in catalog. The keyword set mirrors the current
// analysis pipeline output; replace via a catalog file once the pipeline
// schema is finalized.
func Default() *Catalog {
	c := &Catalog{
		Entries: []Entry{
			{Keyword: "자연스러운보정", Type: "사진스타일"},
			{Keyword: "하이앵글", Type: "촬영스타일"},
			{Keyword: "소품다양", Type: "소품"},
			{Keyword: "빈티지", Type: "분위기"},
			{Keyword: "화사한톤", Type: "사진스타일"},
		},
		Defaults: []string{"자연스러운보정", "소품다양"},
	}
	c.index()
	return c
}

// Load reads a YAML catalog file. Entries and defaults fall back to the
// built-in values when the file omits them.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &Catalog{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	base := Default()
	if len(c.Entries) == 0 {
		c.Entries = base.Entries
	}
	if len(c.Defaults) == 0 {
		c.Defaults = base.Defaults
	}
	c.index()
	return c, nil
}

func (c *Catalog) index() {
	c.typeByKeyword = make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		c.typeByKeyword[e.Keyword] = e.Type
	}
}

// analysisBlob is the decoded shape of a venue's analysis_data column.
type analysisBlob struct {
	Keywords []string `json:"keywords"`
}

// Extract derives the keyword list for one venue. Keywords present in the
// caller's preferred set are flagged and scored higher.
func (c *Catalog) Extract(analysisData *string, preferred []string) []domain.Keyword {
	preferredSet := make(map[string]bool, len(preferred))
	for _, k := range preferred {
		preferredSet[k] = true
	}

	raw := c.parse(analysisData)
	if len(raw) == 0 {
		return c.defaults(preferredSet)
	}

	result := make([]domain.Keyword, 0, len(raw))
	for _, keyword := range raw {
		relevance := relevanceMatched
		if preferredSet[keyword] {
			relevance = relevancePreferred
		}
		result = append(result, domain.Keyword{
			Keyword:     keyword,
			Type:        c.typeOf(keyword),
			IsPreferred: preferredSet[keyword],
			Relevance:   relevance,
		})
	}
	return result
}

func (c *Catalog) parse(analysisData *string) []string {
	if analysisData == nil || strings.TrimSpace(*analysisData) == "" {
		return nil
	}
	var blob analysisBlob
	if err := json.Unmarshal([]byte(*analysisData), &blob); err != nil {
		return nil
	}
	return blob.Keywords
}

func (c *Catalog) defaults(preferredSet map[string]bool) []domain.Keyword {
	result := make([]domain.Keyword, 0, len(c.Defaults))
	for _, keyword := range c.Defaults {
		result = append(result, domain.Keyword{
			Keyword:     keyword,
			Type:        c.typeOf(keyword),
			IsPreferred: preferredSet[keyword],
			Relevance:   relevanceDefault,
		})
	}
	return result
}

func (c *Catalog) typeOf(keyword string) string {
	if t, ok := c.typeByKeyword[keyword]; ok {
		return t
	}
	return unknownType
}
