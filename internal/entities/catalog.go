// Package entities holds the domain types shared by the catalog clients,
// the resolver and the favorites synchronizer.
package entities

import (
	"slices"
	"strings"
)

// CatalogSummary is one entry of a catalog listing page
type CatalogSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one page of the remote catalog listing
type Page struct {
	Content     []CatalogSummary `json:"content"`
	CurrentPage int              `json:"current_page"`
	HasNext     bool             `json:"has_next"`
}

// Description is a localized description of a catalog record
type Description struct {
	Origin   string `json:"origin"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// CatalogRecord is the full detail of a catalog entity
type CatalogRecord struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Images       []string      `json:"images,omitempty"`
	Levels       []string      `json:"levels,omitempty"`
	Attributes   []string      `json:"attributes,omitempty"`
	Types        []string      `json:"types,omitempty"`
	Fields       []string      `json:"fields,omitempty"`
	ReleaseDate  *string       `json:"release_date,omitempty"`
	Descriptions []Description `json:"descriptions,omitempty"`
}

// Clone returns a deep copy of the page
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	c := *p
	c.Content = slices.Clone(p.Content)
	return &c
}

// Clone returns a deep copy of the record
func (r *CatalogRecord) Clone() *CatalogRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Images = slices.Clone(r.Images)
	c.Levels = slices.Clone(r.Levels)
	c.Attributes = slices.Clone(r.Attributes)
	c.Types = slices.Clone(r.Types)
	c.Fields = slices.Clone(r.Fields)
	c.Descriptions = slices.Clone(r.Descriptions)
	if r.ReleaseDate != nil {
		date := *r.ReleaseDate
		c.ReleaseDate = &date
	}
	return &c
}

// DescriptionFor returns the first description in the given language,
// compared case-insensitively, and whether one exists.
func (r *CatalogRecord) DescriptionFor(language string) (string, bool) {
	for _, d := range r.Descriptions {
		if strings.EqualFold(d.Language, language) {
			return d.Text, true
		}
	}
	return "", false
}

// LabelSet builds an ordered set: duplicates and empty labels are dropped,
// first occurrence wins.
func LabelSet(labels ...string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
