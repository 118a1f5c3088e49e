package catalog

import (
	"encoding/json"
	"strings"

	"github.com/KirkDiggler/digidex/internal/entities"
)

type pageResponse struct {
	Content  []summaryResponse `json:"content"`
	Pageable pageableResponse  `json:"pageable"`
}

type summaryResponse struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Href  string      `json:"href"`
	Image string      `json:"image"`
}

type pageableResponse struct {
	CurrentPage    int     `json:"currentPage"`
	ElementsOnPage int     `json:"elementsOnPage"`
	TotalElements  int     `json:"totalElements"`
	TotalPages     int     `json:"totalPages"`
	PreviousPage   *string `json:"previousPage"`
	NextPage       *string `json:"nextPage"`
}

// toPage converts the wire page. The requested index wins over the echoed
// one so a misbehaving server cannot send the walker backwards.
func (r *pageResponse) toPage(requested int) *entities.Page {
	content := make([]entities.CatalogSummary, 0, len(r.Content))
	for _, s := range r.Content {
		content = append(content, entities.CatalogSummary{
			ID:   s.ID.String(),
			Name: s.Name,
		})
	}

	return &entities.Page{
		Content:     content,
		CurrentPage: requested,
		HasNext:     r.Pageable.NextPage != nil && strings.TrimSpace(*r.Pageable.NextPage) != "",
	}
}

type recordResponse struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	Images []struct {
		Href string `json:"href"`
	} `json:"images"`
	Levels []struct {
		Level string `json:"level"`
	} `json:"levels"`
	Attributes []struct {
		Attribute string `json:"attribute"`
	} `json:"attributes"`
	Types []struct {
		Type string `json:"type"`
	} `json:"types"`
	Fields []struct {
		Field string `json:"field"`
	} `json:"fields"`
	ReleaseDate  *string `json:"releaseDate"`
	Descriptions []struct {
		Origin      string `json:"origin"`
		Language    string `json:"language"`
		Description string `json:"description"`
	} `json:"descriptions"`
}

func (r *recordResponse) toRecord() *entities.CatalogRecord {
	record := &entities.CatalogRecord{
		ID:          r.ID.String(),
		Name:        r.Name,
		ReleaseDate: r.ReleaseDate,
	}

	for _, img := range r.Images {
		if img.Href != "" {
			record.Images = append(record.Images, img.Href)
		}
	}

	levels := make([]string, 0, len(r.Levels))
	for _, l := range r.Levels {
		levels = append(levels, l.Level)
	}
	record.Levels = entities.LabelSet(levels...)

	attributes := make([]string, 0, len(r.Attributes))
	for _, a := range r.Attributes {
		attributes = append(attributes, a.Attribute)
	}
	record.Attributes = entities.LabelSet(attributes...)

	types := make([]string, 0, len(r.Types))
	for _, t := range r.Types {
		types = append(types, t.Type)
	}
	record.Types = entities.LabelSet(types...)

	fields := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, f.Field)
	}
	record.Fields = entities.LabelSet(fields...)

	for _, d := range r.Descriptions {
		record.Descriptions = append(record.Descriptions, entities.Description{
			Origin:   d.Origin,
			Language: d.Language,
			Text:     d.Description,
		})
	}

	return record
}
