package testutils

import (
	"fmt"

	"github.com/KirkDiggler/digidex/internal/entities"
)

// Roster returns a fresh four-entity listing spanning three levels
func Roster() []*entities.Entity {
	return []*entities.Entity{
		{Name: "Agumon", Img: ImageURL("Agumon"), Level: "Rookie"},
		{Name: "Gabumon", Img: ImageURL("Gabumon"), Level: "Rookie"},
		{Name: "Greymon", Img: ImageURL("Greymon"), Level: "Champion"},
		{Name: "Koromon", Img: ImageURL("Koromon"), Level: "In Training"},
	}
}

// ImageURL is the image every fixture uses for name
func ImageURL(name string) string {
	return "https://img.test/" + name + ".jpg"
}

// Document returns a complete remote favorite document
func Document(name, level string) *entities.FavoriteDocument {
	return &entities.FavoriteDocument{Name: name, Img: ImageURL(name), Level: level}
}

// Page builds a catalog listing page whose summaries get ids "<name>-<index>"
func Page(n int, hasNext bool, names ...string) *entities.Page {
	content := make([]entities.CatalogSummary, 0, len(names))
	for i, name := range names {
		content = append(content, entities.CatalogSummary{ID: fmt.Sprintf("%s-%d", name, i), Name: name})
	}
	return &entities.Page{Content: content, CurrentPage: n, HasNext: hasNext}
}
