package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/digidex/internal/entities"
)

func TestLabelSet(t *testing.T) {
	assert.Nil(t, entities.LabelSet())
	assert.Equal(t, []string{"Rookie", "Child"}, entities.LabelSet("Rookie", "", "Child", "Rookie"))
}

func TestDescriptionFor(t *testing.T) {
	record := &entities.CatalogRecord{
		Descriptions: []entities.Description{
			{Origin: "reference_book", Language: "jap", Text: "jp text"},
			{Origin: "reference_book", Language: "en_us", Text: "en text"},
		},
	}

	text, ok := record.DescriptionFor("EN_US")
	assert.True(t, ok)
	assert.Equal(t, "en text", text)

	_, ok = record.DescriptionFor("fr")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	date := "1997"
	record := &entities.CatalogRecord{
		ID:           "1",
		Name:         "Agumon",
		Levels:       []string{"Rookie"},
		ReleaseDate:  &date,
		Descriptions: []entities.Description{{Language: "en_us", Text: "en text"}},
	}
	c := record.Clone()
	c.Levels[0] = "Champion"
	*c.ReleaseDate = "1999"
	c.Descriptions[0].Text = "changed"
	assert.Equal(t, []string{"Rookie"}, record.Levels)
	assert.Equal(t, "1997", *record.ReleaseDate)
	assert.Equal(t, "en text", record.Descriptions[0].Text)

	page := &entities.Page{Content: []entities.CatalogSummary{{ID: "1", Name: "Agumon"}}, HasNext: true}
	pc := page.Clone()
	pc.Content[0].Name = "Greymon"
	assert.Equal(t, "Agumon", page.Content[0].Name)

	var nilRecord *entities.CatalogRecord
	assert.Nil(t, nilRecord.Clone())
}

func TestFavoriteDocumentValid(t *testing.T) {
	var nilDoc *entities.FavoriteDocument
	assert.False(t, nilDoc.Valid())
	assert.False(t, (&entities.FavoriteDocument{Name: "Agumon", Img: "a.png"}).Valid())
	assert.True(t, (&entities.FavoriteDocument{Name: "Agumon", Img: "a.png", Level: "Rookie"}).Valid())

	row := (&entities.FavoriteDocument{Name: "Agumon", Img: "a.png", Level: "Rookie"}).ToFavorite("u1")
	assert.Equal(t, "u1", row.UserID)
	assert.True(t, row.IsFavorite)
}
