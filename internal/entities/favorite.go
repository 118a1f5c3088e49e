package entities

// Entity is one entry of the source listing as shown to a user
type Entity struct {
	Name       string `json:"name"`
	Img        string `json:"img"`
	Level      string `json:"level"`
	IsFavorite bool   `json:"is_favorite"`
}

// FavoriteEntity is a row of the local cache, scoped to a user
type FavoriteEntity struct {
	Name       string
	UserID     string
	IsFavorite bool
	Img        string
	Level      string
}

// FavoriteDocument is the remote per-user favorite document
type FavoriteDocument struct {
	Name  string `json:"name"`
	Img   string `json:"img"`
	Level string `json:"level"`
}

// Valid reports whether every required field is present
func (d *FavoriteDocument) Valid() bool {
	return d != nil && d.Name != "" && d.Img != "" && d.Level != ""
}

// ToFavorite materializes a cache row for the given user
func (d *FavoriteDocument) ToFavorite(userID string) *FavoriteEntity {
	return &FavoriteEntity{
		Name:       d.Name,
		UserID:     userID,
		IsFavorite: true,
		Img:        d.Img,
		Level:      d.Level,
	}
}

// Document returns the remote document for an entity
func (e *Entity) Document() *FavoriteDocument {
	return &FavoriteDocument{Name: e.Name, Img: e.Img, Level: e.Level}
}
