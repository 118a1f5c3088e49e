package localcache

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/pkg/clock"
)

const defaultSlowQuery = 200 * time.Millisecond

// row is the cache table. The composite primary key keeps one row per
// (scope, name).
type row struct {
	UserID     string `gorm:"primaryKey;column:user_id"`
	Name       string `gorm:"primaryKey;column:name"`
	IsFavorite bool   `gorm:"column:is_favorite;index"`
	Img        string `gorm:"column:img"`
	Level      string `gorm:"column:level"`
	UpdatedAt  time.Time
}

// TableName pins the table name
func (row) TableName() string {
	return "cached_entities"
}

func rowFrom(userID string, e *entities.FavoriteEntity, now time.Time) row {
	return row{
		UserID:     userID,
		Name:       e.Name,
		IsFavorite: e.IsFavorite,
		Img:        e.Img,
		Level:      e.Level,
		UpdatedAt:  now,
	}
}

func (r *row) entity() *entities.FavoriteEntity {
	return &entities.FavoriteEntity{
		Name:       r.Name,
		UserID:     r.UserID,
		IsFavorite: r.IsFavorite,
		Img:        r.Img,
		Level:      r.Level,
	}
}

// Config holds the configuration for the SQLite repository
type Config struct {
	// Path of the database file
	Path string
	// Clock stamps UpdatedAt (optional)
	Clock clock.Clock
	// LogLevel for GORM statements (optional, defaults to warn)
	LogLevel logger.LogLevel
}

// Validate ensures all required settings are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Path == "" {
		vb.RequiredField("Path")
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.LogLevel == 0 {
		c.LogLevel = logger.Warn
	}
	return vb.Build()
}

// SQLiteRepository is the GORM/SQLite backed Repository
type SQLiteRepository struct {
	db    *gorm.DB
	clock clock.Clock
	locks scopeLocks
}

// NewSQLiteRepository opens (creating if needed) the cache database and
// migrates its schema. Close releases the connection.
func NewSQLiteRepository(cfg *Config) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newGormLogger(defaultSlowQuery, cfg.LogLevel),
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open cache database").
			WithMeta("path", cfg.Path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to access cache connection pool")
	}
	// a single writer connection avoids SQLITE_BUSY between scopes
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&row{}); err != nil {
		_ = sqlDB.Close()
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to migrate cache schema")
	}

	return &SQLiteRepository{db: db, clock: cfg.Clock}, nil
}

// Ensure SQLiteRepository implements Repository
var _ Repository = (*SQLiteRepository)(nil)

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access cache connection pool")
	}
	return sqlDB.Close()
}

func (r *SQLiteRepository) InsertOrReplaceAll(ctx context.Context, input *InsertOrReplaceAllInput) (*InsertOrReplaceAllOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rows, err := r.toRows(input.UserID, input.Rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &InsertOrReplaceAllOutput{}, nil
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	if err := r.upsert(r.db.WithContext(ctx), rows); err != nil {
		return nil, errors.Wrap(err, "failed to write cache rows").
			WithMeta("user_id", input.UserID)
	}

	return &InsertOrReplaceAllOutput{Written: len(rows)}, nil
}

func (r *SQLiteRepository) SelectAll(ctx context.Context, input *SelectAllInput) (*SelectAllOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Where("user_id = ?", input.UserID).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cache rows").
			WithMeta("user_id", input.UserID)
	}

	return &SelectAllOutput{Rows: toEntities(rows)}, nil
}

func (r *SQLiteRepository) SelectFavorites(ctx context.Context, input *SelectFavoritesInput) (*SelectFavoritesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_favorite = ?", input.UserID, true).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to read favorites").
			WithMeta("user_id", input.UserID)
	}

	return &SelectFavoritesOutput{Rows: toEntities(rows)}, nil
}

func (r *SQLiteRepository) SetFavorite(ctx context.Context, input *SetFavoriteInput) (*SetFavoriteOutput, error) {
	if err := validateSetFavorite(input); err != nil {
		return nil, err
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	db := r.db.WithContext(ctx)
	if !input.Favorite {
		err := db.Where("user_id = ? AND name = ?", input.UserID, input.Entity.Name).Delete(&row{}).Error
		if err != nil {
			return nil, errors.Wrap(err, "failed to remove favorite").
				WithMeta("user_id", input.UserID).
				WithMeta("name", input.Entity.Name)
		}
		return &SetFavoriteOutput{}, nil
	}

	fav := &entities.FavoriteEntity{
		Name:       input.Entity.Name,
		IsFavorite: true,
		Img:        input.Entity.Img,
		Level:      input.Entity.Level,
	}
	if err := r.upsert(db, []row{rowFrom(input.UserID, fav, r.clock.Now())}); err != nil {
		return nil, errors.Wrap(err, "failed to store favorite").
			WithMeta("user_id", input.UserID).
			WithMeta("name", input.Entity.Name)
	}

	return &SetFavoriteOutput{}, nil
}

func (r *SQLiteRepository) ReplaceFavorites(ctx context.Context, input *ReplaceFavoritesInput) (*ReplaceFavoritesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.UserID == ListingScope {
		return nil, errors.InvalidArgument(errListingOnly)
	}

	rows, err := r.toRows(input.UserID, input.Rows)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].IsFavorite = true
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	output := &ReplaceFavoritesOutput{}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND is_favorite = ?", input.UserID, true).Delete(&row{})
		if res.Error != nil {
			return res.Error
		}
		output.Removed = int(res.RowsAffected)

		if len(rows) == 0 {
			return nil
		}
		if err := r.upsert(tx, rows); err != nil {
			return err
		}
		output.Inserted = len(rows)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to replace favorites").
			WithMeta("user_id", input.UserID)
	}

	return output, nil
}

func (r *SQLiteRepository) DeleteFavoritesForUser(ctx context.Context, input *DeleteFavoritesForUserInput) (*DeleteFavoritesForUserOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.UserID == ListingScope {
		return nil, errors.InvalidArgument(errListingOnly)
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	res := r.db.WithContext(ctx).Where("user_id = ?", input.UserID).Delete(&row{})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to purge favorites").
			WithMeta("user_id", input.UserID)
	}

	return &DeleteFavoritesForUserOutput{Removed: int(res.RowsAffected)}, nil
}

func (r *SQLiteRepository) ListFavoriteUsers(ctx context.Context) ([]string, error) {
	var users []string
	err := r.db.WithContext(ctx).
		Model(&row{}).
		Where("user_id <> ? AND is_favorite = ?", ListingScope, true).
		Distinct().
		Order("user_id").
		Pluck("user_id", &users).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorite users")
	}
	return users, nil
}

func (r *SQLiteRepository) upsert(db *gorm.DB, rows []row) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_favorite", "img", "level", "updated_at"}),
	}).Create(&rows).Error
}

func (r *SQLiteRepository) toRows(userID string, in []*entities.FavoriteEntity) ([]row, error) {
	now := r.clock.Now()
	rows := make([]row, 0, len(in))
	for _, e := range in {
		if e == nil || e.Name == "" {
			return nil, errors.InvalidArgument(errNameEmpty)
		}
		rows = append(rows, rowFrom(userID, e, now))
	}
	return rows, nil
}

func toEntities(rows []row) []*entities.FavoriteEntity {
	out := make([]*entities.FavoriteEntity, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].entity())
	}
	return out
}

func validateSetFavorite(input *SetFavoriteInput) error {
	if input == nil || input.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	if input.UserID == ListingScope {
		return errors.InvalidArgument(errListingOnly)
	}
	if input.Entity == nil {
		return errors.InvalidArgument(errEntityNil)
	}
	if input.Entity.Name == "" {
		return errors.InvalidArgument(errNameEmpty)
	}
	return nil
}
