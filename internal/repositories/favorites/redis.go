package favorites

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	redisclient "github.com/KirkDiggler/digidex/internal/redis"
)

// Key pattern: favorites:user:{user_id}, one hash field per entity name
const userKeyPrefix = "favorites:user:"

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis backed favorites store
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	fields, err := r.client.HGetAll(ctx, r.buildKey(input.UserID)).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read favorites from Redis").
			WithMeta("user_id", input.UserID)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	output := &GetAllOutput{Documents: make([]*entities.FavoriteDocument, 0, len(fields))}
	for _, name := range names {
		var doc entities.FavoriteDocument
		if err := json.Unmarshal([]byte(fields[name]), &doc); err != nil {
			slog.WarnContext(ctx, "skipping undecodable favorite document",
				"user_id", input.UserID,
				"name", name,
				"error", err)
			output.Skipped++
			continue
		}
		output.Documents = append(output.Documents, &doc)
	}

	return output, nil
}

func (r *redisRepository) Set(ctx context.Context, input *SetInput) (*SetOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Document == nil {
		return nil, errors.InvalidArgument(errDocumentNil)
	}
	if input.Document.Name == "" {
		return nil, errors.InvalidArgument(errDocumentNoKey)
	}

	docJSON, err := json.Marshal(input.Document)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal favorite document")
	}

	err = r.client.HSet(ctx, r.buildKey(input.UserID), input.Document.Name, docJSON).Err()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store favorite in Redis").
			WithMeta("user_id", input.UserID).
			WithMeta("name", input.Document.Name)
	}

	return &SetOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	removed, err := r.client.HDel(ctx, r.buildKey(input.UserID), input.Name).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete favorite from Redis").
			WithMeta("user_id", input.UserID).
			WithMeta("name", input.Name)
	}

	return &DeleteOutput{Deleted: removed > 0}, nil
}

func (r *redisRepository) buildKey(userID string) string {
	return userKeyPrefix + userID
}
