package favorites

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
)

// InMemoryRepository keeps documents in process memory. It backs local runs
// that have no Redis configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]map[string]entities.FavoriteDocument
}

// NewInMemoryRepository creates an empty in-memory store
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[string]map[string]entities.FavoriteDocument),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// GetAll returns the user's documents sorted by name
func (r *InMemoryRepository) GetAll(_ context.Context, input *GetAllInput) (*GetAllOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.users[input.UserID]
	output := &GetAllOutput{Documents: make([]*entities.FavoriteDocument, 0, len(docs))}
	for _, doc := range docs {
		d := doc
		output.Documents = append(output.Documents, &d)
	}
	sort.Slice(output.Documents, func(i, j int) bool {
		return output.Documents[i].Name < output.Documents[j].Name
	})

	return output, nil
}

// Set upserts a document
func (r *InMemoryRepository) Set(_ context.Context, input *SetInput) (*SetOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Document == nil {
		return nil, errors.InvalidArgument(errDocumentNil)
	}
	if input.Document.Name == "" {
		return nil, errors.InvalidArgument(errDocumentNoKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	docs, ok := r.users[input.UserID]
	if !ok {
		docs = make(map[string]entities.FavoriteDocument)
		r.users[input.UserID] = docs
	}
	docs[input.Document.Name] = *input.Document

	return &SetOutput{}, nil
}

// Delete removes a document
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	docs := r.users[input.UserID]
	_, existed := docs[input.Name]
	delete(docs, input.Name)

	return &DeleteOutput{Deleted: existed}, nil
}
