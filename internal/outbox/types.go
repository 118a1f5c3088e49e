package outbox

import (
	"time"

	"github.com/KirkDiggler/digidex/internal/entities"
)

// Op is the remote operation a push performs
type Op string

// Push operations
const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
)

// Status is the delivery state of an entry
type Status string

// Entry statuses. Pending entries move to exactly one of the other two.
const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Entry is one queued remote push
type Entry struct {
	ID            string
	UserID        string
	Op            Op
	Document      entities.FavoriteDocument
	Status        Status
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	NextAttemptAt time.Time
}

// key identifies the remote document an entry writes
func (e *Entry) key() string {
	return e.UserID + "\x00" + e.Document.Name
}

// EnqueueInput describes a push to queue
type EnqueueInput struct {
	UserID   string
	Op       Op
	Document *entities.FavoriteDocument
}

// FlushOutput summarizes one delivery pass
type FlushOutput struct {
	Delivered int
	Failed    int
	Retrying  int
	Pending   int
}
