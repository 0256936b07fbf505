package store

import "time"

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// ChecklistItem is read-only reference data owned by the catalog; the core
// only ever reads it by id or by (category, display order).
type ChecklistItem struct {
	ID           string
	CategorySlug string
	DisplayOrder int
	OriginalText string
	FriendlyText string
}

// UserProgress is the server-authoritative record of how far a user has
// walked one category. One row per (user, category).
type UserProgress struct {
	UserID       string
	CategorySlug string
	CurrentStep  int
	IsComplete   bool
	UpdatedAt    time.Time
}

type SnagList struct {
	ID            string
	UserID        string
	Name          string
	IsActive      bool
	PaymentStatus string
	ShareID       *string
	Address       string
	BuilderName   string
	BuilderEmail  string
	SharedAt      *time.Time
	CreatedAt     time.Time
}

type Snag struct {
	ID              string
	UserID          string
	ChecklistItemID string
	SnagListID      string
	Note            string
	PhotoURL        string
	CreatedAt       time.Time
}

type ShareRequest struct {
	ID              string
	UserID          string
	BuilderName     string
	BuilderEmail    string
	Address         string
	Status          string
	PaymentIntentID string
	CreatedAt       time.Time
}

// Share request statuses move forward only: Pending -> Paid | Failed.
const (
	ShareStatusPending = "Pending"
	ShareStatusPaid    = "Paid"
	ShareStatusFailed  = "Failed"
)

// PaymentStatusInProgress is a UI-facing hint on the snag list while a
// checkout session is open; it is not a lifecycle state.
const PaymentStatusInProgress = "in_progress"
