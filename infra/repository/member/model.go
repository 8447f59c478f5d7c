package member

import (
	"time"

	"github.com/google/uuid"
)

// Member represents a moim membership record in the database. The
// (user_id, moim_id) pair is unique: a user holds at most one membership
// per moim.
type Member struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_moim"`
	MoimID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_moim"`
	Role          int       `gorm:"not null"`
	Status        int       `gorm:"not null"`
	AccountNumber *string   `gorm:"type:varchar(32)"`
	InvitedAt     time.Time
	SignedAt      *time.Time
}

// TableName specifies the table name for the Member model.
func (Member) TableName() string {
	return "moim_members"
}
