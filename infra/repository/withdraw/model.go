package withdraw

import (
	"time"

	"github.com/devdibi/dondoc/infra/repository/member"
	"github.com/google/uuid"
)

// WithdrawRequest represents a withdrawal request record in the database.
// Rows cascade-delete with the owning member.
type WithdrawRequest struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	MoimID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	MemberID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	Member        member.Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	TargetAccount string        `gorm:"type:varchar(32);not null"`
	Amount        int64         `gorm:"not null"`
	Content       string
	Status        string `gorm:"type:varchar(16);not null;index"`
	CreatedAt     time.Time
	ResolvedAt    *time.Time
	ResolvedBy    *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the table name for the WithdrawRequest model.
func (WithdrawRequest) TableName() string {
	return "withdraw_requests"
}
