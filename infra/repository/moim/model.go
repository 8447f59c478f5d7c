package moim

import (
	"time"

	"github.com/google/uuid"
)

// Moim represents a moim record in the database.
type Moim struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	IdentificationNumber string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	Name                 string    `gorm:"type:varchar(100);not null"`
	Introduce            string
	AccountID            int64
	AccountNumber        string `gorm:"type:varchar(32)"`
	MoimType             int
	MemberCount          int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for the Moim model.
func (Moim) TableName() string {
	return "moims"
}
