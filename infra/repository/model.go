package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign represents a campaign record in the database. Only the
// financial slice is mapped here; presentation fields live elsewhere.
type Campaign struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Title         string    `gorm:"size:255;not null"`
	Status        string    `gorm:"type:varchar(32);not null;default:'active';index"`
	GoalAmount    int64     `gorm:"not null"`
	CurrentAmount int64     `gorm:"not null;default:0"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'USD'"`
	StartDate     time.Time
	EndDate       time.Time
	Donations     []Donation
}

// Donation represents a donation record in the database. Rows are never
// physically deleted; terminal statuses are the deletion-equivalent.
type Donation struct {
	gorm.Model
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key"`
	CampaignID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID                *uuid.UUID `gorm:"type:uuid;index"` // null for anonymous donors
	Amount                int64      `gorm:"not null"`
	Currency              string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Status                string     `gorm:"type:varchar(32);not null;default:'pending';index"`
	PaymentMethod         string     `gorm:"type:varchar(64);not null"`
	PaymentGateway        string     `gorm:"type:varchar(64)"`
	ExternalTransactionID string     `gorm:"type:varchar(255);index"`
	GatewayResponse       string     `gorm:"type:text"`
	FailureReason         string     `gorm:"type:text"`
	CancellationReason    string     `gorm:"type:text"`
	RefundReason          string     `gorm:"type:text"`
	ProcessingFee         int64      `gorm:"not null;default:0"`
	Anonymous             bool       `gorm:"not null;default:false"`
	Recurring             bool       `gorm:"not null;default:false"`
	RecurringFrequency    string     `gorm:"type:varchar(16)"`
	Notes                 string     `gorm:"type:text"`
	DonatedAt             time.Time  `gorm:"not null"`
	ProcessedAt           *time.Time
	CompletedAt           *time.Time
	FailedAt              *time.Time
}
