package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64            `gorm:"primaryKey"`
	Name         string           `gorm:"not null"`
	Surname      string           `gorm:"not null"`
	Email        string           `gorm:"uniqueIndex;not null"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	HourlyRate   *decimal.Decimal `gorm:"column:hourly_rate;type:decimal(10,2)"`
	Role         string           `gorm:"not null"`
	IsActive     bool             `gorm:"column:is_active;default:true"`
	CreatedDate  time.Time        `gorm:"column:created_date"`
	UpdatedAt    time.Time        `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
