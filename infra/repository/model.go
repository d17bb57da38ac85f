// Package repository implements the repository contracts on GORM/Postgres.
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is the account record in the database. Version is the
// optimistic-concurrency token checked on every balance write.
type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Number         string    `gorm:"uniqueIndex;not null;size:32"`
	Type           string    `gorm:"type:varchar(16);not null;default:'checking'"`
	Balance        int64     `gorm:"not null;default:0"`
	OverdraftLimit int64     `gorm:"not null;default:0"`
	InterestRate   float64   `gorm:"not null;default:0"`
	Currency       string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Status         string    `gorm:"type:varchar(16);not null;default:'active'"`
	Version        int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction is one ledger entry. Seq gives a total insertion order used as
// the tie-break when timestamps collide; the unique index on Reference is
// what makes replays idempotent.
type Transaction struct {
	Seq           int64      `gorm:"primaryKey;autoIncrement"`
	ID            uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Reference     string     `gorm:"uniqueIndex;not null;size:64"`
	FromAccountID *uuid.UUID `gorm:"type:uuid;index"`
	ToAccountID   *uuid.UUID `gorm:"type:uuid;index"`
	Amount        int64      `gorm:"not null"`
	Currency      string     `gorm:"type:varchar(3);not null"`
	Type          string     `gorm:"type:varchar(16);not null"`
	Description   string     `gorm:"size:500"`
	Status        string     `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// User is the user record. Password and auth data live in the external auth
// service; only identity and contact fields are mirrored here.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"size:100;not null"`
	LastName  string    `gorm:"size:100;not null"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Account{}, &Transaction{})
}
