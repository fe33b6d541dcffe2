package models

import (
	"time"
)

type Role string

const (
	AdminRole    Role = "ADMIN"
	LandlordRole Role = "LANDLORD"
	RenterRole   Role = "RENTER"
)

// User is the local account. Registration, login and profile management
// live in a separate service; billing only needs the identity fields it
// attaches to the Stripe customer record.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role" gorm:"type:varchar(20);default:'LANDLORD'"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
