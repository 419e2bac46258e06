package entity

import "time"

// User is an operator, administrator or client account.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	OrganizationID string     `json:"organization_id" gorm:"size:32;index"`
	Username       string     `json:"username" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash   string     `json:"-" gorm:"size:100;not null"`
	FullName       string     `json:"full_name" gorm:"size:200;not null"`
	DocumentNumber string     `json:"document_number" gorm:"size:20"`
	Email          string     `json:"email" gorm:"size:200"`
	Phone          string     `json:"phone" gorm:"size:50"`
	Role           string     `json:"role" gorm:"size:20;default:OPERATOR"`
	RecordStatus   string     `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Roles
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
	RoleClient   = "CLIENT"
)
