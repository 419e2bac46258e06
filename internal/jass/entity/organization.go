package entity

import "time"

// Organization is a JASS board administering one water system.
type Organization struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	LegalName    string    `json:"legal_name" gorm:"size:200"`
	Phone        string    `json:"phone" gorm:"size:50"`
	Email        string    `json:"email" gorm:"size:200"`
	Address      string    `json:"address" gorm:"size:500"`
	District     string    `json:"district" gorm:"size:100"`
	Province     string    `json:"province" gorm:"size:100"`
	Region       string    `json:"region" gorm:"size:100"`
	RecordStatus string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Zones []Zone `json:"zones,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (Organization) TableName() string {
	return "organizations"
}

// Zone is a supply sector inside an organization.
type Zone struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	OrganizationID string    `json:"organization_id" gorm:"size:32;not null;index"`
	Code           string    `json:"code" gorm:"size:32;not null"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	Description    string    `json:"description" gorm:"type:text"`
	RecordStatus   string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Streets []Street `json:"streets,omitempty" gorm:"foreignKey:ZoneID"`
}

func (Zone) TableName() string {
	return "zones"
}

// Street belongs to a zone; water boxes hang off streets.
type Street struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ZoneID       string    `json:"zone_id" gorm:"size:32;not null;index"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	StreetType   string    `json:"street_type" gorm:"size:50"` // CALLE, JIRON, AVENIDA, PASAJE
	RecordStatus string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Street) TableName() string {
	return "streets"
}

// Record status (soft delete marker, restorable)
const (
	RecordStatusActive   = "ACTIVE"
	RecordStatusInactive = "INACTIVE"
)
