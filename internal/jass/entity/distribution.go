package entity

import "time"

// DistributionSchedule defines when a zone receives water and who operates
// the valves that day.
type DistributionSchedule struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	OrganizationID string    `json:"organization_id" gorm:"size:32;not null;index"`
	ZoneID         string    `json:"zone_id" gorm:"size:32;not null;index"`
	DayOfWeek      string    `json:"day_of_week" gorm:"size:10;not null"` // LUNES..DOMINGO
	StartTime      string    `json:"start_time" gorm:"size:5;not null"`   // HH:MM
	EndTime        string    `json:"end_time" gorm:"size:5;not null"`
	ResponsibleID  string    `json:"responsible_id" gorm:"size:32"`
	Observations   string    `json:"observations" gorm:"type:text"`
	RecordStatus   string    `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (DistributionSchedule) TableName() string {
	return "distribution_schedules"
}

// Days of week accepted by schedules.
var ValidScheduleDays = []string{
	"LUNES", "MARTES", "MIERCOLES", "JUEVES", "VIERNES", "SABADO", "DOMINGO",
}
