package entity

import "time"

// Incident is a reported water-service problem tracked through a status
// lifecycle. Records are soft-deleted: RecordStatus flips to INACTIVE and the
// row is restorable, never physically removed.
type Incident struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	Code           string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	OrganizationID string     `json:"organization_id" gorm:"size:32;not null;index"`
	ZoneID         string     `json:"zone_id" gorm:"size:32;index"`
	Category       string     `json:"category" gorm:"size:30;not null"`
	Severity       string     `json:"severity" gorm:"size:20;not null;default:MEDIUM"`
	Status         string     `json:"status" gorm:"size:20;not null;default:REPORTED;index"`
	Resolved       bool       `json:"resolved" gorm:"default:false"`
	RecordStatus   string     `json:"record_status" gorm:"size:20;default:ACTIVE;index"`
	Title          string     `json:"title" gorm:"size:200;not null"`
	Description    string     `json:"description" gorm:"type:text"`
	ReportedBy     string     `json:"reported_by" gorm:"size:32"`
	AssignedTo     *string    `json:"assigned_to" gorm:"size:32"`
	AffectedBoxes  int        `json:"affected_boxes" gorm:"default:0"`
	IncidentDate   time.Time  `json:"incident_date"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Resolution *IncidentResolution `json:"resolution,omitempty" gorm:"foreignKey:IncidentID"`
}

func (Incident) TableName() string {
	return "incidents"
}

// Incident categories
const (
	IncidentCategoryDistribucion    = "DISTRIBUCION"
	IncidentCategoryCalidadAgua     = "CALIDAD_AGUA"
	IncidentCategoryInfraestructura = "INFRAESTRUCTURA"
	IncidentCategoryFacturacion     = "FACTURACION"
	IncidentCategoryAtencionCliente = "ATENCION_CLIENTE"
)

// Incident severities
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Incident statuses
const (
	IncidentStatusReported   = "REPORTED"
	IncidentStatusAssigned   = "ASSIGNED"
	IncidentStatusInProgress = "IN_PROGRESS"
	IncidentStatusResolved   = "RESOLVED"
	IncidentStatusClosed     = "CLOSED"
)

// ValidIncidentCategories lists the accepted category values.
var ValidIncidentCategories = []string{
	IncidentCategoryDistribucion,
	IncidentCategoryCalidadAgua,
	IncidentCategoryInfraestructura,
	IncidentCategoryFacturacion,
	IncidentCategoryAtencionCliente,
}

// ValidIncidentStatuses lists the accepted status values.
var ValidIncidentStatuses = []string{
	IncidentStatusReported,
	IncidentStatusAssigned,
	IncidentStatusInProgress,
	IncidentStatusResolved,
	IncidentStatusClosed,
}

// ValidSeverities lists the accepted severity values.
var ValidSeverities = []string{
	SeverityLow,
	SeverityMedium,
	SeverityHigh,
	SeverityCritical,
}

// IncidentResolution records how an incident was fixed. At most one
// resolution exists per incident; its materials list is the source of truth
// for stock movements.
type IncidentResolution struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	IncidentID        string    `json:"incident_id" gorm:"size:32;not null;index"`
	ResolutionType    string    `json:"resolution_type" gorm:"size:30;not null"`
	ResolutionDate    time.Time `json:"resolution_date"`
	ActionsTaken      string    `json:"actions_taken" gorm:"type:text;not null"`
	LaborHours        float64   `json:"labor_hours" gorm:"type:decimal(8,2);default:0"`
	TotalCost         float64   `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	ResolvedBy        string    `json:"resolved_by" gorm:"size:32"`
	QualityChecked    bool      `json:"quality_checked" gorm:"default:false"`
	FollowUpRequired  bool      `json:"follow_up_required" gorm:"default:false"`
	Notes             string    `json:"notes" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Materials []MaterialUsed `json:"materials,omitempty" gorm:"foreignKey:ResolutionID"`
}

func (IncidentResolution) TableName() string {
	return "incident_resolutions"
}

// Resolution types
const (
	ResolutionTypeRepair      = "REPARACION"
	ResolutionTypeReplacement = "REEMPLAZO"
	ResolutionTypeMaintenance = "MANTENIMIENTO"
	ResolutionTypeCleaning    = "LIMPIEZA"
	ResolutionTypeOther       = "OTRO"
)

// ValidResolutionTypes lists the accepted resolution type values.
var ValidResolutionTypes = []string{
	ResolutionTypeRepair,
	ResolutionTypeReplacement,
	ResolutionTypeMaintenance,
	ResolutionTypeCleaning,
	ResolutionTypeOther,
}

// MaterialUsed is one material line of a resolution. UnitCost is snapshotted
// at time of use and not re-fetched when the product price later changes.
type MaterialUsed struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ResolutionID string    `json:"resolution_id" gorm:"size:32;not null;index"`
	ProductID    string    `json:"product_id" gorm:"size:32;not null;index"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit         string    `json:"unit" gorm:"size:20;not null"`
	UnitCost     float64   `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

func (MaterialUsed) TableName() string {
	return "resolution_materials"
}
