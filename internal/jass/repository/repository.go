package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a guarded stock decrement would
	// drive a product's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repositories bundles every repository over one gorm handle.
type Repositories struct {
	Organization *OrganizationRepository
	Zone         *ZoneRepository
	Street       *StreetRepository
	User         *UserRepository
	Incident     *IncidentRepository
	Resolution   *ResolutionRepository
	Product      *ProductRepository
	Movement     *MovementRepository
	Purchase     *PurchaseRepository
	Distribution *DistributionRepository
	WaterBox     *WaterBoxRepository
	Payment      *PaymentRepository
}

// NewRepositories creates the repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Organization: NewOrganizationRepository(db),
		Zone:         NewZoneRepository(db),
		Street:       NewStreetRepository(db),
		User:         NewUserRepository(db),
		Incident:     NewIncidentRepository(db),
		Resolution:   NewResolutionRepository(db),
		Product:      NewProductRepository(db),
		Movement:     NewMovementRepository(db),
		Purchase:     NewPurchaseRepository(db),
		Distribution: NewDistributionRepository(db),
		WaterBox:     NewWaterBoxRepository(db),
		Payment:      NewPaymentRepository(db),
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
