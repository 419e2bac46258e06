package service

import (
	"context"
	"fmt"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/google/uuid"
)

// OrganizationService manages JASS boards and their zone/street hierarchy.
type OrganizationService struct {
	orgs    *repository.OrganizationRepository
	zones   *repository.ZoneRepository
	streets *repository.StreetRepository
}

func NewOrganizationService(
	orgs *repository.OrganizationRepository,
	zones *repository.ZoneRepository,
	streets *repository.StreetRepository,
) *OrganizationService {
	return &OrganizationService{orgs: orgs, zones: zones, streets: streets}
}

type OrganizationRequest struct {
	Name      string `json:"name" binding:"required"`
	LegalName string `json:"legal_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	District  string `json:"district"`
	Province  string `json:"province"`
	Region    string `json:"region"`
}

func (s *OrganizationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Organization, int64, error) {
	return s.orgs.FindAll(ctx, page, pageSize, filters)
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*entity.Organization, error) {
	return s.orgs.FindByID(ctx, id)
}

func (s *OrganizationService) Create(ctx context.Context, req *OrganizationRequest) (*entity.Organization, error) {
	code, err := s.orgs.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	org := &entity.Organization{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		LegalName:    req.LegalName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		District:     req.District,
		Province:     req.Province,
		Region:       req.Region,
		RecordStatus: entity.RecordStatusActive,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Update(ctx context.Context, id string, req *OrganizationRequest) (*entity.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	org.Name = req.Name
	org.LegalName = req.LegalName
	org.Phone = req.Phone
	org.Email = req.Email
	org.Address = req.Address
	org.District = req.District
	org.Province = req.Province
	org.Region = req.Region
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Delete(ctx context.Context, id string) error {
	return s.orgs.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

func (s *OrganizationService) Restore(ctx context.Context, id string) error {
	return s.orgs.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}

// --- zones ---

type ZoneRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
}

func (s *OrganizationService) ListZones(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Zone, int64, error) {
	return s.zones.FindAll(ctx, page, pageSize, filters)
}

func (s *OrganizationService) GetZone(ctx context.Context, id string) (*entity.Zone, error) {
	return s.zones.FindByID(ctx, id)
}

func (s *OrganizationService) CreateZone(ctx context.Context, req *ZoneRequest) (*entity.Zone, error) {
	// Referential check: the parent organization must exist and be active.
	org, err := s.orgs.FindByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.RecordStatus != entity.RecordStatusActive {
		return nil, &ValidationError{Fields: map[string]string{
			"organization_id": "organization is inactive",
		}}
	}

	zone := &entity.Zone{
		ID:             uuid.New().String()[:32],
		OrganizationID: req.OrganizationID,
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		RecordStatus:   entity.RecordStatusActive,
	}
	if err := s.zones.Create(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *OrganizationService) UpdateZone(ctx context.Context, id string, req *ZoneRequest) (*entity.Zone, error) {
	zone, err := s.zones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	zone.Code = req.Code
	zone.Name = req.Name
	zone.Description = req.Description
	if err := s.zones.Update(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *OrganizationService) DeleteZone(ctx context.Context, id string) error {
	return s.zones.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

func (s *OrganizationService) RestoreZone(ctx context.Context, id string) error {
	return s.zones.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}

// --- streets ---

type StreetRequest struct {
	ZoneID     string `json:"zone_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	StreetType string `json:"street_type"`
}

func (s *OrganizationService) ListStreets(ctx context.Context, zoneID string) ([]entity.Street, error) {
	return s.streets.FindByZone(ctx, zoneID)
}

func (s *OrganizationService) CreateStreet(ctx context.Context, req *StreetRequest) (*entity.Street, error) {
	if _, err := s.zones.FindByID(ctx, req.ZoneID); err != nil {
		return nil, err
	}
	street := &entity.Street{
		ID:           uuid.New().String()[:32],
		ZoneID:       req.ZoneID,
		Name:         req.Name,
		StreetType:   req.StreetType,
		RecordStatus: entity.RecordStatusActive,
	}
	if err := s.streets.Create(ctx, street); err != nil {
		return nil, err
	}
	return street, nil
}

func (s *OrganizationService) UpdateStreet(ctx context.Context, id string, req *StreetRequest) (*entity.Street, error) {
	street, err := s.streets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	street.Name = req.Name
	street.StreetType = req.StreetType
	if err := s.streets.Update(ctx, street); err != nil {
		return nil, err
	}
	return street, nil
}

func (s *OrganizationService) DeleteStreet(ctx context.Context, id string) error {
	return s.streets.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}
