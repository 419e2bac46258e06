package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/shared/legacy"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IncidentService owns the incident lifecycle and the submit workflow:
// validation, incident persistence, resolution reconciliation and stock
// adjustment run as named stages inside one database transaction. The old
// gateway committed each stage independently and could leave an incident
// resolved with no resolution row, or stock drifted from the materials
// actually consumed; here a failed stage rolls back everything.
type IncidentService struct {
	db          *gorm.DB
	incidents   *repository.IncidentRepository
	resolutions *repository.ResolutionRepository
	products    *repository.ProductRepository
	movements   *repository.MovementRepository
	legacy      *legacy.Client
	dashboard   *DashboardService
	logger      *zap.Logger
}

func NewIncidentService(
	db *gorm.DB,
	incidents *repository.IncidentRepository,
	resolutions *repository.ResolutionRepository,
	products *repository.ProductRepository,
	movements *repository.MovementRepository,
	logger *zap.Logger,
) *IncidentService {
	return &IncidentService{
		db:          db,
		incidents:   incidents,
		resolutions: resolutions,
		products:    products,
		movements:   movements,
		logger:      logger,
	}
}

// SetLegacyClient enables the post-commit stock and resolution mirror push
// to the old gateway. Optional; nil disables mirroring.
func (s *IncidentService) SetLegacyClient(client *legacy.Client) {
	s.legacy = client
}

// SetDashboard enables dashboard cache invalidation after writes. Optional.
func (s *IncidentService) SetDashboard(dashboard *DashboardService) {
	s.dashboard = dashboard
}

// MaterialInput is one material line of a submit payload. Unit and UnitCost
// may be omitted; they are filled from the product's current values.
type MaterialInput struct {
	ProductID string   `json:"product_id" binding:"required"`
	Quantity  float64  `json:"quantity" binding:"required"`
	Unit      string   `json:"unit"`
	UnitCost  *float64 `json:"unit_cost"`
}

// ResolutionInput is the embedded resolution of a submit payload.
type ResolutionInput struct {
	ResolutionType   string          `json:"resolution_type"`
	ResolutionDate   *time.Time      `json:"resolution_date"`
	ActionsTaken     string          `json:"actions_taken"`
	LaborHours       float64         `json:"labor_hours"`
	TotalCost        float64         `json:"total_cost"`
	ResolvedBy       string          `json:"resolved_by"`
	QualityChecked   bool            `json:"quality_checked"`
	FollowUpRequired bool            `json:"follow_up_required"`
	Notes            string          `json:"notes"`
	Materials        []MaterialInput `json:"materials"`
}

// SubmitIncidentRequest carries the full incident plus optional resolution in
// one payload, so all stages commit or none do.
type SubmitIncidentRequest struct {
	OrganizationID string           `json:"organization_id" binding:"required"`
	ZoneID         string           `json:"zone_id"`
	Category       string           `json:"category" binding:"required"`
	Severity       string           `json:"severity"`
	Status         string           `json:"status"`
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	AssignedTo     *string          `json:"assigned_to"`
	AffectedBoxes  int              `json:"affected_boxes"`
	IncidentDate   *time.Time       `json:"incident_date"`
	Resolved       *bool            `json:"resolved"`
	Resolution     *ResolutionInput `json:"resolution"`
}

// SubmitResult reports what the workflow did, including non-blocking stock
// warnings and the informational note for resolved→unresolved edits.
type SubmitResult struct {
	Incident      *entity.Incident `json:"incident"`
	StockWarnings []string         `json:"stock_warnings,omitempty"`
	Info          string           `json:"info,omitempty"`
}

// ValidationError collects field-level problems; the handler maps it to 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

const minActionsTakenLength = 10

// validateSubmit checks the payload and derives the resolved flag from
// status. The old form kept "status" and "resolved" as two independently
// settable fields coupled by a change handler; they could disagree. Here
// resolved is derived, and a payload that contradicts its own status is
// rejected.
func validateSubmit(req *SubmitIncidentRequest) (bool, error) {
	fields := map[string]string{}

	if !contains(entity.ValidIncidentCategories, req.Category) {
		fields["category"] = "unknown category: " + req.Category
	}
	if req.Severity != "" && !contains(entity.ValidSeverities, req.Severity) {
		fields["severity"] = "unknown severity: " + req.Severity
	}
	if req.Status != "" && !contains(entity.ValidIncidentStatuses, req.Status) {
		fields["status"] = "unknown status: " + req.Status
	}
	if req.AffectedBoxes < 0 {
		fields["affected_boxes"] = "must be >= 0"
	}

	status := req.Status
	if status == "" {
		status = entity.IncidentStatusReported
	}
	resolved := status == entity.IncidentStatusResolved || status == entity.IncidentStatusClosed

	if req.Resolved != nil && *req.Resolved != resolved {
		fields["resolved"] = fmt.Sprintf("contradicts status %s", status)
	}

	if resolved {
		res := req.Resolution
		if res == nil {
			fields["resolution"] = "required when status is " + status
		} else {
			if res.ResolutionDate == nil {
				fields["resolution.resolution_date"] = "required"
			}
			if res.ResolutionType == "" {
				fields["resolution.resolution_type"] = "required"
			} else if !contains(entity.ValidResolutionTypes, res.ResolutionType) {
				fields["resolution.resolution_type"] = "unknown type: " + res.ResolutionType
			}
			if len(strings.TrimSpace(res.ActionsTaken)) < minActionsTakenLength {
				fields["resolution.actions_taken"] = fmt.Sprintf("at least %d characters", minActionsTakenLength)
			}
			if res.LaborHours < 0 {
				fields["resolution.labor_hours"] = "must be >= 0"
			}
			if res.TotalCost < 0 {
				fields["resolution.total_cost"] = "must be >= 0"
			}
			for i, m := range res.Materials {
				prefix := fmt.Sprintf("resolution.materials[%d].", i)
				if m.ProductID == "" {
					fields[prefix+"product_id"] = "required"
				}
				if m.Quantity < 1 {
					fields[prefix+"quantity"] = "must be >= 1"
				}
				if m.UnitCost != nil && *m.UnitCost < 0 {
					fields[prefix+"unit_cost"] = "must be >= 0"
				}
			}
		}
	} else if req.Resolution != nil {
		// Unresolved submits keep their resolution payload (the operator may
		// toggle back), but numeric fields still may not go negative.
		if req.Resolution.LaborHours < 0 {
			fields["resolution.labor_hours"] = "must be >= 0"
		}
		if req.Resolution.TotalCost < 0 {
			fields["resolution.total_cost"] = "must be >= 0"
		}
	}

	if len(fields) > 0 {
		return resolved, &ValidationError{Fields: fields}
	}
	return resolved, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// resolveMaterials fills unit and unit cost from the product catalog where
// the payload omitted them, and recomputes the resolution total cost as
// Σ quantity × unit cost. The submitted total is advisory and overwritten.
func resolveMaterials(res *ResolutionInput, products map[string]entity.Product) ([]entity.MaterialUsed, float64, error) {
	materials := make([]entity.MaterialUsed, 0, len(res.Materials))
	var materialCost float64

	for i, m := range res.Materials {
		product, ok := products[m.ProductID]
		if !ok {
			return nil, 0, &ValidationError{Fields: map[string]string{
				fmt.Sprintf("resolution.materials[%d].product_id", i): "unknown product: " + m.ProductID,
			}}
		}

		unit := m.Unit
		if unit == "" {
			unit = product.Unit
		}
		unitCost := product.UnitCost
		if m.UnitCost != nil {
			unitCost = *m.UnitCost
		}

		materials = append(materials, entity.MaterialUsed{
			ID:        uuid.New().String()[:32],
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			Unit:      unit,
			UnitCost:  unitCost,
		})
		materialCost += m.Quantity * unitCost
	}

	return materials, materialCost, nil
}

// stockWarnings compares requested quantities against current stock and
// returns one warning per shortage. Warnings never block the submit; the
// warehouse may hold uncounted remnants and field work cannot wait.
func stockWarnings(materials []entity.MaterialUsed, products map[string]entity.Product) []string {
	var warnings []string
	for _, m := range materials {
		product, ok := products[m.ProductID]
		if !ok {
			continue
		}
		if m.Quantity > product.CurrentStock {
			warnings = append(warnings, fmt.Sprintf(
				"producto %s: cantidad solicitada %.2f supera el stock disponible %.2f",
				product.Name, m.Quantity, product.CurrentStock))
		}
	}
	return warnings
}

// materialNetChanges builds the per-product net stock change for a resolution
// edit: old quantities are added back, new quantities subtracted. A product
// in both lists nets to (old − new); only in the old list, fully restored;
// only in the new list, newly decremented. Products absent from both
// contribute nothing.
func materialNetChanges(oldMaterials, newMaterials []entity.MaterialUsed) map[string]float64 {
	changes := make(map[string]float64)
	for _, m := range oldMaterials {
		changes[m.ProductID] += m.Quantity
	}
	for _, m := range newMaterials {
		changes[m.ProductID] -= m.Quantity
	}
	for id, delta := range changes {
		if delta == 0 {
			delete(changes, id)
		}
	}
	return changes
}

// Submit creates a new incident. incidentID == "" means create; otherwise
// the identified incident is updated. All stages run in one transaction.
func (s *IncidentService) Submit(ctx context.Context, incidentID, userID string, req *SubmitIncidentRequest) (*SubmitResult, error) {
	resolved, err := validateSubmit(req)
	if err != nil {
		return nil, err
	}

	// Load the product catalog rows this submit touches, for unit-cost
	// population and stock warnings.
	var productIDs []string
	if req.Resolution != nil {
		for _, m := range req.Resolution.Materials {
			productIDs = append(productIDs, m.ProductID)
		}
	}
	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	result := &SubmitResult{}
	var mirror []stockMirrorEntry
	var submittedResolution *entity.IncidentResolution

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		incidents := s.incidents.WithTx(tx)
		resolutions := s.resolutions.WithTx(tx)

		// Stage: PersistIncident
		var incident *entity.Incident
		var wasResolved bool
		var oldMaterials []entity.MaterialUsed

		if incidentID == "" {
			code, err := incidents.GenerateCode(ctx)
			if err != nil {
				return fmt.Errorf("generate incident code: %w", err)
			}
			incident = &entity.Incident{
				ID:   uuid.New().String()[:32],
				Code: code,
			}
		} else {
			existing, err := incidents.FindByID(ctx, incidentID)
			if err != nil {
				return fmt.Errorf("load incident: %w", err)
			}
			incident = existing
			wasResolved = existing.Resolved
			if existing.Resolution != nil {
				oldMaterials = existing.Resolution.Materials
			}
		}

		applySubmitFields(incident, req, resolved)
		if incidentID == "" {
			incident.ReportedBy = userID
			if err := incidents.Create(ctx, incident); err != nil {
				return fmt.Errorf("create incident: %w", err)
			}
		} else {
			if err := incidents.Update(ctx, incident); err != nil {
				return fmt.Errorf("update incident: %w", err)
			}
		}

		if !resolved {
			// Stage skipped: resolutions are never touched for unresolved
			// submits. A previously created resolution stays in place.
			if wasResolved {
				result.Info = "la resolución anterior permanece registrada en el sistema"
			}
			result.Incident = incident
			return nil
		}

		// Stage: ReconcileResolution. Exactly one resolution per incident.
		materials, materialCost, err := resolveMaterials(req.Resolution, products)
		if err != nil {
			return err
		}
		result.StockWarnings = stockWarnings(materials, products)

		totalCost := materialCost
		resolution, err := s.reconcileResolution(ctx, resolutions, incident.ID, req.Resolution, materials, totalCost, userID)
		if err != nil {
			return fmt.Errorf("reconcile resolution: %w", err)
		}
		submittedResolution = resolution

		// Stage: AdjustStock. Net changes between the previous material
		// list and the submitted one, applied as atomic deltas. Shortfalls
		// were already collected as warnings; consumption never blocks.
		changes := materialNetChanges(oldMaterials, materials)
		unitCosts := make(map[string]float64, len(materials))
		for _, m := range materials {
			unitCosts[m.ProductID] = m.UnitCost
		}
		if err := s.applyStockChanges(ctx, tx, changes, unitCosts, resolution.ID, userID); err != nil {
			return err
		}

		for productID, delta := range changes {
			mirror = append(mirror, stockMirrorEntry{ProductID: productID, Delta: delta})
		}

		result.Incident = incident
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, non-blocking: mirror corrected stock and the resolution
	// to the legacy gateway. Failure is logged and never surfaced; the
	// gateway copy is advisory.
	if s.legacy != nil && len(mirror) > 0 {
		go s.mirrorStock(mirror)
	}
	if s.legacy != nil && submittedResolution != nil {
		go s.mirrorResolution(submittedResolution)
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, req.OrganizationID)
	}

	// Return the fresh row with its resolution preloaded.
	full, err := s.incidents.FindByID(ctx, result.Incident.ID)
	if err == nil {
		result.Incident = full
	}
	return result, nil
}

func applySubmitFields(incident *entity.Incident, req *SubmitIncidentRequest, resolved bool) {
	incident.OrganizationID = req.OrganizationID
	incident.ZoneID = req.ZoneID
	incident.Category = req.Category
	incident.Title = req.Title
	incident.Description = req.Description
	incident.AssignedTo = req.AssignedTo
	incident.AffectedBoxes = req.AffectedBoxes

	if req.Severity != "" {
		incident.Severity = req.Severity
	} else if incident.Severity == "" {
		incident.Severity = entity.SeverityMedium
	}
	if req.Status != "" {
		incident.Status = req.Status
	} else if incident.Status == "" {
		incident.Status = entity.IncidentStatusReported
	}
	if req.IncidentDate != nil {
		incident.IncidentDate = *req.IncidentDate
	} else if incident.IncidentDate.IsZero() {
		incident.IncidentDate = time.Now()
	}
	if incident.RecordStatus == "" {
		incident.RecordStatus = entity.RecordStatusActive
	}

	incident.Resolved = resolved
	if resolved && incident.ResolvedAt == nil {
		now := time.Now()
		incident.ResolvedAt = &now
	}
	if !resolved {
		incident.ResolvedAt = nil
	}
}

// reconcileResolution ensures exactly one resolution row reflects the
// submitted data: an existing row is updated in place, no row means create.
// ErrNotFound and an empty lookup both take the create path.
func (s *IncidentService) reconcileResolution(
	ctx context.Context,
	resolutions *repository.ResolutionRepository,
	incidentID string,
	input *ResolutionInput,
	materials []entity.MaterialUsed,
	totalCost float64,
	userID string,
) (*entity.IncidentResolution, error) {
	existing, err := resolutions.FindByIncidentID(ctx, incidentID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup resolution: %w", err)
	}

	resolvedBy := input.ResolvedBy
	if resolvedBy == "" {
		resolvedBy = userID
	}

	var resolution *entity.IncidentResolution
	if len(existing) > 0 {
		resolution = &existing[0]
	} else {
		resolution = &entity.IncidentResolution{
			ID:         uuid.New().String()[:32],
			IncidentID: incidentID,
		}
	}

	resolution.ResolutionType = input.ResolutionType
	if input.ResolutionDate != nil {
		resolution.ResolutionDate = *input.ResolutionDate
	}
	resolution.ActionsTaken = input.ActionsTaken
	resolution.LaborHours = input.LaborHours
	resolution.TotalCost = totalCost
	resolution.ResolvedBy = resolvedBy
	resolution.QualityChecked = input.QualityChecked
	resolution.FollowUpRequired = input.FollowUpRequired
	resolution.Notes = input.Notes

	for i := range materials {
		materials[i].ResolutionID = resolution.ID
	}
	resolution.Materials = materials

	if len(existing) > 0 {
		if err := resolutions.Update(ctx, resolution); err != nil {
			return nil, fmt.Errorf("update resolution: %w", err)
		}
	} else {
		if err := resolutions.Create(ctx, resolution); err != nil {
			return nil, fmt.Errorf("create resolution: %w", err)
		}
	}
	return resolution, nil
}

// applyStockChanges applies a net-change map as atomic stock deltas and
// writes one ledger row per product touched. Decrements are unguarded: a
// requested quantity above the recorded stock warns on the submit result
// and drives the balance negative rather than rolling back the work.
func (s *IncidentService) applyStockChanges(
	ctx context.Context,
	tx *gorm.DB,
	changes map[string]float64,
	unitCosts map[string]float64,
	resolutionID, userID string,
) error {
	products := s.products.WithTx(tx)
	movements := s.movements.WithTx(tx)

	for productID, delta := range changes {
		if err := products.ConsumeStock(ctx, productID, delta); err != nil {
			return fmt.Errorf("adjust stock for %s: %w", productID, err)
		}

		movementType := entity.MovementTypeSalida
		if delta > 0 {
			movementType = entity.MovementTypeEntrada
		}
		movement := &entity.InventoryMovement{
			ID:            uuid.New().String()[:32],
			ProductID:     productID,
			MovementType:  movementType,
			Quantity:      delta,
			UnitCost:      unitCosts[productID],
			ReferenceType: entity.MovementRefResolution,
			ReferenceID:   resolutionID,
			CreatedBy:     userID,
		}
		if err := movements.Create(ctx, movement); err != nil {
			return fmt.Errorf("record movement for %s: %w", productID, err)
		}
	}
	return nil
}

type stockMirrorEntry struct {
	ProductID string
	Delta     float64
}

func (s *IncidentService) mirrorStock(entries []stockMirrorEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, e := range entries {
		product, err := s.products.FindByID(ctx, e.ProductID)
		if err != nil {
			s.logger.Warn("legacy stock mirror: load product failed",
				zap.String("product_id", e.ProductID), zap.Error(err))
			continue
		}
		doc, err := s.legacy.FetchProduct(ctx, e.ProductID)
		if err != nil {
			// No remote document; PATCH-only attempt.
			doc = nil
		}
		if err := s.legacy.PushStock(ctx, e.ProductID, product.CurrentStock, doc); err != nil {
			s.logger.Warn("legacy stock mirror failed",
				zap.String("product_id", e.ProductID),
				zap.Float64("stock", product.CurrentStock),
				zap.Error(err))
		}
	}
}

// mirrorResolution pushes the submitted resolution to the legacy gateway,
// which still feeds the billing kiosks their incident history. The gateway
// decides whether this is a create or an update; either way its identifier
// is only logged.
func (s *IncidentService) mirrorResolution(res *entity.IncidentResolution) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc := map[string]interface{}{
		"incidentId":     res.IncidentID,
		"resolutionType": res.ResolutionType,
		"resolutionDate": res.ResolutionDate.Format(time.RFC3339),
		"actionsTaken":   res.ActionsTaken,
		"laborHours":     res.LaborHours,
		"totalCost":      res.TotalCost,
	}
	remoteID, err := s.legacy.PushResolution(ctx, res.IncidentID, doc)
	if err != nil {
		s.logger.Warn("legacy resolution mirror failed",
			zap.String("incident_id", res.IncidentID), zap.Error(err))
		return
	}
	s.logger.Debug("legacy resolution mirrored",
		zap.String("incident_id", res.IncidentID),
		zap.String("legacy_id", remoteID))
}

// --- plain CRUD around the workflow ---

func (s *IncidentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Incident, int64, error) {
	return s.incidents.FindAll(ctx, page, pageSize, filters)
}

func (s *IncidentService) Get(ctx context.Context, id string) (*entity.Incident, error) {
	return s.incidents.FindByID(ctx, id)
}

// Delete soft-deletes an incident. Stock consumed by its resolution is NOT
// restored: the materials were physically used, and deactivating the record
// does not refill the warehouse. The ledger keeps the movements.
func (s *IncidentService) Delete(ctx context.Context, id string) error {
	return s.incidents.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

// Restore reactivates a soft-deleted incident along with its resolution,
// which was never detached.
func (s *IncidentService) Restore(ctx context.Context, id string) error {
	return s.incidents.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}

// AssignIncident sets the assignee and moves status to ASSIGNED if the
// incident is still only reported.
func (s *IncidentService) AssignIncident(ctx context.Context, id, assigneeID string) (*entity.Incident, error) {
	incident, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	incident.AssignedTo = &assigneeID
	if incident.Status == entity.IncidentStatusReported {
		incident.Status = entity.IncidentStatusAssigned
	}
	if err := s.incidents.Update(ctx, incident); err != nil {
		return nil, fmt.Errorf("assign incident: %w", err)
	}
	return incident, nil
}
