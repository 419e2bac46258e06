package service

import (
	"strings"
	"testing"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
)

func mat(productID string, qty float64) entity.MaterialUsed {
	return entity.MaterialUsed{ProductID: productID, Quantity: qty}
}

func TestMaterialNetChanges(t *testing.T) {
	tests := []struct {
		name string
		old  []entity.MaterialUsed
		new  []entity.MaterialUsed
		want map[string]float64
	}{
		{
			name: "create path: all new materials decrement",
			old:  nil,
			new:  []entity.MaterialUsed{mat("p1", 5), mat("p2", 2)},
			want: map[string]float64{"p1": -5, "p2": -2},
		},
		{
			name: "reduced quantity restores the difference",
			old:  []entity.MaterialUsed{mat("p1", 5)},
			new:  []entity.MaterialUsed{mat("p1", 3)},
			want: map[string]float64{"p1": 2},
		},
		{
			name: "increased quantity decrements the difference",
			old:  []entity.MaterialUsed{mat("p1", 3)},
			new:  []entity.MaterialUsed{mat("p1", 5)},
			want: map[string]float64{"p1": -2},
		},
		{
			name: "removed material is fully restored",
			old:  []entity.MaterialUsed{mat("p1", 4), mat("p2", 1)},
			new:  []entity.MaterialUsed{mat("p2", 1)},
			want: map[string]float64{"p1": 4},
		},
		{
			name: "unchanged quantity drops out of the map",
			old:  []entity.MaterialUsed{mat("p1", 4)},
			new:  []entity.MaterialUsed{mat("p1", 4)},
			want: map[string]float64{},
		},
		{
			name: "mixed edit",
			old:  []entity.MaterialUsed{mat("p1", 5), mat("p2", 2)},
			new:  []entity.MaterialUsed{mat("p1", 3), mat("p3", 1)},
			want: map[string]float64{"p1": 2, "p2": 2, "p3": -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := materialNetChanges(tt.old, tt.new)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for id, delta := range tt.want {
				if got[id] != delta {
					t.Errorf("product %s: got %v, want %v", id, got[id], delta)
				}
			}
		})
	}
}

func TestMaterialNetChangesIdempotent(t *testing.T) {
	// Resubmitting the same material list must produce no changes; the
	// workflow can be retried without double-decrementing stock.
	materials := []entity.MaterialUsed{mat("p1", 5), mat("p2", 3)}
	if got := materialNetChanges(materials, materials); len(got) != 0 {
		t.Fatalf("resubmit of identical materials produced changes: %v", got)
	}
}

func validResolvedRequest() *SubmitIncidentRequest {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &SubmitIncidentRequest{
		OrganizationID: "org1",
		Category:       entity.IncidentCategoryDistribucion,
		Severity:       entity.SeverityHigh,
		Status:         entity.IncidentStatusResolved,
		Title:          "Fuga en calle principal",
		Resolution: &ResolutionInput{
			ResolutionType: entity.ResolutionTypeRepair,
			ResolutionDate: &date,
			ActionsTaken:   "Se reemplazó la tubería dañada en el tramo afectado",
			LaborHours:     2,
			ResolvedBy:     "user1",
			Materials:      []MaterialInput{{ProductID: "p1", Quantity: 5}},
		},
	}
}

func TestValidateSubmitDerivesResolvedFromStatus(t *testing.T) {
	req := validResolvedRequest()
	resolved, err := validateSubmit(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resolved {
		t.Error("status RESOLVED must derive resolved=true")
	}

	req.Status = entity.IncidentStatusInProgress
	req.Resolution = nil
	resolved, err = validateSubmit(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved {
		t.Error("status IN_PROGRESS must derive resolved=false")
	}
}

func TestValidateSubmitRejectsContradictoryResolvedFlag(t *testing.T) {
	req := validResolvedRequest()
	flag := false
	req.Resolved = &flag

	if _, err := validateSubmit(req); err == nil {
		t.Fatal("resolved=false with status RESOLVED must be rejected")
	} else {
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("want *ValidationError, got %T", err)
		}
		if _, found := verr.Fields["resolved"]; !found {
			t.Errorf("expected field error on resolved, got %v", verr.Fields)
		}
	}
}

func TestValidateSubmitResolutionRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitIncidentRequest)
		wantKey string
	}{
		{
			name:    "missing resolution when resolved",
			mutate:  func(r *SubmitIncidentRequest) { r.Resolution = nil },
			wantKey: "resolution",
		},
		{
			name:    "actions taken too short",
			mutate:  func(r *SubmitIncidentRequest) { r.Resolution.ActionsTaken = "corto" },
			wantKey: "resolution.actions_taken",
		},
		{
			name:    "negative labor hours",
			mutate:  func(r *SubmitIncidentRequest) { r.Resolution.LaborHours = -1 },
			wantKey: "resolution.labor_hours",
		},
		{
			name:    "material quantity below one",
			mutate:  func(r *SubmitIncidentRequest) { r.Resolution.Materials[0].Quantity = 0 },
			wantKey: "resolution.materials[0].quantity",
		},
		{
			name:    "missing resolution date",
			mutate:  func(r *SubmitIncidentRequest) { r.Resolution.ResolutionDate = nil },
			wantKey: "resolution.resolution_date",
		},
		{
			name:    "unknown resolution type",
			mutate:  func(r *SubmitIncidentRequest) { r.Resolution.ResolutionType = "DEMOLICION" },
			wantKey: "resolution.resolution_type",
		},
		{
			name:    "unknown category",
			mutate:  func(r *SubmitIncidentRequest) { r.Category = "OTRA_COSA" },
			wantKey: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validResolvedRequest()
			tt.mutate(req)
			_, err := validateSubmit(req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("want *ValidationError, got %T", err)
			}
			if _, found := verr.Fields[tt.wantKey]; !found {
				t.Errorf("expected field error on %q, got %v", tt.wantKey, verr.Fields)
			}
		})
	}
}

func TestValidateSubmitIsIdempotent(t *testing.T) {
	// validateSubmit must not mutate its input; running it twice on the
	// same payload yields the same verdict.
	req := validResolvedRequest()
	if _, err := validateSubmit(req); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if _, err := validateSubmit(req); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if req.Resolution.Materials[0].Quantity != 5 {
		t.Error("validateSubmit mutated the payload")
	}
}

func TestResolveMaterialsComputesCost(t *testing.T) {
	products := map[string]entity.Product{
		"p1": {ID: "p1", Name: "Tubería PVC", Unit: "unidad", UnitCost: 12.5, CurrentStock: 20},
		"p2": {ID: "p2", Name: "Pegamento", Unit: "frasco", UnitCost: 8, CurrentStock: 4},
	}
	override := 10.0
	input := &ResolutionInput{
		TotalCost: 9999, // advisory; must be recomputed
		Materials: []MaterialInput{
			{ProductID: "p1", Quantity: 4},
			{ProductID: "p2", Quantity: 2, UnitCost: &override},
		},
	}

	materials, cost, err := resolveMaterials(input, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 4*12.5 + 2*10.0; cost != want {
		t.Errorf("total cost = %v, want %v", cost, want)
	}
	if materials[0].Unit != "unidad" || materials[0].UnitCost != 12.5 {
		t.Errorf("catalog defaults not applied: %+v", materials[0])
	}
	if materials[1].UnitCost != 10 {
		t.Errorf("explicit unit cost not honored: %+v", materials[1])
	}
}

func TestResolveMaterialsRejectsUnknownProduct(t *testing.T) {
	input := &ResolutionInput{Materials: []MaterialInput{{ProductID: "ghost", Quantity: 1}}}
	if _, _, err := resolveMaterials(input, map[string]entity.Product{}); err == nil {
		t.Fatal("unknown product must be rejected")
	}
}

func TestStockWarningsCarryQuantityAndStock(t *testing.T) {
	products := map[string]entity.Product{
		"p1": {ID: "p1", Name: "Tubería PVC", CurrentStock: 3},
		"p2": {ID: "p2", Name: "Pegamento", CurrentStock: 10},
	}
	materials := []entity.MaterialUsed{mat("p1", 5), mat("p2", 2)}

	warnings := stockWarnings(materials, products)
	if len(warnings) != 1 {
		t.Fatalf("want 1 warning, got %d: %v", len(warnings), warnings)
	}
	// The warning must name the product and carry both the requested
	// quantity and the available stock.
	w := warnings[0]
	for _, fragment := range []string{"Tubería PVC", "5.00", "3.00"} {
		if !strings.Contains(w, fragment) {
			t.Errorf("warning %q missing %q", w, fragment)
		}
	}
}
