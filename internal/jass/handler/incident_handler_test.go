package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/testutil"
	"go.uber.org/zap"
)

func setupIncidentTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewIncidentService(
		db,
		repos.Incident,
		repos.Resolution,
		repos.Product,
		repos.Movement,
		zap.NewNop(),
	)
	svc.SetDashboard(service.NewDashboardService(repos.Incident, repos.Product, repos.Payment, nil, zap.NewNop()))
	h := NewIncidentHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/incidents", h.ListIncidents)
	api.GET("/incidents/:id", h.GetIncident)
	api.POST("/incidents", h.SubmitIncident)
	api.PUT("/incidents/:id", h.UpdateIncident)
	api.DELETE("/incidents/:id", h.DeleteIncident)
	api.POST("/incidents/:id/restore", h.RestoreIncident)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func incidentPayload(resolved bool, productID string, qty float64) map[string]interface{} {
	payload := map[string]interface{}{
		"organization_id": "test-org-001",
		"category":        entity.IncidentCategoryDistribucion,
		"severity":        entity.SeverityHigh,
		"title":           "Fuga en la red principal",
		"description":     "Fuga visible frente al local comunal",
		"affected_boxes":  12,
	}
	if resolved {
		payload["status"] = entity.IncidentStatusResolved
		payload["resolution"] = map[string]interface{}{
			"resolution_type": entity.ResolutionTypeRepair,
			"resolution_date": time.Now().Format(time.RFC3339),
			"actions_taken":   "Se excavó y reemplazó el tramo de tubería dañado",
			"labor_hours":     3,
			"materials": []map[string]interface{}{
				{"product_id": productID, "quantity": qty},
			},
		}
	} else {
		payload["status"] = entity.IncidentStatusReported
	}
	return payload
}

func productStock(t *testing.T, env *testutil.TestEnv, productID string) float64 {
	t.Helper()
	var product entity.Product
	if err := env.DB.First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.CurrentStock
}

func TestSubmitUnresolvedIncidentTouchesNoStock(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 20, 12.5)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(false, "", 0), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if stock := productStock(t, env, "prod-001"); stock != 20 {
		t.Errorf("stock changed on unresolved submit: %v", stock)
	}

	var count int64
	env.DB.Model(&entity.IncidentResolution{}).Count(&count)
	if count != 0 {
		t.Errorf("resolution rows created on unresolved submit: %d", count)
	}
}

func TestSubmitResolvedIncidentEndToEnd(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 20, 12.5)
	token := testutil.DefaultTestToken()

	// Create resolved with 5 units: stock 20 -> 15.
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(true, "prod-001", 5), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	incident := data["incident"].(map[string]interface{})
	incidentID := incident["id"].(string)

	if stock := productStock(t, env, "prod-001"); stock != 15 {
		t.Fatalf("after create: stock = %v, want 15", stock)
	}

	// Edit down to 3 units: net +2, stock 15 -> 17.
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/incidents/"+incidentID,
		incidentPayload(true, "prod-001", 3), token)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status = %d, body = %s", w.Code, w.Body.String())
	}

	if stock := productStock(t, env, "prod-001"); stock != 17 {
		t.Fatalf("after edit: stock = %v, want 17", stock)
	}

	// Still exactly one resolution for the incident.
	var resolutions []entity.IncidentResolution
	env.DB.Where("incident_id = ?", incidentID).Find(&resolutions)
	if len(resolutions) != 1 {
		t.Fatalf("resolution rows = %d, want 1", len(resolutions))
	}
	if resolutions[0].TotalCost != 3*12.5 {
		t.Errorf("total cost = %v, want %v", resolutions[0].TotalCost, 3*12.5)
	}

	// Two ledger rows: the -5 SALIDA from the create and the +2 ENTRADA
	// from the edit.
	var movements []entity.InventoryMovement
	env.DB.Where("product_id = ?", "prod-001").Find(&movements)
	if len(movements) != 2 {
		t.Fatalf("movement rows = %d, want 2", len(movements))
	}
	byQty := map[float64]string{}
	for _, m := range movements {
		byQty[m.Quantity] = m.MovementType
	}
	if byQty[-5] != entity.MovementTypeSalida {
		t.Errorf("missing -5 SALIDA movement: %v", byQty)
	}
	if byQty[2] != entity.MovementTypeEntrada {
		t.Errorf("missing +2 ENTRADA movement: %v", byQty)
	}
}

func TestSubmitRejectsContradictoryResolvedFlag(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 20, 12.5)
	token := testutil.DefaultTestToken()

	payload := incidentPayload(true, "prod-001", 5)
	payload["resolved"] = false

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents", payload, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}

	// Nothing persisted.
	var count int64
	env.DB.Model(&entity.Incident{}).Count(&count)
	if count != 0 {
		t.Errorf("incident rows = %d, want 0", count)
	}
	if stock := productStock(t, env, "prod-001"); stock != 20 {
		t.Errorf("stock = %v, want 20", stock)
	}
}

func TestSubmitRejectsShortActionsTaken(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 20, 12.5)
	token := testutil.DefaultTestToken()

	payload := incidentPayload(true, "prod-001", 5)
	payload["resolution"].(map[string]interface{})["actions_taken"] = "corto"

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents", payload, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestSubmitWarnsOnInsufficientStockButProceeds(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 3, 12.5)
	token := testutil.DefaultTestToken()

	// 5 units requested against 3 in stock: the submit goes through with a
	// warning carrying both quantities.
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(true, "prod-001", 5), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	warnings, _ := data["stock_warnings"].([]interface{})
	if len(warnings) != 1 {
		t.Fatalf("stock_warnings = %v, want exactly one", data["stock_warnings"])
	}
	warning := warnings[0].(string)
	for _, fragment := range []string{"Tubería PVC 1/2", "5.00", "3.00"} {
		if !strings.Contains(warning, fragment) {
			t.Errorf("warning %q missing %q", warning, fragment)
		}
	}

	// Consumption is recorded in full; the balance goes negative until a
	// recount corrects it.
	if stock := productStock(t, env, "prod-001"); stock != -2 {
		t.Errorf("stock = %v, want -2", stock)
	}

	var movement entity.InventoryMovement
	env.DB.Where("product_id = ?", "prod-001").First(&movement)
	if movement.MovementType != entity.MovementTypeSalida || movement.Quantity != -5 {
		t.Errorf("movement = %+v, want SALIDA with quantity -5", movement)
	}
}

func TestSubmitWithinStockCarriesNoWarning(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 5, 12.5)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(true, "prod-001", 5), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if warnings, ok := data["stock_warnings"]; ok && warnings != nil {
		t.Errorf("stock_warnings = %v, want none for quantity <= stock", warnings)
	}
	if stock := productStock(t, env, "prod-001"); stock != 0 {
		t.Errorf("stock = %v, want 0", stock)
	}
}

func TestResolvedToUnresolvedKeepsResolution(t *testing.T) {
	env := setupIncidentTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 20, 12.5)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(true, "prod-001", 5), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	incidentID := resp["data"].(map[string]interface{})["incident"].(map[string]interface{})["id"].(string)

	// Flip back to IN_PROGRESS: resolution row stays, stock untouched.
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/incidents/"+incidentID,
		incidentPayload(false, "", 0), token)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if info, _ := data["info"].(string); info == "" {
		t.Error("expected informational note about the retained resolution")
	}

	var count int64
	env.DB.Model(&entity.IncidentResolution{}).Where("incident_id = ?", incidentID).Count(&count)
	if count != 1 {
		t.Errorf("resolution rows = %d, want 1", count)
	}
	if stock := productStock(t, env, "prod-001"); stock != 15 {
		t.Errorf("stock = %v, want 15", stock)
	}
}

func TestSoftDeleteAndRestoreIncident(t *testing.T) {
	env := setupIncidentTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(false, "", 0), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	incidentID := resp["data"].(map[string]interface{})["incident"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/incidents/"+incidentID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}

	// Default listing hides inactive records.
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/incidents", nil, token)
	resp = testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 0 {
		t.Errorf("active listing shows %d items, want 0", len(items))
	}

	// record_status=ALL shows it.
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/incidents?record_status=ALL", nil, token)
	resp = testutil.ParseResponse(w)
	items = resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("ALL listing shows %d items, want 1", len(items))
	}

	w = testutil.DoRequest(env.Router, http.MethodPost,
		fmt.Sprintf("/api/v1/incidents/%s/restore", incidentID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("restore: status = %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/incidents", nil, token)
	resp = testutil.ParseResponse(w)
	items = resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("after restore listing shows %d items, want 1", len(items))
	}
}

func TestSubmitRequiresAuth(t *testing.T) {
	env := setupIncidentTest(t)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/incidents",
		incidentPayload(false, "", 0), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
