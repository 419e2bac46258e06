package handler

import (
	"net/http"
	"testing"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/testutil"
	"go.uber.org/zap"
)

func setupBillingTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewBillingService(db, repos.WaterBox, repos.Payment)
	svc.SetDashboard(service.NewDashboardService(repos.Incident, repos.Product, repos.Payment, nil, zap.NewNop()))
	h := NewBillingHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/water-boxes", h.CreateBox)
	api.GET("/water-boxes/:id/debt", h.BoxDebt)
	api.POST("/payments", h.RegisterPayment)
	api.POST("/payments/:id/void", h.VoidPayment)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createTestBox(t *testing.T, env *testutil.TestEnv, token string) string {
	t.Helper()
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/water-boxes", map[string]interface{}{
		"organization_id": "test-org-001",
		"box_type":        "DOMESTICO",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create box: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})["id"].(string)
}

func registerPayment(t *testing.T, env *testutil.TestEnv, token, boxID string, months []string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"organization_id": "test-org-001",
		"water_box_id":    boxID,
		"amount":          "15.00",
		"payment_method":  "EFECTIVO",
		"months_covered":  months,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("register payment: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestReceiptNumbersAreSequential(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()
	boxID := createTestBox(t, env, token)

	first := registerPayment(t, env, token, boxID, []string{"2026-01"})
	second := registerPayment(t, env, token, boxID, []string{"2026-02"})

	n1 := int(first["receipt_number"].(float64))
	n2 := int(second["receipt_number"].(float64))
	if n2 != n1+1 {
		t.Errorf("receipt numbers %d, %d: want consecutive", n1, n2)
	}
	if first["receipt_series"].(string) != "B001" {
		t.Errorf("default series = %s, want B001", first["receipt_series"])
	}
}

func TestRegisterPaymentValidation(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()
	boxID := createTestBox(t, env, token)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "non-positive amount",
			payload: map[string]interface{}{
				"organization_id": "test-org-001",
				"water_box_id":    boxID,
				"amount":          "0",
				"months_covered":  []string{"2026-01"},
			},
		},
		{
			name: "malformed month",
			payload: map[string]interface{}{
				"organization_id": "test-org-001",
				"water_box_id":    boxID,
				"amount":          "15.00",
				"months_covered":  []string{"2026-13"},
			},
		},
		{
			name: "duplicate month",
			payload: map[string]interface{}{
				"organization_id": "test-org-001",
				"water_box_id":    boxID,
				"amount":          "15.00",
				"months_covered":  []string{"2026-01", "2026-01"},
			},
		},
		{
			name: "unknown payment method",
			payload: map[string]interface{}{
				"organization_id": "test-org-001",
				"water_box_id":    boxID,
				"amount":          "15.00",
				"payment_method":  "CHEQUE",
				"months_covered":  []string{"2026-01"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/payments", tt.payload, token)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestVoidedPaymentLeavesDebt(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()
	boxID := createTestBox(t, env, token)

	payment := registerPayment(t, env, token, boxID, []string{"2026-01", "2026-02"})
	paymentID := payment["id"].(string)

	// Before voiding: both months paid.
	w := testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/water-boxes/"+boxID+"/debt?from=2026-01", nil, token)
	resp := testutil.ParseResponse(w)
	owed := resp["data"].(map[string]interface{})["owed_months"]
	owedList, _ := owed.([]interface{})
	for _, m := range owedList {
		if m == "2026-01" || m == "2026-02" {
			t.Errorf("month %v owed despite payment", m)
		}
	}

	w = testutil.DoRequest(env.Router, http.MethodPost,
		"/api/v1/payments/"+paymentID+"/void",
		map[string]interface{}{"reason": "monto erróneo"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("void: status = %d, body = %s", w.Code, w.Body.String())
	}

	// After voiding: the covered months count as owed again.
	w = testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/water-boxes/"+boxID+"/debt?from=2026-01", nil, token)
	resp = testutil.ParseResponse(w)
	owedList = resp["data"].(map[string]interface{})["owed_months"].([]interface{})
	found := map[string]bool{}
	for _, m := range owedList {
		found[m.(string)] = true
	}
	if !found["2026-01"] || !found["2026-02"] {
		t.Errorf("voided months missing from owed list: %v", owedList)
	}

	// Voiding twice is rejected.
	w = testutil.DoRequest(env.Router, http.MethodPost,
		"/api/v1/payments/"+paymentID+"/void", map[string]interface{}{}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("double void: status = %d, want 400", w.Code)
	}
}
