package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/testutil"
	"go.uber.org/zap"
)

func setupInventoryTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewInventoryService(db, repos.Product, repos.Movement, repos.Purchase, zap.NewNop())
	h := NewInventoryHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/products", h.ListProducts)
	api.POST("/products", h.CreateProduct)
	api.POST("/products/:id/adjust", h.AdjustStock)
	api.GET("/products/:id/movements", h.ProductMovements)
	api.POST("/suppliers", h.CreateSupplier)
	api.POST("/purchases", h.CreatePurchase)
	api.POST("/purchases/:id/confirm", h.ConfirmPurchase)
	api.POST("/purchases/:id/cancel", h.CancelPurchase)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestCreateProductWithInitialStockWritesLedger(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"organization_id": "test-org-001",
		"name":            "Tubería PVC 1/2",
		"unit":            "unidad",
		"unit_cost":       12.5,
		"initial_stock":   20,
		"minimum_stock":   5,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	productID := resp["data"].(map[string]interface{})["id"].(string)

	var movements []entity.InventoryMovement
	env.DB.Where("product_id = ?", productID).Find(&movements)
	if len(movements) != 1 {
		t.Fatalf("movement rows = %d, want 1", len(movements))
	}
	if movements[0].MovementType != entity.MovementTypeEntrada || movements[0].Quantity != 20 {
		t.Errorf("initial stock movement = %+v", movements[0])
	}
}

func TestAdjustStockGuardRejectsNegativeResult(t *testing.T) {
	env := setupInventoryTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Pegamento", 5, 8)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/products/prod-001/adjust",
		map[string]interface{}{"quantity": -10, "notes": "corrección de conteo"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}

	var product entity.Product
	env.DB.First(&product, "id = ?", "prod-001")
	if product.CurrentStock != 5 {
		t.Errorf("stock = %v, want 5", product.CurrentStock)
	}
}

func TestAdjustStockAppliesSignedDelta(t *testing.T) {
	env := setupInventoryTest(t)
	testutil.SeedProduct(t, env.DB, "prod-001", "Pegamento", 5, 8)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/products/prod-001/adjust",
		map[string]interface{}{"quantity": -2, "notes": "merma detectada en almacén"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	stock := resp["data"].(map[string]interface{})["current_stock"].(float64)
	if stock != 3 {
		t.Errorf("stock = %v, want 3", stock)
	}

	var movement entity.InventoryMovement
	env.DB.Where("product_id = ?", "prod-001").First(&movement)
	if movement.MovementType != entity.MovementTypeAjuste {
		t.Errorf("movement type = %s, want AJUSTE", movement.MovementType)
	}
}

func seedSupplierAndProduct(t *testing.T, env *testutil.TestEnv) {
	t.Helper()
	supplier := &entity.Supplier{
		ID:           "sup-001",
		Code:         "PROV-00001",
		Name:         "Ferretería Central",
		RecordStatus: entity.RecordStatusActive,
	}
	if err := env.DB.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	testutil.SeedProduct(t, env.DB, "prod-001", "Tubería PVC 1/2", 10, 12.5)
}

func TestPurchaseConfirmPostsEntrada(t *testing.T) {
	env := setupInventoryTest(t)
	seedSupplierAndProduct(t, env)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
		"organization_id": "test-org-001",
		"supplier_id":     "sup-001",
		"items": []map[string]interface{}{
			{"product_id": "prod-001", "quantity": 15, "unit_cost": "11.80"},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	purchaseID := data["id"].(string)
	if status := data["status"].(string); status != entity.PurchaseStatusPendiente {
		t.Errorf("status = %s, want PENDIENTE", status)
	}

	// Creating the order does not move stock.
	var product entity.Product
	env.DB.First(&product, "id = ?", "prod-001")
	if product.CurrentStock != 10 {
		t.Fatalf("stock after create = %v, want 10", product.CurrentStock)
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchases/"+purchaseID+"/confirm", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d, body = %s", w.Code, w.Body.String())
	}

	env.DB.First(&product, "id = ?", "prod-001")
	if product.CurrentStock != 25 {
		t.Errorf("stock after confirm = %v, want 25", product.CurrentStock)
	}

	movements, err := repository.NewMovementRepository(env.DB).FindByReference(context.Background(), entity.MovementRefPurchase, purchaseID)
	if err != nil || len(movements) != 1 {
		t.Fatalf("movements by reference: %v (n=%d), want 1", err, len(movements))
	}
	if movements[0].MovementType != entity.MovementTypeEntrada || movements[0].Quantity != 15 {
		t.Errorf("purchase movement = %+v", movements[0])
	}

	// A second confirm is rejected.
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchases/"+purchaseID+"/confirm", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("double confirm: status = %d, want 400", w.Code)
	}
}

func TestCancelConfirmedPurchaseRejected(t *testing.T) {
	env := setupInventoryTest(t)
	seedSupplierAndProduct(t, env)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchases", map[string]interface{}{
		"organization_id": "test-org-001",
		"supplier_id":     "sup-001",
		"items": []map[string]interface{}{
			{"product_id": "prod-001", "quantity": 5, "unit_cost": "11.80"},
		},
	}, token)
	resp := testutil.ParseResponse(w)
	purchaseID := resp["data"].(map[string]interface{})["id"].(string)

	testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchases/"+purchaseID+"/confirm", nil, token)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/purchases/"+purchaseID+"/cancel", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("cancel confirmed: status = %d, want 400", w.Code)
	}
}
