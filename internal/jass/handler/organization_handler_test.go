package handler

import (
	"net/http"
	"testing"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/testutil"
)

func setupOrganizationTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewOrganizationService(repos.Organization, repos.Zone, repos.Street)
	h := NewOrganizationHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/organizations", h.ListOrganizations)
	api.POST("/organizations", h.CreateOrganization)
	api.DELETE("/organizations/:id", h.DeleteOrganization)
	api.POST("/organizations/:id/restore", h.RestoreOrganization)
	api.POST("/zones", h.CreateZone)
	api.GET("/zones/:id/streets", h.ListStreets)
	api.POST("/streets", h.CreateStreet)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestOrganizationCodesAreSequential(t *testing.T) {
	env := setupOrganizationTest(t)
	token := testutil.DefaultTestToken()

	var codes []string
	for _, name := range []string{"JASS San Pedro", "JASS Santa Rosa"} {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/organizations",
			map[string]interface{}{"name": name, "district": "Huancán"}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
		}
		resp := testutil.ParseResponse(w)
		codes = append(codes, resp["data"].(map[string]interface{})["code"].(string))
	}

	if codes[0] == codes[1] {
		t.Errorf("duplicate organization codes: %v", codes)
	}
}

func TestZoneRequiresActiveOrganization(t *testing.T) {
	env := setupOrganizationTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/organizations",
		map[string]interface{}{"name": "JASS San Pedro"}, token)
	resp := testutil.ParseResponse(w)
	orgID := resp["data"].(map[string]interface{})["id"].(string)

	// Deactivate the organization, then try to attach a zone.
	testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/organizations/"+orgID, nil, token)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/zones", map[string]interface{}{
		"organization_id": orgID,
		"code":            "Z01",
		"name":            "Zona Centro",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zone on inactive org: status = %d, want 400", w.Code)
	}

	// Restore and retry.
	testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/organizations/"+orgID+"/restore", nil, token)
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/zones", map[string]interface{}{
		"organization_id": orgID,
		"code":            "Z01",
		"name":            "Zona Centro",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("zone on restored org: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestStreetsListedByZone(t *testing.T) {
	env := setupOrganizationTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/organizations",
		map[string]interface{}{"name": "JASS San Pedro"}, token)
	resp := testutil.ParseResponse(w)
	orgID := resp["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/zones", map[string]interface{}{
		"organization_id": orgID,
		"code":            "Z01",
		"name":            "Zona Centro",
	}, token)
	resp = testutil.ParseResponse(w)
	zoneID := resp["data"].(map[string]interface{})["id"].(string)

	for _, name := range []string{"Calle Principal", "Jirón Los Pinos"} {
		w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/streets", map[string]interface{}{
			"zone_id": zoneID,
			"name":    name,
		}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("create street: status = %d, body = %s", w.Code, w.Body.String())
		}
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/zones/"+zoneID+"/streets", nil, token)
	resp = testutil.ParseResponse(w)
	streets := resp["data"].([]interface{})
	if len(streets) != 2 {
		t.Errorf("streets = %d, want 2", len(streets))
	}
}
