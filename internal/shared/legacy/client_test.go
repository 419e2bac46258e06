package legacy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractIDFallbackOrder(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    string
		wantErr bool
	}{
		{
			name:    "direct id",
			payload: map[string]interface{}{"id": "inc-001"},
			want:    "inc-001",
		},
		{
			name:    "underscore id",
			payload: map[string]interface{}{"_id": "64fa0c"},
			want:    "64fa0c",
		},
		{
			name: "nested data id",
			payload: map[string]interface{}{
				"data": map[string]interface{}{"id": "inc-002"},
			},
			want: "inc-002",
		},
		{
			name: "nested data underscore id",
			payload: map[string]interface{}{
				"data": map[string]interface{}{"_id": "64fa0d"},
			},
			want: "64fa0d",
		},
		{
			name: "direct id wins over nested",
			payload: map[string]interface{}{
				"id":   "direct",
				"data": map[string]interface{}{"id": "nested"},
			},
			want: "direct",
		},
		{
			name:    "numeric id from oldest endpoints",
			payload: map[string]interface{}{"id": float64(42)},
			want:    "42",
		},
		{
			name:    "no identifier anywhere",
			payload: map[string]interface{}{"message": "created"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractID(tc.payload)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got id %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFindResolutions404AndEmptyConverge(t *testing.T) {
	t.Run("404 means none", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "", time.Second)
		got, err := client.FindResolutionsByIncident(context.Background(), "inc-x")
		if err != nil {
			t.Fatalf("404 should not be an error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty result, got %d", len(got))
		}
	})

	t.Run("empty array means none", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("[]"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "", time.Second)
		got, err := client.FindResolutionsByIncident(context.Background(), "inc-x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty result, got %d", len(got))
		}
	})

	t.Run("wrapped data array", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":[{"id":"res-1","incidentId":"inc-x"}]}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "", time.Second)
		got, err := client.FindResolutionsByIncident(context.Background(), "inc-x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "res-1" {
			t.Fatalf("expected one wrapped resolution, got %+v", got)
		}
	})
}

func TestPushResolutionCreatesWhenNoneExists(t *testing.T) {
	var postSeen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("[]"))
		case http.MethodPost:
			postSeen = true
			if r.URL.Path != "/api/resolutions" {
				t.Errorf("create path = %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"_id":"64fb11"}}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	remoteID, err := client.PushResolution(context.Background(), "inc-1",
		map[string]interface{}{"incidentId": "inc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !postSeen {
		t.Fatal("expected a POST when no remote resolution exists")
	}
	if remoteID != "64fb11" {
		t.Fatalf("remote id = %q, want the nested _id", remoteID)
	}
}

func TestPushResolutionUpdatesExisting(t *testing.T) {
	var putPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"res-9","incidentId":"inc-1"}]`))
		case http.MethodPut:
			putPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		case http.MethodPost:
			t.Error("must not create when a remote resolution exists")
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	remoteID, err := client.PushResolution(context.Background(), "inc-1",
		map[string]interface{}{"incidentId": "inc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if putPath != "/api/resolutions/res-9" {
		t.Fatalf("update path = %q", putPath)
	}
	if remoteID != "res-9" {
		t.Fatalf("remote id = %q, want res-9", remoteID)
	}
}

func TestPushStockFallsBackToPut(t *testing.T) {
	var patchSeen, putSeen bool
	var putBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patchSeen = true
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodPut:
			putSeen = true
			json.NewDecoder(r.Body).Decode(&putBody)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	full := map[string]interface{}{"name": "Tubo PVC 1/2", "unit": "unidad"}
	if err := client.PushStock(context.Background(), "p1", 15, full); err != nil {
		t.Fatalf("expected PUT fallback to succeed: %v", err)
	}

	if !patchSeen || !putSeen {
		t.Fatalf("expected PATCH then PUT, got patch=%v put=%v", patchSeen, putSeen)
	}
	if putBody["currentStock"].(float64) != 15 {
		t.Fatalf("PUT body should carry corrected stock, got %v", putBody["currentStock"])
	}
	if putBody["name"] != "Tubo PVC 1/2" {
		t.Fatalf("PUT body should carry the full document, got %v", putBody)
	}

	// The caller's document must not be mutated by the fallback.
	if _, ok := full["currentStock"]; ok {
		t.Fatal("PushStock mutated the caller's product document")
	}
}

func TestPushStockPatchSucceeds(t *testing.T) {
	var putSeen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			putSeen = true
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	if err := client.PushStock(context.Background(), "p1", 10, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if putSeen {
		t.Fatal("PUT should not fire when PATCH succeeds")
	}
}
