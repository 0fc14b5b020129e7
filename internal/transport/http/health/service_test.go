package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/logging"
	httptransport "skyrchitect-server-go/internal/transport/http"
)

func newTestServer(t *testing.T, agentReady bool) *httptest.Server {
	t.Helper()
	router, err := httptransport.Build(httptransport.Options{
		Config: config.DefaultConfig(),
		Logger: logging.Discard(),
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	NewService(agentReady, "claude-3-5-sonnet-20241022").Register(router)

	server := httptest.NewServer(router.Engine)
	t.Cleanup(server.Close)
	return server
}

func TestRoot(t *testing.T) {
	tests := []struct {
		name       string
		agentReady bool
		wantStatus string
	}{
		{name: "healthy", agentReady: true, wantStatus: "healthy"},
		{name: "degraded", agentReady: false, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.agentReady)

			resp, err := http.Get(server.URL + "/")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()

			var status Status
			if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if status.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if status.Version != Version {
				t.Fatalf("version = %q", status.Version)
			}
			if status.ModelID != "claude-3-5-sonnet-20241022" {
				t.Fatalf("model id = %q", status.ModelID)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, true)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status = %q", body["status"])
	}
}
