package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httptransport "skyrchitect-server-go/internal/transport/http"
)

// Version is the reported service version.
const Version = "1.0.0"

// Status is the detailed health payload served at the API root.
type Status struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	AgentReady     bool   `json:"agent_ready"`
	ModelConnected bool   `json:"model_connected"`
	ModelID        string `json:"model_id"`
}

// Service reports process health. agentReady is fixed at construction:
// clients are built eagerly at startup, so a running server implies a
// constructed agent.
type Service struct {
	agentReady bool
	modelID    string
}

// NewService constructs the health service.
func NewService(agentReady bool, modelID string) *Service {
	return &Service{agentReady: agentReady, modelID: modelID}
}

// Register mounts the root and /health endpoints on the engine.
func (s *Service) Register(router *httptransport.Router) {
	router.Engine.GET("/", s.handleRoot)
	router.Engine.GET("/health", s.handleHealth)
}

func (s *Service) handleRoot(c *gin.Context) {
	status := "healthy"
	if !s.agentReady {
		status = "degraded"
	}
	c.JSON(http.StatusOK, Status{
		Status:         status,
		Version:        Version,
		AgentReady:     s.agentReady,
		ModelConnected: s.agentReady,
		ModelID:        s.modelID,
	})
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "Skyrchitect AI Backend"})
}
