// Package architectapi exposes the architecture agent over HTTP: generation,
// optimization, validation, provider comparison, chat and code generation.
package architectapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skyrchitect-server-go/internal/domain/architect"
	"skyrchitect-server-go/internal/platform/logging"
	httptransport "skyrchitect-server-go/internal/transport/http"
)

// Service bridges HTTP requests to the architecture agent.
type Service struct {
	agent  *architect.Agent
	logger *logging.Logger
}

// NewService constructs the architect API service.
func NewService(agent *architect.Agent, logger *logging.Logger) *Service {
	return &Service{agent: agent, logger: logger}
}

// Register mounts the agent endpoints on the API group.
func (s *Service) Register(router *httptransport.Router) {
	router.API.POST("/architecture/generate", s.handleGenerate)
	router.API.POST("/architecture/optimize", s.handleOptimize)
	router.API.POST("/architecture/validate", s.handleValidate)
	router.API.GET("/cloud/compare/:service", s.handleCompare)
	router.API.POST("/chat", s.handleChat)
	router.API.POST("/code/generate", s.handleGenerateCode)
	router.API.POST("/deploy", s.handleDeploy)
}

// GenerateRequest is the user's architecture brief.
type GenerateRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Requirements     []string `json:"requirements"`
	Provider         string   `json:"provider" binding:"required"`
	OptimizationGoal string   `json:"optimization_goal"`
	Budget           float64  `json:"budget"`
	ExpectedUsers    int      `json:"expected_users"`
}

func (s *Service) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}
	if req.OptimizationGoal == "" {
		req.OptimizationGoal = "balanced"
	}

	var brief strings.Builder
	fmt.Fprintf(&brief, "Title: %s\n", req.Title)
	fmt.Fprintf(&brief, "Description: %s\n", req.Description)
	fmt.Fprintf(&brief, "Cloud Provider: %s\n", req.Provider)
	fmt.Fprintf(&brief, "Optimization Goal: %s\n", req.OptimizationGoal)
	if len(req.Requirements) > 0 {
		brief.WriteString("Requirements:\n")
		for _, r := range req.Requirements {
			fmt.Fprintf(&brief, "- %s\n", r)
		}
	}
	if req.Budget > 0 {
		fmt.Fprintf(&brief, "Budget: $%.2f/month\n", req.Budget)
	}
	if req.ExpectedUsers > 0 {
		fmt.Fprintf(&brief, "Expected Users: %d\n", req.ExpectedUsers)
	}

	response, err := s.agent.GenerateArchitecture(c.Request.Context(), brief.String())
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	doc, reasoning := architect.ParseResponse(response)
	if doc == nil {
		// the model ignored the format contract, hand back the raw text
		s.logger.Component("architect").Warnf("could not extract JSON from response, returning raw format")
		httptransport.RespondSuccessWithReasoning(c, http.StatusOK, gin.H{
			"architecture":      response,
			"provider":          req.Provider,
			"optimization_goal": req.OptimizationGoal,
		}, "Architecture generated successfully", response)
		return
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK,
		architect.TransformToUI(doc, req.Provider),
		"Architecture generated successfully", reasoning)
}

// OptimizeRequest describes an existing deployment to improve.
type OptimizeRequest struct {
	Provider         string   `json:"provider" binding:"required"`
	Components       []string `json:"components" binding:"required"`
	CurrentCost      float64  `json:"current_cost"`
	OptimizationGoal string   `json:"optimization_goal" binding:"required"`
}

func (s *Service) handleOptimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Provider: %s\n", req.Provider)
	fmt.Fprintf(&desc, "Current Monthly Cost: $%.2f\n", req.CurrentCost)
	fmt.Fprintf(&desc, "Optimization Goal: %s\n\nCurrent Components:\n", req.OptimizationGoal)
	for _, comp := range req.Components {
		fmt.Fprintf(&desc, "- %s\n", comp)
	}

	response, err := s.agent.OptimizeArchitecture(c.Request.Context(), desc.String(), req.OptimizationGoal)
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK, gin.H{
		"optimizations": response,
		"current_cost":  req.CurrentCost,
		"goal":          req.OptimizationGoal,
	}, "Optimization recommendations generated", response)
}

// ValidateRequest is a drawn architecture to check against best practices.
type ValidateRequest struct {
	Provider     string   `json:"provider" binding:"required"`
	Nodes        []string `json:"nodes" binding:"required"`
	Edges        []string `json:"edges"`
	Requirements string   `json:"requirements"`
}

func (s *Service) handleValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Provider: %s\n\nServices:\n", req.Provider)
	for _, node := range req.Nodes {
		fmt.Fprintf(&desc, "- %s\n", node)
	}
	desc.WriteString("\nConnections:\n")
	for _, edge := range req.Edges {
		fmt.Fprintf(&desc, "- %s\n", edge)
	}
	if req.Requirements != "" {
		fmt.Fprintf(&desc, "\nRequirements: %s\n", req.Requirements)
	}

	response, err := s.agent.ValidateDesign(c.Request.Context(), desc.String())
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK,
		gin.H{"validation": response}, "Architecture validated", response)
}

func (s *Service) handleCompare(c *gin.Context) {
	serviceName := c.Param("service")

	response, err := s.agent.CompareProviders(c.Request.Context(), serviceName)
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK,
		gin.H{"comparison": response}, "Comparison for "+serviceName, response)
}

// ChatRequest is a free-form question with optional design context.
type ChatRequest struct {
	Question string `json:"question" binding:"required"`
	Context  string `json:"context"`
}

func (s *Service) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}

	response, err := s.agent.AnswerQuestion(c.Request.Context(), req.Question, req.Context)
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK,
		gin.H{"answer": response}, "Response from AI agent", response)
}

// CodeGenRequest asks for infrastructure-as-code for an architecture.
type CodeGenRequest struct {
	Architecture struct {
		Name       string `json:"name"`
		Provider   string `json:"provider"`
		Components []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"components"`
	} `json:"architecture" binding:"required"`
	CodeType string `json:"code_type"`
}

func (s *Service) handleGenerateCode(c *gin.Context) {
	var req CodeGenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}
	if req.CodeType == "" {
		req.CodeType = "terraform"
	}
	provider := req.Architecture.Provider
	if provider == "" {
		provider = "aws"
	}
	name := req.Architecture.Name
	if name == "" {
		name = "Cloud Architecture"
	}

	codeReq := architect.CodeRequest{Provider: provider, Name: name, CodeType: req.CodeType}
	for _, comp := range req.Architecture.Components {
		codeReq.Components = append(codeReq.Components, struct {
			Name        string
			Description string
		}{Name: comp.Name, Description: comp.Description})
	}

	code, err := s.agent.GenerateCode(c.Request.Context(), codeReq)
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	message := strings.ToUpper(req.CodeType[:1]) + req.CodeType[1:] + " code generated successfully"
	httptransport.RespondSuccessWithReasoning(c, http.StatusOK, gin.H{
		"code":      code,
		"code_type": req.CodeType,
		"provider":  provider,
	}, message, code)
}

// DeployRequest asks for a simulated deployment of a drawn architecture.
type DeployRequest struct {
	Architecture struct {
		Name       string            `json:"name"`
		Provider   string            `json:"provider"`
		Components []json.RawMessage `json:"components"`
	} `json:"architecture" binding:"required"`
	Config struct {
		Provider  string `json:"provider"`
		Region    string `json:"region"`
		StackName string `json:"stack_name"`
	} `json:"config"`
}

// handleDeploy simulates a deployment: the agent produces a deployment plan
// and the response carries canned progress logs plus a stack endpoint URL.
func (s *Service) handleDeploy(c *gin.Context) {
	var req DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}

	provider := req.Config.Provider
	if provider == "" {
		provider = req.Architecture.Provider
	}
	if provider == "" {
		provider = "aws"
	}
	region := req.Config.Region
	if region == "" {
		region = "us-west-2"
	}
	stackName := req.Config.StackName
	if stackName == "" {
		stackName = "skyrchitect-stack"
	}
	archName := req.Architecture.Name
	if archName == "" {
		archName = "Cloud Architecture"
	}

	s.logger.Component("architect").Infof("deploying to %s in %s", provider, region)

	prompt := fmt.Sprintf(`Create a detailed deployment plan for the following architecture:

Provider: %s
Region: %s
Stack Name: %s
Architecture: %s

Components: %d resources

Generate a step-by-step deployment plan including:
1. Pre-deployment checks
2. Resource creation order
3. Configuration steps
4. Post-deployment validation
5. Estimated deployment time

Format as deployment logs with timestamps.`,
		provider, region, stackName, archName, len(req.Architecture.Components))

	plan, err := s.agent.AnswerQuestion(c.Request.Context(), prompt, "")
	if err != nil {
		httptransport.RespondDomainError(c, err)
		return
	}

	endpoint := fmt.Sprintf("https://%s-app-%s.example.com", provider, stackName)
	logs := []string{
		fmt.Sprintf("[INFO] Initializing deployment to %s...", provider),
		fmt.Sprintf("[INFO] Region: %s", region),
		fmt.Sprintf("[INFO] Stack: %s", stackName),
		"[INFO] Validating architecture configuration...",
		"[SUCCESS] Configuration validated",
		"[INFO] Creating VPC and networking resources...",
		"[SUCCESS] Network infrastructure created",
		"[INFO] Deploying compute resources...",
		"[SUCCESS] Compute resources deployed",
		"[INFO] Configuring storage services...",
		"[SUCCESS] Storage configured",
		"[INFO] Setting up databases...",
		"[SUCCESS] Database instances created",
		"[INFO] Finalizing deployment...",
		"[SUCCESS] Deployment completed successfully!",
		fmt.Sprintf("[INFO] Access URL: %s", endpoint),
	}

	httptransport.RespondSuccessWithReasoning(c, http.StatusOK, gin.H{
		"status":          "success",
		"deployment_logs": logs,
		"deployment_plan": plan,
		"endpoint":        endpoint,
		"provider":        provider,
		"region":          region,
	}, "Deployment completed successfully", plan)
}
