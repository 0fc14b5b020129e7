package architect

import (
	"context"
	"fmt"
	"strings"

	"skyrchitect-server-go/internal/domain/model"
	"skyrchitect-server-go/internal/platform/logging"
)

const systemPrompt = `You are an expert cloud architecture AI agent specialized in AWS, Azure, and Google Cloud Platform.

Your role is to help users design optimal, secure, and cost-effective cloud architectures.

Key Responsibilities:
1. Analyze user requirements and recommend appropriate cloud services
2. Design complete architectures with proper service connections
3. Estimate costs accurately using the reference pricing provided
4. Suggest cost optimizations and alternatives
5. Validate architectures for best practices and security
6. Provide clear reasoning for your recommendations

Guidelines:
- Base cost figures on the reference pricing included in the request
- Provide specific, actionable recommendations
- Consider security, scalability, and cost in all designs
- Explain trade-offs between different approaches
- Follow cloud best practices (high availability, disaster recovery, monitoring)

CRITICAL OUTPUT FORMAT:
You MUST return your response in this EXACT JSON structure, followed by detailed markdown reasoning:

` + "```json" + `
{
  "architecture": {
    "title": "Project Title",
    "description": "Brief project description",
    "provider": "aws|azure|gcp",
    "total_cost": 229.00,
    "services": [
      {
        "id": "service-1",
        "name": "EC2 Instance",
        "type": "compute",
        "cost": 29.20,
        "description": "Primary application server",
        "icon": "server",
        "position": {"x": 300, "y": 200}
      }
    ],
    "connections": [
      {"from": "service-1", "to": "service-2", "type": "HTTP/HTTPS"}
    ],
    "alternatives": [
      {
        "service_id": "service-1",
        "alternative_name": "EC2 t3.small",
        "cost": 14.60,
        "savings": 14.60,
        "performance": 70,
        "description": "Smaller instance size"
      }
    ]
  }
}
` + "```" + `

IMPORTANT NODE POSITIONING RULES:
- Space nodes FAR APART to prevent visual clutter and make connections clearly visible
- Minimum horizontal spacing between nodes: 400 pixels
- Minimum vertical spacing between nodes: 300 pixels
- Arrange nodes in logical layers (e.g., frontend at top, backend in middle, data at bottom)
- Example positions for a 5-node architecture:
  * Node 1 (frontend): {"x": 100, "y": 100}
  * Node 2 (app server): {"x": 100, "y": 500}
  * Node 3 (database): {"x": 100, "y": 900}
  * Node 4 (storage): {"x": 600, "y": 500}
  * Node 5 (cache): {"x": 600, "y": 900}
- This generous spacing ensures connection lines are easily visible and the diagram remains readable

Then provide detailed markdown explanation with:
- Architecture overview
- Security best practices
- Cost breakdown
- Optimization recommendations
- Implementation steps`

// Agent wraps the text model with the architecture prompts and the local
// service catalog. One instance is constructed at startup and shared by all
// requests.
type Agent struct {
	client model.Client
	logger *logging.Logger
}

// NewAgent constructs an architecture agent around a model client.
func NewAgent(client model.Client, logger *logging.Logger) *Agent {
	return &Agent{client: client, logger: logger}
}

// GenerateArchitecture designs an architecture for free-text requirements.
// The raw hybrid response (JSON plus markdown) is returned for the caller
// to parse.
func (a *Agent) GenerateArchitecture(ctx context.Context, requirements string) (string, error) {
	prompt := fmt.Sprintf(`Design a cloud architecture based on these requirements:

%s

Reference AWS pricing (indicative monthly figures):
%s
Please:
1. Recommend specific AWS services with costs from the reference pricing
2. Calculate the total monthly cost
3. Suggest how services should connect
4. Check the design against cloud best practices
5. Provide security best practices
6. Suggest cost optimizations if possible

Be specific and provide a complete, production-ready architecture.`, requirements, PriceBookSummary())

	return a.complete(ctx, "generate", prompt)
}

// OptimizeArchitecture reviews an existing architecture against a goal
// (cost, performance or balanced).
func (a *Agent) OptimizeArchitecture(ctx context.Context, currentArchitecture, goal string) (string, error) {
	prompt := fmt.Sprintf(`Analyze and optimize this architecture with goal: %s

Current Architecture:
%s

Reference AWS pricing (indicative monthly figures):
%s
Please:
1. Identify optimization opportunities
2. Calculate potential savings
3. Suggest alternative services where beneficial
4. Maintain or improve performance
5. Ensure security is not compromised
6. Provide implementation steps

Focus on practical, high-impact optimizations.`, goal, currentArchitecture, PriceBookSummary())

	return a.complete(ctx, "optimize", prompt)
}

// ValidateDesign reviews an architecture description. The rule-based local
// check runs first and its findings are handed to the model as a starting
// point.
func (a *Agent) ValidateDesign(ctx context.Context, description string) (string, error) {
	report := ValidateDescription(description)

	var findings strings.Builder
	for _, issue := range report.Issues {
		fmt.Fprintf(&findings, "- Issue: %s\n", issue)
	}
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&findings, "- Recommendation: %s\n", rec)
	}
	if findings.Len() == 0 {
		findings.WriteString("- No findings from the automated check\n")
	}

	prompt := fmt.Sprintf(`Validate this cloud architecture design:

%s

An automated rule check produced these findings (best practices score %d/100):
%s
Provide:
1. Validation results
2. Security concerns
3. Scalability issues
4. Best practice violations
5. Recommended improvements
6. Priority of each issue`, description, report.BestPracticesScore, findings.String())

	return a.complete(ctx, "validate", prompt)
}

// CompareProviders compares one service across AWS, Azure and GCP.
func (a *Agent) CompareProviders(ctx context.Context, serviceName string) (string, error) {
	known := ""
	if category, mapping, ok := Alternatives(serviceName); ok {
		known = fmt.Sprintf(`
Known equivalents for this %s service:
- AWS: %s
- Azure: %s
- GCP: %s
`, category, mapping["aws"], mapping["azure"], mapping["gcp"])
	}

	prompt := fmt.Sprintf(`Compare the service "%s" across AWS, Azure, and Google Cloud.
%s
Provide:
1. Equivalent services in each cloud
2. Key feature differences
3. Cost comparison (if available)
4. When to choose each provider
5. Migration considerations`, serviceName, known)

	return a.complete(ctx, "compare", prompt)
}

// AnswerQuestion handles free-form architecture questions, optionally with
// context about the user's current design.
func (a *Agent) AnswerQuestion(ctx context.Context, question, questionContext string) (string, error) {
	prompt := question
	if questionContext != "" {
		prompt = fmt.Sprintf(`Context: %s

Question: %s

Provide a clear, practical answer.`, questionContext, question)
	}
	return a.complete(ctx, "chat", prompt)
}

// CodeRequest describes an infrastructure-as-code generation.
type CodeRequest struct {
	Provider   string
	Name       string
	CodeType   string // terraform or cloudformation
	Components []struct {
		Name        string
		Description string
	}
}

// GenerateCode produces Terraform or CloudFormation for an architecture.
func (a *Agent) GenerateCode(ctx context.Context, req CodeRequest) (string, error) {
	var components strings.Builder
	for _, comp := range req.Components {
		fmt.Fprintf(&components, "- %s: %s\n", comp.Name, comp.Description)
	}

	codeType := strings.ToUpper(req.CodeType)
	prompt := fmt.Sprintf(`Generate complete, production-ready %s code for this cloud architecture:

Provider: %s
Architecture: %s

Components:
%s
Requirements:
- Include all necessary resources
- Add proper security configurations
- Include networking setup (VPC, subnets, security groups)
- Add resource tags for organization
- Include output variables for important endpoints
- Follow best practices for %s
- Keep the code concise and well-commented

Return ONLY the %s code, no additional explanation.`,
		codeType, req.Provider, req.Name, components.String(), req.Provider, req.CodeType)

	// code generation is a one-shot call with no agent system prompt, it
	// keeps no conversation history
	return a.client.Complete(ctx, "", prompt)
}

func (a *Agent) complete(ctx context.Context, operation, prompt string) (string, error) {
	response, err := a.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}
	a.logger.Component("architect").Infof(
		"agent response: operation=%s length=%d", operation, len(response),
	)
	return response, nil
}
