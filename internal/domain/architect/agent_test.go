package architect

import (
	"context"
	"strings"
	"testing"

	"skyrchitect-server-go/internal/platform/logging"
)

type fakeClient struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (f *fakeClient) AnalyzeImage(_ context.Context, _ []byte, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) Complete(_ context.Context, system, prompt string) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestAgent_GenerateArchitecture(t *testing.T) {
	client := &fakeClient{response: "```json\n" + architectureJSON + "\n```"}
	agent := NewAgent(client, logging.Discard())

	response, err := agent.GenerateArchitecture(context.Background(), "A small web shop for 1000 users")
	if err != nil {
		t.Fatalf("GenerateArchitecture: %v", err)
	}
	if response == "" {
		t.Fatal("empty response")
	}
	if !strings.Contains(client.lastSystem, "CRITICAL OUTPUT FORMAT") {
		t.Fatal("system prompt missing the output contract")
	}
	if !strings.Contains(client.lastPrompt, "A small web shop") {
		t.Fatal("requirements not forwarded")
	}
	if !strings.Contains(client.lastPrompt, "Application Load Balancer") {
		t.Fatal("price book not injected into the prompt")
	}
}

func TestAgent_ValidateDesignInjectsLocalFindings(t *testing.T) {
	client := &fakeClient{response: "looks fine"}
	agent := NewAgent(client, logging.Discard())

	_, err := agent.ValidateDesign(context.Background(), "one ec2 instance serving a web page")
	if err != nil {
		t.Fatalf("ValidateDesign: %v", err)
	}
	if !strings.Contains(client.lastPrompt, "No auto-scaling configuration mentioned") {
		t.Fatalf("local findings missing from prompt:\n%s", client.lastPrompt)
	}
}

func TestAgent_CompareProvidersInjectsKnownEquivalents(t *testing.T) {
	client := &fakeClient{response: "comparison"}
	agent := NewAgent(client, logging.Discard())

	if _, err := agent.CompareProviders(context.Background(), "RDS"); err != nil {
		t.Fatalf("CompareProviders: %v", err)
	}
	if !strings.Contains(client.lastPrompt, "Cloud SQL") {
		t.Fatalf("known equivalents missing from prompt:\n%s", client.lastPrompt)
	}

	// unknown services still get a prompt, just without the mapping block
	if _, err := agent.CompareProviders(context.Background(), "Mainframe Hosting"); err != nil {
		t.Fatalf("CompareProviders: %v", err)
	}
	if strings.Contains(client.lastPrompt, "Known equivalents") {
		t.Fatal("unknown service must not claim known equivalents")
	}
}

func TestAgent_AnswerQuestion(t *testing.T) {
	client := &fakeClient{response: "answer"}
	agent := NewAgent(client, logging.Discard())

	if _, err := agent.AnswerQuestion(context.Background(), "What is a VPC?", ""); err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if client.lastPrompt != "What is a VPC?" {
		t.Fatalf("bare question should pass through unchanged, got %q", client.lastPrompt)
	}

	if _, err := agent.AnswerQuestion(context.Background(), "Is it secure?", "Two tier web app"); err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if !strings.Contains(client.lastPrompt, "Context: Two tier web app") {
		t.Fatalf("context missing from prompt: %q", client.lastPrompt)
	}
}

func TestAgent_GenerateCode(t *testing.T) {
	client := &fakeClient{response: "resource \"aws_instance\" ..."}
	agent := NewAgent(client, logging.Discard())

	req := CodeRequest{Provider: "aws", Name: "Web Shop", CodeType: "terraform"}
	req.Components = append(req.Components, struct {
		Name        string
		Description string
	}{Name: "EC2", Description: "App server"})

	if _, err := agent.GenerateCode(context.Background(), req); err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if client.lastSystem != "" {
		t.Fatal("code generation must not carry the agent system prompt")
	}
	if !strings.Contains(client.lastPrompt, "TERRAFORM code") {
		t.Fatalf("code type missing from prompt: %q", client.lastPrompt)
	}
}
