package architect

import (
	"strings"
	"testing"
)

const architectureJSON = `{
  "architecture": {
    "title": "Two Tier Web App",
    "description": "Web app with a managed database",
    "provider": "aws",
    "total_cost": 93.0,
    "services": [
      {"id": "service-1", "name": "Application Load Balancer", "type": "network", "cost": 18.0, "description": "Entry point", "icon": "globe", "position": {"x": 100, "y": 100}},
      {"id": "service-2", "name": "EC2 Instance", "type": "compute", "cost": 29.2, "description": "App server"},
      {"id": "service-3", "name": "RDS", "type": "database", "cost": 45.8, "description": "Primary database", "position": {"x": 100, "y": 900}}
    ],
    "connections": [
      {"from": "service-1", "to": "service-2", "type": "HTTP/HTTPS"},
      {"from": "service-2", "to": "service-3"}
    ],
    "alternatives": [
      {"service_id": "service-2", "alternative_name": "EC2 t3.small", "cost": 14.6, "savings": 14.6, "performance": 70, "description": "Smaller instance"}
    ]
  }
}`

func TestParseResponse_FencedJSON(t *testing.T) {
	response := "Here is my design.\n```json\n" + architectureJSON + "\n```\n## Architecture Overview\nA classic two tier setup."

	doc, reasoning := ParseResponse(response)
	if doc == nil {
		t.Fatal("expected a parsed document")
	}
	if doc.Architecture.Title != "Two Tier Web App" {
		t.Fatalf("title = %q", doc.Architecture.Title)
	}
	if len(doc.Architecture.Services) != 3 {
		t.Fatalf("services = %d, want 3", len(doc.Architecture.Services))
	}
	if strings.Contains(reasoning, `"total_cost"`) {
		t.Fatal("reasoning must not contain the JSON block")
	}
	if !strings.Contains(reasoning, "Architecture Overview") {
		t.Fatalf("reasoning lost the markdown: %q", reasoning)
	}
}

func TestParseResponse_BareJSON(t *testing.T) {
	doc, _ := ParseResponse(architectureJSON)
	if doc == nil {
		t.Fatal("bare JSON with an architecture key must parse")
	}
	if doc.Architecture.TotalCost != 93.0 {
		t.Fatalf("total cost = %v", doc.Architecture.TotalCost)
	}
}

func TestParseResponse_NoJSON(t *testing.T) {
	text := "I recommend a load balancer in front of two servers."
	doc, reasoning := ParseResponse(text)
	if doc != nil {
		t.Fatalf("expected nil document, got %+v", doc)
	}
	if reasoning != text {
		t.Fatalf("reasoning should be the full text, got %q", reasoning)
	}
}

func TestTransformToUI(t *testing.T) {
	doc, _ := ParseResponse("```json\n" + architectureJSON + "\n```")
	if doc == nil {
		t.Fatal("setup: document must parse")
	}

	ui := TransformToUI(doc, "aws")

	if ui.Name != "Two Tier Web App" {
		t.Fatalf("name = %q", ui.Name)
	}
	if !strings.HasPrefix(ui.ID, "arch-") {
		t.Fatalf("id = %q", ui.ID)
	}
	if len(ui.Components) != 3 || len(ui.Diagram.Nodes) != 3 {
		t.Fatalf("components/nodes = %d/%d, want 3/3", len(ui.Components), len(ui.Diagram.Nodes))
	}
	if len(ui.Diagram.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(ui.Diagram.Edges))
	}

	// explicit positions survive, missing positions fall back to the grid
	if ui.Diagram.Nodes[0].X != 100 || ui.Diagram.Nodes[0].Y != 100 {
		t.Fatalf("node 0 position = (%v,%v)", ui.Diagram.Nodes[0].X, ui.Diagram.Nodes[0].Y)
	}
	if ui.Diagram.Nodes[1].X != 600 || ui.Diagram.Nodes[1].Y != 200 {
		t.Fatalf("node 1 fallback position = (%v,%v), want (600,200)", ui.Diagram.Nodes[1].X, ui.Diagram.Nodes[1].Y)
	}

	if ui.Diagram.Edges[1].Type != "Connection" {
		t.Fatalf("untyped edge should default to Connection, got %q", ui.Diagram.Edges[1].Type)
	}
	if ui.Diagram.Edges[0].ID != "edge-1" {
		t.Fatalf("edge id = %q", ui.Diagram.Edges[0].ID)
	}

	if len(ui.Alternatives) != 1 {
		t.Fatalf("alternatives = %d, want 1", len(ui.Alternatives))
	}
	if ui.Alternatives[0].OriginalComponentID != "service-2" {
		t.Fatalf("alternative origin = %q", ui.Alternatives[0].OriginalComponentID)
	}

	if ui.Components[1].Icon != "💻" {
		t.Fatalf("compute icon = %q", ui.Components[1].Icon)
	}
	if ui.Diagram.Nodes[1].SubLabel != "Compute" {
		t.Fatalf("sub label = %q", ui.Diagram.Nodes[1].SubLabel)
	}

	if ui.Diagram.Viewport.Zoom != 1 || !ui.Diagram.Grid.Enabled {
		t.Fatal("viewport and grid defaults are wrong")
	}
}
