package architect

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// The generation prompt asks for a fenced JSON document followed by
// markdown reasoning. These patterns split the two apart.
var (
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(?s)\{.*"architecture".*\}`)
)

// Position places a node on the diagram canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Service is one recommended cloud service in a generated architecture.
type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Cost        float64  `json:"cost"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Position    Position `json:"position"`
}

// ServiceConnection links two services by ID.
type ServiceConnection struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// ServiceAlternative is a cheaper or differently sized substitution.
type ServiceAlternative struct {
	ServiceID       string  `json:"service_id"`
	AlternativeName string  `json:"alternative_name"`
	Cost            float64 `json:"cost"`
	Savings         float64 `json:"savings"`
	Performance     int     `json:"performance"`
	Description     string  `json:"description"`
}

// Architecture is the structured part of a generation response.
type Architecture struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Provider     string               `json:"provider"`
	TotalCost    float64              `json:"total_cost"`
	Services     []Service            `json:"services"`
	Connections  []ServiceConnection  `json:"connections"`
	Alternatives []ServiceAlternative `json:"alternatives"`
}

// Document wraps the architecture the way the prompt asks for it.
type Document struct {
	Architecture Architecture `json:"architecture"`
}

// ParseResponse splits a hybrid model response into its structured document
// and the markdown reasoning around it. A missing or unparsable JSON block
// yields a nil document and the full text as reasoning.
func ParseResponse(response string) (*Document, string) {
	doc := extractDocument(response)
	reasoning := strings.TrimSpace(fencedJSONPattern.ReplaceAllString(response, ""))
	return doc, reasoning
}

func extractDocument(response string) *Document {
	if match := fencedJSONPattern.FindStringSubmatch(response); match != nil {
		var doc Document
		if err := json.Unmarshal([]byte(match[1]), &doc); err == nil {
			return &doc
		}
	}
	if match := bareJSONPattern.FindString(response); match != "" {
		var doc Document
		if err := json.Unmarshal([]byte(match), &doc); err == nil {
			return &doc
		}
	}
	return nil
}

// UI-facing shapes for the frontend canvas.

type UINode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	SubLabel    string  `json:"subLabel"`
	Icon        string  `json:"icon"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	IsDragging  bool    `json:"isDragging"`
	Type        string  `json:"type"`
	Provider    string  `json:"provider"`
}

type UIEdge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type UIServiceComponent struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Icon        string  `json:"icon"`
	Provider    string  `json:"provider"`
}

type UIAlternative struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	Cost                float64 `json:"cost"`
	Icon                string  `json:"icon"`
	Performance         int     `json:"performance"`
	OriginalComponentID string  `json:"originalComponentId"`
}

type UIViewport struct {
	Zoom float64 `json:"zoom"`
	Pan  struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"pan"`
	Bounds struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"bounds"`
}

type UIGrid struct {
	Size        int  `json:"size"`
	Enabled     bool `json:"enabled"`
	SnapEnabled bool `json:"snapEnabled"`
}

type UICanvas struct {
	Nodes    []UINode   `json:"nodes"`
	Edges    []UIEdge   `json:"edges"`
	Viewport UIViewport `json:"viewport"`
	Grid     UIGrid     `json:"grid"`
}

type UIGenerated struct {
	ID                     string               `json:"id"`
	Name                   string               `json:"name"`
	Description            string               `json:"description"`
	Provider               string               `json:"provider"`
	OptimizationPreference string               `json:"optimizationPreference"`
	Components             []UIServiceComponent `json:"components"`
	Alternatives           []UIAlternative      `json:"alternatives"`
	Diagram                UICanvas             `json:"diagram"`
}

// TransformToUI maps the structured document onto the frontend canvas model.
// Missing positions fall back to a two-column grid.
func TransformToUI(doc *Document, provider string) *UIGenerated {
	arch := doc.Architecture

	components := make([]UIServiceComponent, 0, len(arch.Services))
	nodes := make([]UINode, 0, len(arch.Services))
	for idx, service := range arch.Services {
		id := service.ID
		if id == "" {
			id = fmt.Sprintf("comp-%d", idx+1)
		}
		name := service.Name
		if name == "" {
			name = "Unknown Service"
		}
		serviceType := service.Type
		if serviceType == "" {
			serviceType = "service"
		}
		icon := service.Icon
		if icon == "" {
			icon = "server"
		}

		components = append(components, UIServiceComponent{
			ID:          id,
			Name:        name,
			Description: service.Description,
			Cost:        service.Cost,
			Icon:        serviceIcon(serviceType),
			Provider:    provider,
		})

		x, y := service.Position.X, service.Position.Y
		if x == 0 && y == 0 {
			x = float64(300 + (idx%2)*300)
			y = float64(200 + (idx/2)*200)
		}
		nodes = append(nodes, UINode{
			ID:          id,
			Label:       name,
			SubLabel:    capitalize(serviceType),
			Icon:        icon,
			Cost:        service.Cost,
			Description: service.Description,
			X:           x,
			Y:           y,
			Width:       200,
			Height:      100,
			Type:        serviceType,
			Provider:    provider,
		})
	}

	edges := make([]UIEdge, 0, len(arch.Connections))
	for idx, conn := range arch.Connections {
		connType := conn.Type
		if connType == "" {
			connType = "Connection"
		}
		edges = append(edges, UIEdge{
			ID:   fmt.Sprintf("edge-%d", idx+1),
			From: conn.From,
			To:   conn.To,
			Type: connType,
		})
	}

	alternatives := make([]UIAlternative, 0, len(arch.Alternatives))
	for idx, alt := range arch.Alternatives {
		name := alt.AlternativeName
		if name == "" {
			name = "Alternative"
		}
		performance := alt.Performance
		if performance == 0 {
			performance = 80
		}
		alternatives = append(alternatives, UIAlternative{
			ID:                  fmt.Sprintf("alt-%d", idx+1),
			Name:                name,
			Description:         alt.Description,
			Cost:                alt.Cost,
			Icon:                "server",
			Performance:         performance,
			OriginalComponentID: alt.ServiceID,
		})
	}

	title := arch.Title
	if title == "" {
		title = "Cloud Architecture"
	}

	canvas := UICanvas{Nodes: nodes, Edges: edges, Grid: UIGrid{Size: 20, Enabled: true}}
	canvas.Viewport.Zoom = 1
	canvas.Viewport.Bounds.Width = 1200
	canvas.Viewport.Bounds.Height = 800

	return &UIGenerated{
		ID:                     fmt.Sprintf("arch-%d", titleHash(title)),
		Name:                   title,
		Description:            arch.Description,
		Provider:               provider,
		OptimizationPreference: "balanced",
		Components:             components,
		Alternatives:           alternatives,
		Diagram:                canvas,
	}
}

func titleHash(title string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(title))
	return h.Sum32() % 10000
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var serviceIcons = map[string]string{
	"compute":    "💻",
	"storage":    "💾",
	"database":   "🗄️",
	"serverless": "λ",
	"network":    "🌐",
	"security":   "🔒",
	"analytics":  "📊",
	"ml":         "🤖",
	"monitoring": "📈",
	"cdn":        "🚀",
}

func serviceIcon(serviceType string) string {
	if icon, ok := serviceIcons[strings.ToLower(serviceType)]; ok {
		return icon
	}
	return "⚙️"
}
