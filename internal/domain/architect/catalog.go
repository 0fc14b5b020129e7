package architect

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CatalogEntry is a single AWS service with an indicative monthly price.
type CatalogEntry struct {
	Name        string  `json:"name"`
	BaseCost    float64 `json:"base_cost"`
	Description string  `json:"description"`
}

// awsServices is an indicative price book, not a live pricing feed. It seeds
// the agent's prompts and the local cost calculator.
var awsServices = map[string]map[string]CatalogEntry{
	"compute": {
		"ec2":    {Name: "EC2", BaseCost: 29.2, Description: "Virtual servers"},
		"lambda": {Name: "Lambda", BaseCost: 8.3, Description: "Serverless compute"},
		"ecs":    {Name: "ECS", BaseCost: 45.0, Description: "Container orchestration"},
	},
	"storage": {
		"s3":  {Name: "S3", BaseCost: 12.5, Description: "Object storage"},
		"ebs": {Name: "EBS", BaseCost: 20.0, Description: "Block storage"},
		"efs": {Name: "EFS", BaseCost: 35.0, Description: "File storage"},
	},
	"database": {
		"rds":      {Name: "RDS", BaseCost: 45.8, Description: "Relational database"},
		"dynamodb": {Name: "DynamoDB", BaseCost: 25.0, Description: "NoSQL database"},
		"aurora":   {Name: "Aurora", BaseCost: 55.0, Description: "High-performance RDS"},
	},
	"network": {
		"alb":        {Name: "Application Load Balancer", BaseCost: 18.0, Description: "Load balancing"},
		"cloudfront": {Name: "CloudFront", BaseCost: 15.0, Description: "CDN"},
		"vpc":        {Name: "VPC", BaseCost: 0.0, Description: "Virtual private cloud"},
	},
}

// ServiceInfo looks up a service in the price book.
func ServiceInfo(category, service string) (CatalogEntry, bool) {
	entries, ok := awsServices[strings.ToLower(category)]
	if !ok {
		return CatalogEntry{}, false
	}
	entry, ok := entries[strings.ToLower(service)]
	return entry, ok
}

// ServiceSelection names one priced service with a quantity.
type ServiceSelection struct {
	Category string `json:"category"`
	Service  string `json:"service"`
	Quantity int    `json:"quantity"`
}

// CostLine is one row of a cost breakdown.
type CostLine struct {
	Service   string  `json:"service"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	TotalCost float64 `json:"total_cost"`
}

// CostEstimate is the total for a service selection. Unknown services are
// skipped rather than failing the whole estimate.
type CostEstimate struct {
	TotalMonthlyCost float64    `json:"total_monthly_cost"`
	Breakdown        []CostLine `json:"breakdown"`
	Currency         string     `json:"currency"`
}

// CalculateCost sums indicative monthly costs for the selection.
func CalculateCost(selections []ServiceSelection) CostEstimate {
	estimate := CostEstimate{Breakdown: []CostLine{}, Currency: "USD"}
	for _, sel := range selections {
		entry, ok := ServiceInfo(sel.Category, sel.Service)
		if !ok {
			continue
		}
		quantity := sel.Quantity
		if quantity < 1 {
			quantity = 1
		}
		lineCost := entry.BaseCost * float64(quantity)
		estimate.TotalMonthlyCost += lineCost
		estimate.Breakdown = append(estimate.Breakdown, CostLine{
			Service:   entry.Name,
			Quantity:  quantity,
			UnitCost:  entry.BaseCost,
			TotalCost: lineCost,
		})
	}
	estimate.TotalMonthlyCost = roundCents(estimate.TotalMonthlyCost)
	return estimate
}

// Optimization is a cost-saving substitution for a given usage pattern.
type Optimization struct {
	Alternative string `json:"alternative"`
	Savings     string `json:"savings"`
	Reason      string `json:"reason"`
}

var optimizations = map[string]map[string]map[string]Optimization{
	"compute": {
		"ec2": {
			"low":      {Alternative: "lambda", Savings: "60%", Reason: "Serverless for low usage"},
			"variable": {Alternative: "spot_instances", Savings: "70%", Reason: "Use spot instances for variable workloads"},
		},
		"lambda": {
			"high": {Alternative: "ec2", Savings: "40%", Reason: "EC2 more cost-effective for constant high usage"},
		},
	},
	"database": {
		"rds": {
			"low":      {Alternative: "aurora_serverless", Savings: "50%", Reason: "Aurora Serverless scales to zero"},
			"variable": {Alternative: "aurora_serverless", Savings: "45%", Reason: "Auto-scaling for variable loads"},
		},
	},
	"storage": {
		"s3": {
			"low": {Alternative: "s3_glacier", Savings: "80%", Reason: "Use Glacier for infrequent access"},
		},
	},
}

// OptimizationFor returns a substitution for the service under the given
// usage pattern, if the table knows one.
func OptimizationFor(service, category, usagePattern string) (Optimization, bool) {
	byService, ok := optimizations[strings.ToLower(category)]
	if !ok {
		return Optimization{}, false
	}
	byPattern, ok := byService[strings.ToLower(service)]
	if !ok {
		return Optimization{}, false
	}
	opt, ok := byPattern[strings.ToLower(usagePattern)]
	return opt, ok
}

// serviceMappings holds equivalent managed services across providers.
var serviceMappings = map[string]map[string]string{
	"ec2":    {"aws": "EC2", "azure": "Virtual Machines", "gcp": "Compute Engine"},
	"s3":     {"aws": "S3", "azure": "Blob Storage", "gcp": "Cloud Storage"},
	"rds":    {"aws": "RDS", "azure": "Azure SQL Database", "gcp": "Cloud SQL"},
	"lambda": {"aws": "Lambda", "azure": "Azure Functions", "gcp": "Cloud Functions"},
}

// Alternatives finds cross-provider equivalents for a service name. Matching
// is loose: the normalized query may contain the catalog key or equal one of
// the mapped names.
func Alternatives(serviceName string) (category string, mapping map[string]string, ok bool) {
	query := strings.ReplaceAll(strings.ToLower(serviceName), " ", "")

	keys := make([]string, 0, len(serviceMappings))
	for key := range serviceMappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		mapped := serviceMappings[key]
		if strings.Contains(query, key) {
			return key, mapped, true
		}
		for _, name := range mapped {
			if strings.EqualFold(strings.ReplaceAll(name, " ", ""), query) {
				return key, mapped, true
			}
		}
	}
	return "", nil, false
}

// ValidationReport is the outcome of the rule-based design check.
type ValidationReport struct {
	ValidationPassed   bool     `json:"validation_passed"`
	Issues             []string `json:"issues"`
	Recommendations    []string `json:"recommendations"`
	BestPracticesScore int      `json:"best_practices_score"`
}

// ValidateDescription runs keyword heuristics over a free-text architecture
// description. It complements, not replaces, the model's judgement.
func ValidateDescription(description string) ValidationReport {
	report := ValidationReport{Issues: []string{}, Recommendations: []string{}}
	text := strings.ToLower(description)

	has := func(terms ...string) bool {
		for _, term := range terms {
			if strings.Contains(text, term) {
				return true
			}
		}
		return false
	}

	if has("database") && !has("backup") {
		report.Issues = append(report.Issues, "No backup strategy mentioned for database")
		report.Recommendations = append(report.Recommendations, "Implement automated backups with point-in-time recovery")
	}
	if has("ec2", "vm") && !has("autoscaling") {
		report.Issues = append(report.Issues, "No auto-scaling configuration mentioned")
		report.Recommendations = append(report.Recommendations, "Configure auto-scaling groups for better availability")
	}
	if !has("load balancer", "alb") && has("web", "api") {
		report.Issues = append(report.Issues, "No load balancer detected for web/API services")
		report.Recommendations = append(report.Recommendations, "Add a load balancer for high availability")
	}
	if !has("cdn", "cloudfront") && has("static", "web") {
		report.Recommendations = append(report.Recommendations, "Consider adding CDN for better performance")
	}
	if !has("monitoring") {
		report.Recommendations = append(report.Recommendations, "Add monitoring solution (CloudWatch, Datadog, etc.)")
	}

	report.ValidationPassed = len(report.Issues) == 0
	score := 100 - len(report.Issues)*15 - len(report.Recommendations)*5
	if score < 0 {
		score = 0
	}
	report.BestPracticesScore = score
	return report
}

// PriceBookSummary renders the catalog as prompt context so the model works
// from the same figures the local calculator uses.
func PriceBookSummary() string {
	categories := make([]string, 0, len(awsServices))
	for category := range awsServices {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	for _, category := range categories {
		services := awsServices[category]
		names := make([]string, 0, len(services))
		for name := range services {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entry := services[name]
			fmt.Fprintf(&b, "- %s (%s): $%.2f/month, %s\n",
				entry.Name, category, entry.BaseCost, entry.Description)
		}
	}
	return b.String()
}
