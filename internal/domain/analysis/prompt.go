package analysis

// AnalysisPrompt is the fixed instruction sent alongside every diagram. The
// wording is deliberate: the response extractor depends on the JSON contract
// it establishes, so changes here must stay in sync with the extractor.
const AnalysisPrompt = `You are an expert cloud architecture analyst. Analyze this cloud architecture diagram and extract the following information:

1. **Cloud Provider**: Identify the cloud provider (AWS, Azure, or GCP) based on the service icons and naming conventions visible in the diagram.

2. **Components**: Identify all cloud services and components shown in the diagram. For each component, provide:
   - Component type (load_balancer, compute, database, storage, cache, cdn, networking, security, serverless, etc.)
   - Specific service name (e.g., "Application Load Balancer", "EC2", "RDS", "S3", etc.)
   - Confidence score (0-100%) indicating how certain you are about the identification

3. **Architecture Complexity**: Assess the overall complexity as:
   - "low" - Simple, few components (1-3)
   - "medium" - Moderate complexity (4-8 components)
   - "high" - Complex architecture (9+ components)

4. **Connections**: Identify the relationships and data flow between components

5. **Estimated Cost**: Provide a rough monthly cost estimate in USD based on typical usage

Return your analysis as a JSON object with this exact structure:

` + "```json" + `
{
  "provider": "aws" | "azure" | "gcp",
  "detected_components": [
    {
      "type": "component_type",
      "service_name": "Specific Service Name",
      "confidence": 95,
      "category": "network" | "compute" | "database" | "storage" | "cache" | "cdn" | "security" | "serverless",
      "description": "Brief description of what this component does"
    }
  ],
  "complexity": "low" | "medium" | "high",
  "estimated_monthly_cost": 245.50,
  "connections": [
    {
      "from": "component_index",
      "to": "component_index",
      "type": "http" | "tcp" | "data_flow" | "api_call"
    }
  ],
  "architecture_pattern": "Brief description of the overall architecture pattern",
  "recommendations": [
    "Optional: List any recommendations for improvement"
  ]
}
` + "```" + `

**Important Guidelines:**
- Only include components you can clearly identify with >70% confidence
- Use standard cloud service names (e.g., "Application Load Balancer" not "ALB")
- Be conservative with cost estimates
- Identify the provider based on visual clues like icons, service names, and diagram style
- If the diagram is unclear or unreadable, set low confidence scores

**Component Type Mapping:**
- Load Balancers → type: "load_balancer", category: "network"
- VMs/Instances → type: "virtual_machine", category: "compute"
- Containers/ECS/AKS → type: "container", category: "compute"
- Lambda/Functions → type: "function", category: "serverless"
- Databases → type: "database", category: "database"
- Object Storage → type: "object_storage", category: "storage"
- Cache (Redis/Memcached) → type: "cache", category: "cache"
- CDN → type: "cdn", category: "cdn"
- VPC/VNet → type: "vpc", category: "network"
- API Gateway → type: "api_gateway", category: "serverless"

Return ONLY the JSON object, no additional text.`
