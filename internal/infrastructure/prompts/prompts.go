package prompts

import (
	"github.com/tmc/langchaingo/prompts"
)

// SessionSystemPrompt is shared by all three stage sessions.
const SessionSystemPrompt = `You are an AWS solutions architect agent. ` +
	`Use the available tools to ground your answer in real AWS data. ` +
	`Think step by step and answer with the requested artifact when you are done.`

const templatePromptText = `Generate a complete AWS CloudFormation template (YAML format) for these requirements: "{{.requirements}}"

- Include all necessary resources (VPC, subnets, security groups, etc.)
- Use best practices and proper resource naming
- Include outputs for important values

Return the template in a fenced yaml code block.`

const diagramPromptText = `Create an architecture diagram for the following CloudFormation template using the diagram tools:

{{.template}}

- Show data flow and component relationships
- Use standard AWS icons and naming conventions

Return the rendered image as inline base64 data or the path of the generated file.`

const pricingPromptText = `Estimate the monthly cost for an AWS architecture with the following resources, using the pricing tools for current prices:

{{.resources}}

- Calculate monthly costs for all resources
- Break down costs by service
- Include region and currency information

Return the estimate as a fenced yaml block with totalMonthlyCost, currency, region and a breakdown list (service, cost, unit, details).`

var (
	templatePrompt = prompts.NewPromptTemplate(templatePromptText, []string{"requirements"})
	diagramPrompt  = prompts.NewPromptTemplate(diagramPromptText, []string{"template"})
	pricingPrompt  = prompts.NewPromptTemplate(pricingPromptText, []string{"resources"})
)

// TemplatePrompt renders the stage-1 prompt from raw requirements text.
func TemplatePrompt(requirements string) (string, error) {
	return templatePrompt.Format(map[string]any{"requirements": requirements})
}

// DiagramPrompt renders the stage-2 prompt from the stage-1 template.
func DiagramPrompt(template string) (string, error) {
	return diagramPrompt.Format(map[string]any{"template": template})
}

// PricingPrompt renders the stage-3 prompt from the compact resource
// summary of the stage-1 template.
func PricingPrompt(resources string) (string, error) {
	return pricingPrompt.Format(map[string]any{"resources": resources})
}
