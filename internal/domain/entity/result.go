package entity

import "fmt"

// ArchitectureResult is the complete output of one generation run.
// Every field is always populated: extraction failures degrade to fixed
// fallback values, never to absence.
type ArchitectureResult struct {
	Template   string  `json:"cfTemplate"`
	Pricing    Pricing `json:"pricing"`
	DiagramURL string  `json:"diagramUrl"`
}

type Pricing struct {
	TotalMonthlyCost float64       `json:"totalMonthlyCost"`
	Annual           float64       `json:"annual"`
	Currency         string        `json:"currency"`
	Region           string        `json:"region"`
	Breakdown        []PricingItem `json:"breakdown"`
}

type PricingItem struct {
	Service string  `json:"service"`
	Cost    float64 `json:"cost"`
	Unit    string  `json:"unit"`
	Details string  `json:"details"`
}

func (p Pricing) FormattedMonthly() string {
	return fmt.Sprintf("$%.2f", p.TotalMonthlyCost)
}

func (p Pricing) FormattedAnnual() string {
	return fmt.Sprintf("$%.2f", p.Annual)
}
