package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"arch-agent/internal/domain/entity"
)

var (
	pricingFenceRe = regexp.MustCompile("(?is)```(?:ya?ml|json)\\s*\\n(.*?)```")

	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)total[:\s]*\$?(\d+(?:\.\d+)?)[:\s]*(?:per month|monthly|/month)`),
		regexp.MustCompile(`(?i)cost[:\s]*\$?(\d+(?:\.\d+)?)[:\s]*(?:per month|monthly|/month)`),
		regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)[:\s]*(?:per month|monthly|/month)`),
	}

	lineAmountRe = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
)

// knownServices are the substrings that mark a line as a per-service
// breakdown entry when a currency amount appears on the same line.
var knownServices = []string{
	"EC2", "RDS", "S3", "Lambda", "DynamoDB", "ElastiCache", "CloudFront",
	"Load Balancer", "ALB", "NAT", "VPC", "Route 53", "API Gateway",
	"ECS", "EKS", "Fargate", "Data Transfer", "EBS", "CloudWatch", "SQS", "SNS",
}

// PricingStrategy tries to pull a cost estimate out of raw session text.
type PricingStrategy func(text string) (entity.Pricing, bool)

var pricingStrategies = []PricingStrategy{
	PricingFromFencedBlock,
	PricingFromPatterns,
}

// Pricing extracts a structured monthly-cost estimate from session text.
// The second return value is false when the fixed zero-cost fallback was
// substituted. A numeric pricing structure is always returned.
func Pricing(text string) (entity.Pricing, bool) {
	for _, strategy := range pricingStrategies {
		if p, ok := strategy(text); ok {
			return Normalize(p), true
		}
	}
	return FallbackPricing(), false
}

// PricingFromFencedBlock parses a fenced yaml/json block into a pricing
// record. YAML is a superset of JSON, so one parser covers both tags.
func PricingFromFencedBlock(text string) (entity.Pricing, bool) {
	for _, m := range pricingFenceRe.FindAllStringSubmatch(text, -1) {
		var doc map[string]any
		if err := yaml.Unmarshal([]byte(m[1]), &doc); err != nil {
			continue
		}
		p, ok := pricingFromDoc(doc)
		if ok {
			return p, true
		}
	}
	return entity.Pricing{}, false
}

func pricingFromDoc(doc map[string]any) (entity.Pricing, bool) {
	p := entity.Pricing{}

	total, totalOK := amountField(doc, "totalMonthlyCost", "totalMonthly", "total")
	p.TotalMonthlyCost = total
	p.Currency, _ = stringField(doc, "currency")
	p.Region, _ = stringField(doc, "region")

	if items, ok := doc["breakdown"].([]any); ok {
		for _, raw := range items {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			item := entity.PricingItem{}
			item.Service, _ = stringField(entry, "service")
			item.Cost, _ = amountField(entry, "cost", "monthlyCost")
			item.Unit, _ = stringField(entry, "unit")
			item.Details, _ = stringField(entry, "details", "description")
			if item.Service == "" {
				continue
			}
			if item.Unit == "" {
				item.Unit = "month"
			}
			p.Breakdown = append(p.Breakdown, item)
		}
	}

	if !totalOK && len(p.Breakdown) == 0 {
		return entity.Pricing{}, false
	}
	return p, true
}

// PricingFromPatterns scans for currency-amount patterns near total/cost
// wording, first match wins, and recognizes breakdown lines by a currency
// symbol co-occurring with a known service-name substring.
func PricingFromPatterns(text string) (entity.Pricing, bool) {
	p := entity.Pricing{}

	for _, re := range totalPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			p.TotalMonthlyCost = parseAmountString(m[1])
			break
		}
	}

	for _, line := range strings.Split(text, "\n") {
		service := matchKnownService(line)
		if service == "" {
			continue
		}
		m := lineAmountRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		p.Breakdown = append(p.Breakdown, entity.PricingItem{
			Service: service,
			Cost:    parseAmountString(m[1]),
			Unit:    "month",
			Details: strings.TrimSpace(line),
		})
	}

	if p.TotalMonthlyCost == 0 && len(p.Breakdown) == 0 {
		return entity.Pricing{}, false
	}
	return p, true
}

// Normalize fills defaults, derives missing totals, rounds every amount to
// two places, and computes the annual figure.
func Normalize(p entity.Pricing) entity.Pricing {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Region == "" {
		p.Region = DefaultRegion
	}
	if p.TotalMonthlyCost == 0 {
		for _, item := range p.Breakdown {
			p.TotalMonthlyCost += item.Cost
		}
	}
	p.TotalMonthlyCost = round2(p.TotalMonthlyCost)
	for i := range p.Breakdown {
		p.Breakdown[i].Cost = round2(p.Breakdown[i].Cost)
	}
	if p.TotalMonthlyCost > 0 {
		p.Annual = round2(p.TotalMonthlyCost * 12)
	} else {
		p.Annual = 0
	}
	return p
}

func matchKnownService(line string) string {
	if !strings.Contains(line, "$") {
		return ""
	}
	for _, svc := range knownServices {
		if strings.Contains(line, svc) {
			return svc
		}
	}
	return ""
}

func amountField(doc map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := doc[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case string:
			return parseAmountString(n), true
		}
	}
	return 0, false
}

func stringField(doc map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := doc[key].(string); ok {
			return v, true
		}
	}
	return "", false
}

// parseAmountString accepts "42.5", "$42.50" and "1,250"; absence of a
// decimal point parses as whole dollars.
func parseAmountString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
