package prompts

import (
	"strings"
	"testing"
)

func TestTemplatePrompt(t *testing.T) {
	p, err := TemplatePrompt("3-tier web app")
	if err != nil {
		t.Fatalf("TemplatePrompt failed: %v", err)
	}
	if !strings.Contains(p, `"3-tier web app"`) {
		t.Errorf("requirements not interpolated:\n%s", p)
	}
	if !strings.Contains(p, "CloudFormation") {
		t.Error("prompt should ask for a CloudFormation template")
	}
}

func TestDiagramPrompt(t *testing.T) {
	p, err := DiagramPrompt("AWSTemplateFormatVersion: '2010-09-09'")
	if err != nil {
		t.Fatalf("DiagramPrompt failed: %v", err)
	}
	if !strings.Contains(p, "AWSTemplateFormatVersion") {
		t.Error("template not interpolated")
	}
}

func TestPricingPrompt(t *testing.T) {
	p, err := PricingPrompt("- AWS::EC2::Instance x2 (InstanceType=t3.small)")
	if err != nil {
		t.Fatalf("PricingPrompt failed: %v", err)
	}
	if !strings.Contains(p, "t3.small") {
		t.Error("resource summary not interpolated")
	}
	if !strings.Contains(p, "totalMonthlyCost") {
		t.Error("prompt should request the structured output keys")
	}
}
