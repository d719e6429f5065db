package extract

import "arch-agent/internal/domain/entity"

// FallbackTemplate is substituted whenever no template could be extracted:
// a minimal network skeleton with no compute resources.
const FallbackTemplate = `AWSTemplateFormatVersion: '2010-09-09'
Description: 'Fallback AWS architecture template'

Parameters:
  Environment:
    Type: String
    Default: prod
    AllowedValues: [dev, staging, prod]

Resources:
  # VPC
  VPC:
    Type: AWS::EC2::VPC
    Properties:
      CidrBlock: 10.0.0.0/16
      EnableDnsHostnames: true
      EnableDnsSupport: true
      Tags:
        - Key: Name
          Value: !Sub '${Environment}-vpc'

  # Internet Gateway
  InternetGateway:
    Type: AWS::EC2::InternetGateway
    Properties:
      Tags:
        - Key: Name
          Value: !Sub '${Environment}-igw'

  # Attach Internet Gateway to VPC
  InternetGatewayAttachment:
    Type: AWS::EC2::VPCGatewayAttachment
    Properties:
      InternetGatewayId: !Ref InternetGateway
      VpcId: !Ref VPC

Outputs:
  VPCId:
    Description: VPC ID
    Value: !Ref VPC
    Export:
      Name: !Sub '${Environment}-vpc-id'
`

const (
	DefaultCurrency = "USD"
	DefaultRegion   = "us-east-1"
)

// FallbackPricing is substituted whenever no monetary value could be
// extracted: a zero-cost estimate with a single zero-cost line item.
func FallbackPricing() entity.Pricing {
	return entity.Pricing{
		TotalMonthlyCost: 0,
		Annual:           0,
		Currency:         DefaultCurrency,
		Region:           DefaultRegion,
		Breakdown: []entity.PricingItem{
			{
				Service: "AWS Services",
				Cost:    0,
				Unit:    "month",
				Details: "No pricing information available",
			},
		},
	}
}
