package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// AWS_REGION resolves to the region the stack is deployed in. An
// environment-agnostic template uses it wherever a region is needed.
var AWS_REGION = intrinsics.AWS_REGION

// IsPseudoParameter reports whether name is an AWS:: pseudo parameter.
func IsPseudoParameter(name string) bool {
	switch name {
	case "AWS::AccountId", "AWS::NotificationARNs", "AWS::NoValue", "AWS::Partition",
		"AWS::Region", "AWS::StackId", "AWS::StackName", "AWS::URLSuffix":
		return true
	}
	return false
}
