// Package intrinsics provides CloudFormation intrinsic functions.
//
// The core intrinsic types are re-exported from cloudformation-schema-go;
// this package adds the Secrets Manager reference helpers the descriptor
// needs and IAM policy document types.
//
//	Ref{LogicalName: "AppVpc"}            → {"Ref": "AppVpc"}
//	Sub{String: "${AWS::StackName}-db"}   → {"Fn::Sub": "${AWS::StackName}-db"}
//	Join{Delimiter: "", Values: []any{…}} → {"Fn::Join": ["", […]]}
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
	GetAZs = intrinsics.GetAZs

	// If represents a CloudFormation Fn::If intrinsic function.
	If = intrinsics.If

	// Equals represents a CloudFormation Fn::Equals condition function.
	Equals = intrinsics.Equals

	// Base64 represents a CloudFormation Fn::Base64 intrinsic function.
	Base64 = intrinsics.Base64

	// Split represents a CloudFormation Fn::Split intrinsic function.
	Split = intrinsics.Split

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// SecretsManagerField builds the ECS container secret ValueFrom for a single
// JSON key of a Secrets Manager secret. secret is the secret's Ref (its ARN).
//
//	{"Fn::Join": ["", [{"Ref": "DatabaseSecret"}, ":host::"]]}
func SecretsManagerField(secret any, field string) Join {
	return Join{
		Delimiter: "",
		Values:    []any{secret, ":" + field + "::"},
	}
}

// ResolveSecret builds a dynamic reference to one JSON key of a secret,
// resolved by CloudFormation at deploy time. The value never appears in the
// template.
//
//	{{resolve:secretsmanager:<arn>:SecretString:password::}}
func ResolveSecret(secret any, field string) Join {
	return Join{
		Delimiter: "",
		Values: []any{
			"{{resolve:secretsmanager:",
			secret,
			":SecretString:" + field + "::}}",
		},
	}
}
