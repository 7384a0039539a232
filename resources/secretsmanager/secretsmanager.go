// Package secretsmanager contains CloudFormation resource types for AWS::SecretsManager.
package secretsmanager

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// Secret represents AWS::SecretsManager::Secret.
// Ref returns the secret ARN.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-secretsmanager-secret.html
type Secret struct {
	Description          any                          `json:"Description,omitempty"`
	GenerateSecretString *Secret_GenerateSecretString `json:"GenerateSecretString,omitempty"`
	KmsKeyId             any                          `json:"KmsKeyId,omitempty"`
	Name                 any                          `json:"Name,omitempty"`
	SecretString         any                          `json:"SecretString,omitempty"`
	Tags                 []any                        `json:"Tags,omitempty"`

	Id rdstls.AttrRef `json:"-" attr:"Id"`
}

// ResourceType returns the CloudFormation resource type.
func (r Secret) ResourceType() string {
	return "AWS::SecretsManager::Secret"
}

// Secret_GenerateSecretString represents AWS::SecretsManager::Secret.GenerateSecretString.
type Secret_GenerateSecretString struct {
	ExcludeCharacters       any `json:"ExcludeCharacters,omitempty"`
	ExcludeLowercase        any `json:"ExcludeLowercase,omitempty"`
	ExcludeNumbers          any `json:"ExcludeNumbers,omitempty"`
	ExcludePunctuation      any `json:"ExcludePunctuation,omitempty"`
	ExcludeUppercase        any `json:"ExcludeUppercase,omitempty"`
	GenerateStringKey       any `json:"GenerateStringKey,omitempty"`
	IncludeSpace            any `json:"IncludeSpace,omitempty"`
	PasswordLength          any `json:"PasswordLength,omitempty"`
	RequireEachIncludedType any `json:"RequireEachIncludedType,omitempty"`
	SecretStringTemplate    any `json:"SecretStringTemplate,omitempty"`
}

// SecretTargetAttachment represents AWS::SecretsManager::SecretTargetAttachment.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-secretsmanager-secrettargetattachment.html
type SecretTargetAttachment struct {
	SecretId   any `json:"SecretId,omitempty"`
	TargetId   any `json:"TargetId,omitempty"`
	TargetType any `json:"TargetType,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecretTargetAttachment) ResourceType() string {
	return "AWS::SecretsManager::SecretTargetAttachment"
}
