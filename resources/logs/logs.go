// Package logs contains CloudFormation resource types for AWS::Logs.
package logs

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// LogGroup represents AWS::Logs::LogGroup.
// Ref returns the log group name.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-logs-loggroup.html
type LogGroup struct {
	KmsKeyId        any   `json:"KmsKeyId,omitempty"`
	LogGroupName    any   `json:"LogGroupName,omitempty"`
	RetentionInDays any   `json:"RetentionInDays,omitempty"`
	Tags            []any `json:"Tags,omitempty"`

	Arn rdstls.AttrRef `json:"-" attr:"Arn"`
}

// ResourceType returns the CloudFormation resource type.
func (r LogGroup) ResourceType() string {
	return "AWS::Logs::LogGroup"
}
