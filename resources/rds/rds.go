// Package rds contains CloudFormation resource types for AWS::RDS.
package rds

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// DBInstance represents AWS::RDS::DBInstance.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-rds-dbinstance.html
type DBInstance struct {
	AllocatedStorage      any   `json:"AllocatedStorage,omitempty"`
	BackupRetentionPeriod any   `json:"BackupRetentionPeriod,omitempty"`
	CopyTagsToSnapshot    any   `json:"CopyTagsToSnapshot,omitempty"`
	DBInstanceClass       any   `json:"DBInstanceClass,omitempty"`
	DBInstanceIdentifier  any   `json:"DBInstanceIdentifier,omitempty"`
	DBName                any   `json:"DBName,omitempty"`
	DBParameterGroupName  any   `json:"DBParameterGroupName,omitempty"`
	DBSubnetGroupName     any   `json:"DBSubnetGroupName,omitempty"`
	DeletionProtection    any   `json:"DeletionProtection,omitempty"`
	Engine                any   `json:"Engine,omitempty"`
	EngineVersion         any   `json:"EngineVersion,omitempty"`
	MasterUserPassword    any   `json:"MasterUserPassword,omitempty"`
	MasterUsername        any   `json:"MasterUsername,omitempty"`
	MaxAllocatedStorage   any   `json:"MaxAllocatedStorage,omitempty"`
	MultiAZ               any   `json:"MultiAZ,omitempty"`
	Port                  any   `json:"Port,omitempty"`
	PubliclyAccessible    any   `json:"PubliclyAccessible,omitempty"`
	StorageEncrypted      any   `json:"StorageEncrypted,omitempty"`
	StorageType           any   `json:"StorageType,omitempty"`
	VPCSecurityGroups     []any `json:"VPCSecurityGroups,omitempty"`
	Tags                  []any `json:"Tags,omitempty"`

	DBInstanceArn   rdstls.AttrRef `json:"-" attr:"DBInstanceArn"`
	EndpointAddress rdstls.AttrRef `json:"-" attr:"Endpoint.Address"`
	EndpointPort    rdstls.AttrRef `json:"-" attr:"Endpoint.Port"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBInstance) ResourceType() string {
	return "AWS::RDS::DBInstance"
}

// DBSubnetGroup represents AWS::RDS::DBSubnetGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-rds-dbsubnetgroup.html
type DBSubnetGroup struct {
	DBSubnetGroupDescription any   `json:"DBSubnetGroupDescription,omitempty"`
	DBSubnetGroupName        any   `json:"DBSubnetGroupName,omitempty"`
	SubnetIds                []any `json:"SubnetIds,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBSubnetGroup) ResourceType() string {
	return "AWS::RDS::DBSubnetGroup"
}

// DBParameterGroup represents AWS::RDS::DBParameterGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-rds-dbparametergroup.html
type DBParameterGroup struct {
	DBParameterGroupName any            `json:"DBParameterGroupName,omitempty"`
	Description          any            `json:"Description,omitempty"`
	Family               any            `json:"Family,omitempty"`
	Parameters           map[string]any `json:"Parameters,omitempty"`
	Tags                 []any          `json:"Tags,omitempty"`

	DBParameterGroupNameAttr rdstls.AttrRef `json:"-" attr:"DBParameterGroupName"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBParameterGroup) ResourceType() string {
	return "AWS::RDS::DBParameterGroup"
}
