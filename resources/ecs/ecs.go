// Package ecs contains CloudFormation resource types for AWS::ECS.
package ecs

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// Cluster represents AWS::ECS::Cluster.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecs-cluster.html
type Cluster struct {
	ClusterName     any                       `json:"ClusterName,omitempty"`
	ClusterSettings []Cluster_ClusterSettings `json:"ClusterSettings,omitempty"`
	Tags            []any                     `json:"Tags,omitempty"`

	Arn rdstls.AttrRef `json:"-" attr:"Arn"`
}

// ResourceType returns the CloudFormation resource type.
func (r Cluster) ResourceType() string {
	return "AWS::ECS::Cluster"
}

// Cluster_ClusterSettings represents AWS::ECS::Cluster.ClusterSettings.
type Cluster_ClusterSettings struct {
	Name  any `json:"Name,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TaskDefinition represents AWS::ECS::TaskDefinition.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecs-taskdefinition.html
type TaskDefinition struct {
	ContainerDefinitions    []TaskDefinition_ContainerDefinition `json:"ContainerDefinitions,omitempty"`
	Cpu                     any                                  `json:"Cpu,omitempty"`
	ExecutionRoleArn        any                                  `json:"ExecutionRoleArn,omitempty"`
	Family                  any                                  `json:"Family,omitempty"`
	Memory                  any                                  `json:"Memory,omitempty"`
	NetworkMode             any                                  `json:"NetworkMode,omitempty"`
	RequiresCompatibilities []any                                `json:"RequiresCompatibilities,omitempty"`
	TaskRoleArn             any                                  `json:"TaskRoleArn,omitempty"`
	Tags                    []any                                `json:"Tags,omitempty"`

	TaskDefinitionArn rdstls.AttrRef `json:"-" attr:"TaskDefinitionArn"`
}

// ResourceType returns the CloudFormation resource type.
func (r TaskDefinition) ResourceType() string {
	return "AWS::ECS::TaskDefinition"
}

// TaskDefinition_ContainerDefinition represents AWS::ECS::TaskDefinition.ContainerDefinition.
type TaskDefinition_ContainerDefinition struct {
	Cpu              any                              `json:"Cpu,omitempty"`
	Environment      []TaskDefinition_KeyValuePair    `json:"Environment,omitempty"`
	Essential        any                              `json:"Essential,omitempty"`
	Image            any                              `json:"Image,omitempty"`
	LogConfiguration *TaskDefinition_LogConfiguration `json:"LogConfiguration,omitempty"`
	Memory           any                              `json:"Memory,omitempty"`
	Name             any                              `json:"Name,omitempty"`
	PortMappings     []TaskDefinition_PortMapping     `json:"PortMappings,omitempty"`
	Secrets          []TaskDefinition_Secret          `json:"Secrets,omitempty"`
}

// TaskDefinition_PortMapping represents AWS::ECS::TaskDefinition.PortMapping.
type TaskDefinition_PortMapping struct {
	ContainerPort any `json:"ContainerPort,omitempty"`
	HostPort      any `json:"HostPort,omitempty"`
	Protocol      any `json:"Protocol,omitempty"`
}

// TaskDefinition_LogConfiguration represents AWS::ECS::TaskDefinition.LogConfiguration.
type TaskDefinition_LogConfiguration struct {
	LogDriver any            `json:"LogDriver,omitempty"`
	Options   map[string]any `json:"Options,omitempty"`
}

// TaskDefinition_Secret represents AWS::ECS::TaskDefinition.Secret.
type TaskDefinition_Secret struct {
	Name      any `json:"Name,omitempty"`
	ValueFrom any `json:"ValueFrom,omitempty"`
}

// TaskDefinition_KeyValuePair represents AWS::ECS::TaskDefinition.KeyValuePair.
type TaskDefinition_KeyValuePair struct {
	Name  any `json:"Name,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Service represents AWS::ECS::Service.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecs-service.html
type Service struct {
	Cluster                       any                              `json:"Cluster,omitempty"`
	DeploymentConfiguration       *Service_DeploymentConfiguration `json:"DeploymentConfiguration,omitempty"`
	DesiredCount                  any                              `json:"DesiredCount,omitempty"`
	EnableECSManagedTags          any                              `json:"EnableECSManagedTags,omitempty"`
	HealthCheckGracePeriodSeconds any                              `json:"HealthCheckGracePeriodSeconds,omitempty"`
	LaunchType                    any                              `json:"LaunchType,omitempty"`
	LoadBalancers                 []Service_LoadBalancer           `json:"LoadBalancers,omitempty"`
	NetworkConfiguration          *Service_NetworkConfiguration    `json:"NetworkConfiguration,omitempty"`
	ServiceName                   any                              `json:"ServiceName,omitempty"`
	TaskDefinition                any                              `json:"TaskDefinition,omitempty"`
	Tags                          []any                            `json:"Tags,omitempty"`

	Name       rdstls.AttrRef `json:"-" attr:"Name"`
	ServiceArn rdstls.AttrRef `json:"-" attr:"ServiceArn"`
}

// ResourceType returns the CloudFormation resource type.
func (r Service) ResourceType() string {
	return "AWS::ECS::Service"
}

// Service_LoadBalancer represents AWS::ECS::Service.LoadBalancer.
type Service_LoadBalancer struct {
	ContainerName  any `json:"ContainerName,omitempty"`
	ContainerPort  any `json:"ContainerPort,omitempty"`
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
}

// Service_NetworkConfiguration represents AWS::ECS::Service.NetworkConfiguration.
type Service_NetworkConfiguration struct {
	AwsvpcConfiguration *Service_AwsVpcConfiguration `json:"AwsvpcConfiguration,omitempty"`
}

// Service_AwsVpcConfiguration represents AWS::ECS::Service.AwsVpcConfiguration.
type Service_AwsVpcConfiguration struct {
	AssignPublicIp any   `json:"AssignPublicIp,omitempty"`
	SecurityGroups []any `json:"SecurityGroups,omitempty"`
	Subnets        []any `json:"Subnets,omitempty"`
}

// Service_DeploymentConfiguration represents AWS::ECS::Service.DeploymentConfiguration.
type Service_DeploymentConfiguration struct {
	DeploymentCircuitBreaker *Service_DeploymentCircuitBreaker `json:"DeploymentCircuitBreaker,omitempty"`
	MaximumPercent           any                               `json:"MaximumPercent,omitempty"`
	MinimumHealthyPercent    any                               `json:"MinimumHealthyPercent,omitempty"`
}

// Service_DeploymentCircuitBreaker represents AWS::ECS::Service.DeploymentCircuitBreaker.
type Service_DeploymentCircuitBreaker struct {
	Enable   any `json:"Enable,omitempty"`
	Rollback any `json:"Rollback,omitempty"`
}
