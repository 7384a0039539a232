// Package elasticloadbalancingv2 contains CloudFormation resource types for AWS::ElasticLoadBalancingV2.
package elasticloadbalancingv2

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// LoadBalancer represents AWS::ElasticLoadBalancingV2::LoadBalancer.
// Ref returns the load balancer ARN.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-elasticloadbalancingv2-loadbalancer.html
type LoadBalancer struct {
	IpAddressType          any                                  `json:"IpAddressType,omitempty"`
	LoadBalancerAttributes []LoadBalancer_LoadBalancerAttribute `json:"LoadBalancerAttributes,omitempty"`
	Name                   any                                  `json:"Name,omitempty"`
	Scheme                 any                                  `json:"Scheme,omitempty"`
	SecurityGroups         []any                                `json:"SecurityGroups,omitempty"`
	Subnets                []any                                `json:"Subnets,omitempty"`
	Type                   any                                  `json:"Type,omitempty"`
	Tags                   []any                                `json:"Tags,omitempty"`

	CanonicalHostedZoneID rdstls.AttrRef `json:"-" attr:"CanonicalHostedZoneID"`
	DNSName               rdstls.AttrRef `json:"-" attr:"DNSName"`
	LoadBalancerArn       rdstls.AttrRef `json:"-" attr:"LoadBalancerArn"`
	LoadBalancerFullName  rdstls.AttrRef `json:"-" attr:"LoadBalancerFullName"`
}

// ResourceType returns the CloudFormation resource type.
func (r LoadBalancer) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::LoadBalancer"
}

// LoadBalancer_LoadBalancerAttribute represents AWS::ElasticLoadBalancingV2::LoadBalancer.LoadBalancerAttribute.
type LoadBalancer_LoadBalancerAttribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Listener represents AWS::ElasticLoadBalancingV2::Listener.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-elasticloadbalancingv2-listener.html
type Listener struct {
	DefaultActions  []Listener_Action `json:"DefaultActions,omitempty"`
	LoadBalancerArn any               `json:"LoadBalancerArn,omitempty"`
	Port            any               `json:"Port,omitempty"`
	Protocol        any               `json:"Protocol,omitempty"`

	ListenerArn rdstls.AttrRef `json:"-" attr:"ListenerArn"`
}

// ResourceType returns the CloudFormation resource type.
func (r Listener) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::Listener"
}

// Listener_Action represents AWS::ElasticLoadBalancingV2::Listener.Action.
type Listener_Action struct {
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
	Type           any `json:"Type,omitempty"`
}

// TargetGroup represents AWS::ElasticLoadBalancingV2::TargetGroup.
// Ref returns the target group ARN.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-elasticloadbalancingv2-targetgroup.html
type TargetGroup struct {
	HealthCheckEnabled         any                                `json:"HealthCheckEnabled,omitempty"`
	HealthCheckIntervalSeconds any                                `json:"HealthCheckIntervalSeconds,omitempty"`
	HealthCheckPath            any                                `json:"HealthCheckPath,omitempty"`
	HealthCheckProtocol        any                                `json:"HealthCheckProtocol,omitempty"`
	HealthCheckTimeoutSeconds  any                                `json:"HealthCheckTimeoutSeconds,omitempty"`
	HealthyThresholdCount      any                                `json:"HealthyThresholdCount,omitempty"`
	Name                       any                                `json:"Name,omitempty"`
	Port                       any                                `json:"Port,omitempty"`
	Protocol                   any                                `json:"Protocol,omitempty"`
	TargetGroupAttributes      []TargetGroup_TargetGroupAttribute `json:"TargetGroupAttributes,omitempty"`
	TargetType                 any                                `json:"TargetType,omitempty"`
	UnhealthyThresholdCount    any                                `json:"UnhealthyThresholdCount,omitempty"`
	VpcId                      any                                `json:"VpcId,omitempty"`
	Tags                       []any                              `json:"Tags,omitempty"`

	TargetGroupFullName rdstls.AttrRef `json:"-" attr:"TargetGroupFullName"`
	TargetGroupName     rdstls.AttrRef `json:"-" attr:"TargetGroupName"`
}

// ResourceType returns the CloudFormation resource type.
func (r TargetGroup) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::TargetGroup"
}

// TargetGroup_TargetGroupAttribute represents AWS::ElasticLoadBalancingV2::TargetGroup.TargetGroupAttribute.
type TargetGroup_TargetGroupAttribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}
