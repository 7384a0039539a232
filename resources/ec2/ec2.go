// Package ec2 contains CloudFormation resource types for AWS::EC2.
package ec2

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// VPC represents AWS::EC2::VPC.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-vpc.html
type VPC struct {
	CidrBlock          any   `json:"CidrBlock,omitempty"`
	EnableDnsHostnames any   `json:"EnableDnsHostnames,omitempty"`
	EnableDnsSupport   any   `json:"EnableDnsSupport,omitempty"`
	InstanceTenancy    any   `json:"InstanceTenancy,omitempty"`
	Tags               []any `json:"Tags,omitempty"`

	VpcId                rdstls.AttrRef `json:"-" attr:"VpcId"`
	CidrBlockAttr        rdstls.AttrRef `json:"-" attr:"CidrBlock"`
	DefaultSecurityGroup rdstls.AttrRef `json:"-" attr:"DefaultSecurityGroup"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPC) ResourceType() string {
	return "AWS::EC2::VPC"
}

// Subnet represents AWS::EC2::Subnet.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-subnet.html
type Subnet struct {
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	MapPublicIpOnLaunch any   `json:"MapPublicIpOnLaunch,omitempty"`
	VpcId               any   `json:"VpcId,omitempty"`
	Tags                []any `json:"Tags,omitempty"`

	SubnetId             rdstls.AttrRef `json:"-" attr:"SubnetId"`
	AvailabilityZoneAttr rdstls.AttrRef `json:"-" attr:"AvailabilityZone"`
}

// ResourceType returns the CloudFormation resource type.
func (r Subnet) ResourceType() string {
	return "AWS::EC2::Subnet"
}

// InternetGateway represents AWS::EC2::InternetGateway.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-internetgateway.html
type InternetGateway struct {
	Tags []any `json:"Tags,omitempty"`

	InternetGatewayId rdstls.AttrRef `json:"-" attr:"InternetGatewayId"`
}

// ResourceType returns the CloudFormation resource type.
func (r InternetGateway) ResourceType() string {
	return "AWS::EC2::InternetGateway"
}

// VPCGatewayAttachment represents AWS::EC2::VPCGatewayAttachment.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-vpcgatewayattachment.html
type VPCGatewayAttachment struct {
	InternetGatewayId any `json:"InternetGatewayId,omitempty"`
	VpcId             any `json:"VpcId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCGatewayAttachment) ResourceType() string {
	return "AWS::EC2::VPCGatewayAttachment"
}

// EIP represents AWS::EC2::EIP.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-eip.html
type EIP struct {
	Domain any   `json:"Domain,omitempty"`
	Tags   []any `json:"Tags,omitempty"`

	AllocationId rdstls.AttrRef `json:"-" attr:"AllocationId"`
	PublicIp     rdstls.AttrRef `json:"-" attr:"PublicIp"`
}

// ResourceType returns the CloudFormation resource type.
func (r EIP) ResourceType() string {
	return "AWS::EC2::EIP"
}

// NatGateway represents AWS::EC2::NatGateway.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-natgateway.html
type NatGateway struct {
	AllocationId     any   `json:"AllocationId,omitempty"`
	ConnectivityType any   `json:"ConnectivityType,omitempty"`
	SubnetId         any   `json:"SubnetId,omitempty"`
	Tags             []any `json:"Tags,omitempty"`

	NatGatewayId rdstls.AttrRef `json:"-" attr:"NatGatewayId"`
}

// ResourceType returns the CloudFormation resource type.
func (r NatGateway) ResourceType() string {
	return "AWS::EC2::NatGateway"
}

// RouteTable represents AWS::EC2::RouteTable.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-routetable.html
type RouteTable struct {
	VpcId any   `json:"VpcId,omitempty"`
	Tags  []any `json:"Tags,omitempty"`

	RouteTableId rdstls.AttrRef `json:"-" attr:"RouteTableId"`
}

// ResourceType returns the CloudFormation resource type.
func (r RouteTable) ResourceType() string {
	return "AWS::EC2::RouteTable"
}

// Route represents AWS::EC2::Route.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-route.html
type Route struct {
	DestinationCidrBlock any `json:"DestinationCidrBlock,omitempty"`
	GatewayId            any `json:"GatewayId,omitempty"`
	NatGatewayId         any `json:"NatGatewayId,omitempty"`
	RouteTableId         any `json:"RouteTableId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Route) ResourceType() string {
	return "AWS::EC2::Route"
}

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-subnetroutetableassociation.html
type SubnetRouteTableAssociation struct {
	RouteTableId any `json:"RouteTableId,omitempty"`
	SubnetId     any `json:"SubnetId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// SecurityGroup represents AWS::EC2::SecurityGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-securitygroup.html
type SecurityGroup struct {
	GroupDescription     any                     `json:"GroupDescription,omitempty"`
	GroupName            any                     `json:"GroupName,omitempty"`
	SecurityGroupEgress  []SecurityGroup_Egress  `json:"SecurityGroupEgress,omitempty"`
	SecurityGroupIngress []SecurityGroup_Ingress `json:"SecurityGroupIngress,omitempty"`
	VpcId                any                     `json:"VpcId,omitempty"`
	Tags                 []any                   `json:"Tags,omitempty"`

	GroupId   rdstls.AttrRef `json:"-" attr:"GroupId"`
	VpcIdAttr rdstls.AttrRef `json:"-" attr:"VpcId"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroup) ResourceType() string {
	return "AWS::EC2::SecurityGroup"
}

// SecurityGroup_Ingress represents AWS::EC2::SecurityGroup.Ingress.
type SecurityGroup_Ingress struct {
	CidrIp                any `json:"CidrIp,omitempty"`
	Description           any `json:"Description,omitempty"`
	FromPort              any `json:"FromPort,omitempty"`
	IpProtocol            any `json:"IpProtocol,omitempty"`
	SourceSecurityGroupId any `json:"SourceSecurityGroupId,omitempty"`
	ToPort                any `json:"ToPort,omitempty"`
}

// SecurityGroup_Egress represents AWS::EC2::SecurityGroup.Egress.
type SecurityGroup_Egress struct {
	CidrIp                     any `json:"CidrIp,omitempty"`
	Description                any `json:"Description,omitempty"`
	DestinationSecurityGroupId any `json:"DestinationSecurityGroupId,omitempty"`
	FromPort                   any `json:"FromPort,omitempty"`
	IpProtocol                 any `json:"IpProtocol,omitempty"`
	ToPort                     any `json:"ToPort,omitempty"`
}

// SecurityGroupIngress represents AWS::EC2::SecurityGroupIngress.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-securitygroupingress.html
type SecurityGroupIngress struct {
	CidrIp                any `json:"CidrIp,omitempty"`
	Description           any `json:"Description,omitempty"`
	FromPort              any `json:"FromPort,omitempty"`
	GroupId               any `json:"GroupId,omitempty"`
	IpProtocol            any `json:"IpProtocol,omitempty"`
	SourceSecurityGroupId any `json:"SourceSecurityGroupId,omitempty"`
	ToPort                any `json:"ToPort,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroupIngress) ResourceType() string {
	return "AWS::EC2::SecurityGroupIngress"
}

// SecurityGroupEgress represents AWS::EC2::SecurityGroupEgress.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-securitygroupegress.html
type SecurityGroupEgress struct {
	CidrIp                     any `json:"CidrIp,omitempty"`
	Description                any `json:"Description,omitempty"`
	DestinationSecurityGroupId any `json:"DestinationSecurityGroupId,omitempty"`
	FromPort                   any `json:"FromPort,omitempty"`
	GroupId                    any `json:"GroupId,omitempty"`
	IpProtocol                 any `json:"IpProtocol,omitempty"`
	ToPort                     any `json:"ToPort,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroupEgress) ResourceType() string {
	return "AWS::EC2::SecurityGroupEgress"
}

// VPCEndpoint represents AWS::EC2::VPCEndpoint.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-vpcendpoint.html
type VPCEndpoint struct {
	PrivateDnsEnabled any   `json:"PrivateDnsEnabled,omitempty"`
	RouteTableIds     []any `json:"RouteTableIds,omitempty"`
	SecurityGroupIds  []any `json:"SecurityGroupIds,omitempty"`
	ServiceName       any   `json:"ServiceName,omitempty"`
	SubnetIds         []any `json:"SubnetIds,omitempty"`
	VpcEndpointType   any   `json:"VpcEndpointType,omitempty"`
	VpcId             any   `json:"VpcId,omitempty"`

	Id         rdstls.AttrRef `json:"-" attr:"Id"`
	DnsEntries rdstls.AttrRef `json:"-" attr:"DnsEntries"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCEndpoint) ResourceType() string {
	return "AWS::EC2::VPCEndpoint"
}
