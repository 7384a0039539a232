package descriptor

import (
	"fmt"
	"strings"

	"github.com/lex00/pgsql-rds-tls-go/intrinsics"
	"github.com/lex00/pgsql-rds-tls-go/resources/ec2"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

// VpcCidr is the address range of the application VPC.
const VpcCidr = "10.0.0.0/16"

// Subnet ranges per AZ. Each is a /18 of VpcCidr.
var (
	publicSubnetCidrs  = []string{"10.0.0.0/18", "10.0.64.0/18"}
	privateSubnetCidrs = []string{"10.0.128.0/18", "10.0.192.0/18"}
)

// InterfaceEndpoints are the AWS services reachable from the private subnets
// through interface endpoints, by endpoint short name.
var InterfaceEndpoints = []string{
	"ecr.api",
	"ecr.dkr",
	"kms",
	"sts",
	"ssm",
	"secretsmanager",
	"cloudtrail",
	"events",
	"logs",
	"autoscaling",
	"rds",
}

// endpointIDs maps endpoint short names to logical ID prefixes.
var endpointIDs = map[string]string{
	"ecr.api":        "EcrApi",
	"ecr.dkr":        "EcrDkr",
	"kms":            "Kms",
	"sts":            "Sts",
	"ssm":            "Ssm",
	"secretsmanager": "SecretsManager",
	"cloudtrail":     "CloudTrail",
	"events":         "Events",
	"logs":           "Logs",
	"autoscaling":    "AutoScaling",
	"rds":            "Rds",
}

type network struct {
	vpc            *ec2.VPC
	publicSubnets  []*ec2.Subnet
	privateSubnets []*ec2.Subnet
	natGateway     *ec2.NatGateway
	endpoints      []*ec2.VPCEndpoint
}

func (n *network) publicSubnetIDs() []any {
	return subnetIDs(n.publicSubnets)
}

func (n *network) privateSubnetIDs() []any {
	return subnetIDs(n.privateSubnets)
}

func subnetIDs(subnets []*ec2.Subnet) []any {
	ids := make([]any, len(subnets))
	for i, s := range subnets {
		ids[i] = s
	}
	return ids
}

// availabilityZone places the i-th subnet. Without a region the zone is
// picked at deploy time from the stack's region.
func (d *deployment) availabilityZone(i int) any {
	if d.env.Region == "" {
		return intrinsics.Select{Index: i, List: intrinsics.GetAZs{Region: ""}}
	}
	return fmt.Sprintf("%s%c", d.env.Region, 'a'+i)
}

// endpointServiceName returns com.amazonaws.<region>.<name>.
func (d *deployment) endpointServiceName(name string) any {
	if d.env.Region == "" {
		return intrinsics.Sub{String: "com.amazonaws.${AWS::Region}." + name}
	}
	return "com.amazonaws." + d.env.Region + "." + name
}

func (d *deployment) network() *network {
	s := d.s
	n := &network{}

	n.vpc = stack.Add(s, "AppVpc", &ec2.VPC{
		CidrBlock:          VpcCidr,
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		InstanceTenancy:    "default",
		Tags:               nameTag("app-vpc"),
	})

	igw := stack.Add(s, "AppVpcInternetGateway", &ec2.InternetGateway{
		Tags: nameTag("app-vpc"),
	})
	attachment := stack.Add(s, "AppVpcGatewayAttachment", &ec2.VPCGatewayAttachment{
		VpcId:             n.vpc,
		InternetGatewayId: igw,
	})

	for i := 0; i < AZCount; i++ {
		id := fmt.Sprintf("PublicSubnet%d", i+1)
		subnet := stack.Add(s, id, &ec2.Subnet{
			VpcId:               n.vpc,
			CidrBlock:           publicSubnetCidrs[i],
			AvailabilityZone:    d.availabilityZone(i),
			MapPublicIpOnLaunch: true,
			Tags:                nameTag("app-vpc/" + id),
		})
		table := stack.Add(s, id+"RouteTable", &ec2.RouteTable{
			VpcId: n.vpc,
			Tags:  nameTag("app-vpc/" + id),
		})
		association := stack.Add(s, id+"RouteTableAssociation", &ec2.SubnetRouteTableAssociation{
			RouteTableId: table,
			SubnetId:     subnet,
		})
		route := stack.Add(s, id+"DefaultRoute", &ec2.Route{
			RouteTableId:         table,
			DestinationCidrBlock: "0.0.0.0/0",
			GatewayId:            igw,
		}, stack.DependsOn(attachment))

		// One NAT gateway, in the first public subnet, serves every private subnet.
		if i == 0 {
			eip := stack.Add(s, id+"Eip", &ec2.EIP{
				Domain: "vpc",
				Tags:   nameTag("app-vpc/" + id),
			})
			n.natGateway = stack.Add(s, id+"NatGateway", &ec2.NatGateway{
				AllocationId: eip.AllocationId,
				SubnetId:     subnet,
				Tags:         nameTag("app-vpc/" + id),
			}, stack.DependsOn(route, association))
		}

		n.publicSubnets = append(n.publicSubnets, subnet)
	}

	for i := 0; i < AZCount; i++ {
		id := fmt.Sprintf("PrivateSubnet%d", i+1)
		subnet := stack.Add(s, id, &ec2.Subnet{
			VpcId:               n.vpc,
			CidrBlock:           privateSubnetCidrs[i],
			AvailabilityZone:    d.availabilityZone(i),
			MapPublicIpOnLaunch: false,
			Tags:                nameTag("app-vpc/" + id),
		})
		table := stack.Add(s, id+"RouteTable", &ec2.RouteTable{
			VpcId: n.vpc,
			Tags:  nameTag("app-vpc/" + id),
		})
		stack.Add(s, id+"RouteTableAssociation", &ec2.SubnetRouteTableAssociation{
			RouteTableId: table,
			SubnetId:     subnet,
		})
		stack.Add(s, id+"DefaultRoute", &ec2.Route{
			RouteTableId:         table,
			DestinationCidrBlock: "0.0.0.0/0",
			NatGatewayId:         n.natGateway,
		})

		n.privateSubnets = append(n.privateSubnets, subnet)
	}

	for _, name := range InterfaceEndpoints {
		n.endpoints = append(n.endpoints, d.interfaceEndpoint(n, name))
	}

	return n
}

// interfaceEndpoint declares an interface endpoint in the private subnets
// with its own security group admitting HTTPS from inside the VPC.
func (d *deployment) interfaceEndpoint(n *network, name string) *ec2.VPCEndpoint {
	id := endpointIDs[name] + "Endpoint"
	path := "app-vpc/" + strings.ReplaceAll(name, ".", "-")

	sg := stack.Add(d.s, id+"SecurityGroup", &ec2.SecurityGroup{
		GroupDescription: StackName + "/" + path + "/SecurityGroup",
		VpcId:            n.vpc,
		SecurityGroupIngress: []ec2.SecurityGroup_Ingress{{
			CidrIp:      n.vpc.CidrBlockAttr,
			Description: "from VPC CIDR:443",
			IpProtocol:  "tcp",
			FromPort:    443,
			ToPort:      443,
		}},
		SecurityGroupEgress: []ec2.SecurityGroup_Egress{allowAllOutbound()},
		Tags:                nameTag(path),
	})

	return stack.Add(d.s, id, &ec2.VPCEndpoint{
		VpcId:             n.vpc,
		ServiceName:       d.endpointServiceName(name),
		VpcEndpointType:   "Interface",
		PrivateDnsEnabled: true,
		SubnetIds:         n.privateSubnetIDs(),
		SecurityGroupIds:  []any{sg.GroupId},
	})
}

func allowAllOutbound() ec2.SecurityGroup_Egress {
	return ec2.SecurityGroup_Egress{
		CidrIp:      "0.0.0.0/0",
		Description: "Allow all outbound traffic by default",
		IpProtocol:  "-1",
	}
}

// denyAllOutbound is the placeholder rule that replaces the implicit
// allow-all egress of a security group whose egress is managed explicitly.
func denyAllOutbound() ec2.SecurityGroup_Egress {
	return ec2.SecurityGroup_Egress{
		CidrIp:      "255.255.255.255/32",
		Description: "Disallow all traffic",
		IpProtocol:  "icmp",
		FromPort:    252,
		ToPort:      86,
	}
}
