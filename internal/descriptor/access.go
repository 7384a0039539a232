package descriptor

import (
	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/resources/ec2"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

// OutputName is the logical name of the exported load balancer DNS name.
const OutputName = "AlbUrl"

// accessGrants opens the paths from the load balancer to the service and
// from the service to the database. The database rule uses the instance's
// endpoint port.
func (d *deployment) accessGrants(db *database, c *compute, lb *loadBalancer) {
	s := d.s
	port := d.settings.Service.ContainerPort

	stack.Add(s, "DatabaseIngressFromService", &ec2.SecurityGroupIngress{
		GroupId:               db.securityGroup.GroupId,
		SourceSecurityGroupId: c.securityGroup.GroupId,
		IpProtocol:            "tcp",
		FromPort:              db.instance.EndpointPort,
		ToPort:                db.instance.EndpointPort,
		Description:           "from service to database default port",
	})

	stack.Add(s, "ServiceIngressFromLoadBalancer", &ec2.SecurityGroupIngress{
		GroupId:               c.securityGroup.GroupId,
		SourceSecurityGroupId: lb.securityGroup.GroupId,
		IpProtocol:            "tcp",
		FromPort:              port,
		ToPort:                port,
		Description:           "Load balancer to target",
	})

	stack.Add(s, "LoadBalancerEgressToService", &ec2.SecurityGroupEgress{
		GroupId:                    lb.securityGroup.GroupId,
		DestinationSecurityGroupId: c.securityGroup.GroupId,
		IpProtocol:                 "tcp",
		FromPort:                   port,
		ToPort:                     port,
		Description:                "Load balancer to target",
	})
}

func (d *deployment) outputs(lb *loadBalancer) {
	d.s.AddOutput(OutputName, rdstls.Output{
		Description: "Public DNS name of the application load balancer",
		Value:       lb.lb.DNSName,
		Export:      &rdstls.Export{Name: ExportName},
	})
}
