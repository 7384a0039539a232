package descriptor

import (
	"github.com/lex00/pgsql-rds-tls-go/resources/ec2"
	"github.com/lex00/pgsql-rds-tls-go/resources/ecs"
	elbv2 "github.com/lex00/pgsql-rds-tls-go/resources/elasticloadbalancingv2"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

type loadBalancer struct {
	lb            *elbv2.LoadBalancer
	listener      *elbv2.Listener
	targetGroup   *elbv2.TargetGroup
	securityGroup *ec2.SecurityGroup
}

func (d *deployment) loadBalancer(n *network) *loadBalancer {
	s := d.s
	svc := d.settings.Service
	hc := d.settings.HealthCheck

	// Egress is granted per target in accessGrants.
	sg := stack.Add(s, "LoadBalancerSecurityGroup", &ec2.SecurityGroup{
		GroupDescription: StackName + "/load-balancer/SecurityGroup",
		VpcId:            n.vpc,
		SecurityGroupIngress: []ec2.SecurityGroup_Ingress{{
			CidrIp:      "0.0.0.0/0",
			Description: "Allow from anyone on port " + itoa(svc.ListenerPort),
			IpProtocol:  "tcp",
			FromPort:    svc.ListenerPort,
			ToPort:      svc.ListenerPort,
		}},
		SecurityGroupEgress: []ec2.SecurityGroup_Egress{denyAllOutbound()},
		Tags:                nameTag("load-balancer/SecurityGroup"),
	})

	lb := stack.Add(s, "AppLoadBalancer", &elbv2.LoadBalancer{
		Scheme:         "internet-facing",
		Type:           "application",
		Subnets:        n.publicSubnetIDs(),
		SecurityGroups: []any{sg.GroupId},
		LoadBalancerAttributes: []elbv2.LoadBalancer_LoadBalancerAttribute{{
			Key:   "deletion_protection.enabled",
			Value: "false",
		}},
	})

	tg := stack.Add(s, "AppTargetGroup", &elbv2.TargetGroup{
		Port:                       svc.ListenerPort,
		Protocol:                   "HTTP",
		TargetType:                 "ip",
		VpcId:                      n.vpc,
		HealthCheckPath:            hc.Path,
		HealthyThresholdCount:      hc.HealthyThreshold,
		UnhealthyThresholdCount:    hc.UnhealthyThreshold,
		HealthCheckTimeoutSeconds:  hc.TimeoutSeconds,
		HealthCheckIntervalSeconds: hc.IntervalSeconds,
		TargetGroupAttributes: []elbv2.TargetGroup_TargetGroupAttribute{{
			Key:   "stickiness.enabled",
			Value: "false",
		}},
	})

	listener := stack.Add(s, "AppListener", &elbv2.Listener{
		LoadBalancerArn: lb,
		Port:            svc.ListenerPort,
		Protocol:        "HTTP",
		DefaultActions: []elbv2.Listener_Action{{
			Type:           "forward",
			TargetGroupArn: tg,
		}},
	})

	return &loadBalancer{
		lb:            lb,
		listener:      listener,
		targetGroup:   tg,
		securityGroup: sg,
	}
}

// service runs the task definition in the private subnets behind the target
// group. The listener must exist before the target group can register tasks.
func (d *deployment) service(n *network, c *compute, lb *loadBalancer) *ecs.Service {
	svc := d.settings.Service

	return stack.Add(d.s, "AppService", &ecs.Service{
		Cluster:                       c.cluster,
		TaskDefinition:                c.taskDefinition,
		LaunchType:                    "FARGATE",
		DesiredCount:                  svc.DesiredCount,
		EnableECSManagedTags:          false,
		HealthCheckGracePeriodSeconds: 60,
		DeploymentConfiguration: &ecs.Service_DeploymentConfiguration{
			MaximumPercent:        200,
			MinimumHealthyPercent: 50,
			DeploymentCircuitBreaker: &ecs.Service_DeploymentCircuitBreaker{
				Enable:   true,
				Rollback: true,
			},
		},
		NetworkConfiguration: &ecs.Service_NetworkConfiguration{
			AwsvpcConfiguration: &ecs.Service_AwsVpcConfiguration{
				AssignPublicIp: "DISABLED",
				SecurityGroups: []any{c.securityGroup.GroupId},
				Subnets:        n.privateSubnetIDs(),
			},
		},
		LoadBalancers: []ecs.Service_LoadBalancer{{
			ContainerName:  svc.ContainerName,
			ContainerPort:  svc.ContainerPort,
			TargetGroupArn: lb.targetGroup,
		}},
	}, stack.DependsOn(lb.listener))
}
