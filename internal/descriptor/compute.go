package descriptor

import (
	"github.com/lex00/pgsql-rds-tls-go/intrinsics"
	"github.com/lex00/pgsql-rds-tls-go/resources/ec2"
	"github.com/lex00/pgsql-rds-tls-go/resources/ecs"
	"github.com/lex00/pgsql-rds-tls-go/resources/iam"
	"github.com/lex00/pgsql-rds-tls-go/resources/logs"
	"github.com/lex00/pgsql-rds-tls-go/resources/secretsmanager"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

type compute struct {
	cluster        *ecs.Cluster
	taskDefinition *ecs.TaskDefinition
	securityGroup  *ec2.SecurityGroup
	logGroup       *logs.LogGroup
}

func (d *deployment) compute(n *network, secret *secretsmanager.Secret, imageTag intrinsics.Ref) *compute {
	s := d.s
	svc := d.settings.Service

	cluster := stack.Add(s, "AppCluster", &ecs.Cluster{
		ClusterSettings: []ecs.Cluster_ClusterSettings{{
			Name:  "containerInsights",
			Value: "disabled",
		}},
	})

	logGroup := stack.Add(s, "ServiceLogGroup", &logs.LogGroup{
		RetentionInDays: 30,
	}, stack.RemovalPolicy(stack.PolicyRetain))

	executionRole := stack.Add(s, "TaskExecutionRole", &iam.Role{
		AssumeRolePolicyDocument: intrinsics.NewPolicyDocument(
			intrinsics.AssumeRoleStatement("ecs-tasks.amazonaws.com"),
		),
		ManagedPolicyArns: []any{
			intrinsics.Sub{String: "arn:${AWS::Partition}:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"},
		},
		Policies: []iam.Role_Policy{{
			PolicyName: "ReadDatabaseSecret",
			PolicyDocument: intrinsics.NewPolicyDocument(
				intrinsics.AllowStatement(
					intrinsics.Any("secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"),
					secret,
				),
			),
		}},
	})

	taskRole := stack.Add(s, "TaskRole", &iam.Role{
		AssumeRolePolicyDocument: intrinsics.NewPolicyDocument(
			intrinsics.AssumeRoleStatement("ecs-tasks.amazonaws.com"),
		),
	})

	secrets := make([]ecs.TaskDefinition_Secret, len(SecretFields))
	for i, f := range SecretFields {
		secrets[i] = ecs.TaskDefinition_Secret{
			Name:      f.Env,
			ValueFrom: intrinsics.SecretsManagerField(secret, f.Field),
		}
	}

	container := ecs.TaskDefinition_ContainerDefinition{
		Name:      svc.ContainerName,
		Image:     d.image(imageTag),
		Essential: true,
		Cpu:       svc.ContainerCPU,
		Memory:    svc.ContainerMemory,
		PortMappings: []ecs.TaskDefinition_PortMapping{{
			ContainerPort: svc.ContainerPort,
			HostPort:      svc.ContainerPort,
			Protocol:      "tcp",
		}},
		LogConfiguration: &ecs.TaskDefinition_LogConfiguration{
			LogDriver: "awslogs",
			Options: map[string]any{
				"awslogs-group":         logGroup,
				"awslogs-stream-prefix": svc.LogStreamPrefix,
				"awslogs-region":        intrinsics.AWS_REGION,
			},
		},
		Secrets: secrets,
	}

	taskDef := stack.Add(s, "TaskDefinition", &ecs.TaskDefinition{
		Family:                  StackName + "TaskDefinition",
		Cpu:                     itoa(svc.TaskCPU),
		Memory:                  itoa(svc.TaskMemory),
		NetworkMode:             "awsvpc",
		RequiresCompatibilities: []any{"FARGATE"},
		ExecutionRoleArn:        executionRole.Arn,
		TaskRoleArn:             taskRole.Arn,
		ContainerDefinitions:    []ecs.TaskDefinition_ContainerDefinition{container},
	})

	sg := stack.Add(s, "ServiceSecurityGroup", &ec2.SecurityGroup{
		GroupDescription:    StackName + "/service/SecurityGroup",
		VpcId:               n.vpc,
		SecurityGroupEgress: []ec2.SecurityGroup_Egress{allowAllOutbound()},
		Tags:                nameTag("service/SecurityGroup"),
	})

	return &compute{
		cluster:        cluster,
		taskDefinition: taskDef,
		securityGroup:  sg,
		logGroup:       logGroup,
	}
}

// image is the application image in the account's ECR repository, tagged by
// the ContainerImageTag parameter.
func (d *deployment) image(tag intrinsics.Ref) any {
	return intrinsics.SubWithMap{
		String: "${AWS::AccountId}.dkr.ecr.${AWS::Region}.${AWS::URLSuffix}/" + d.settings.Service.ImageRepository + ":${Tag}",
		Variables: map[string]any{
			"Tag": tag,
		},
	}
}
