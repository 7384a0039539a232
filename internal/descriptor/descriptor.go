// Package descriptor declares the PostgreSQL-on-RDS deployment: a two-AZ
// network, a generated database secret, a TLS-only PostgreSQL instance, a
// Fargate service that reads its connection settings from the secret, and an
// internet-facing load balancer in front of the service.
//
// Declaration is pure. It performs no I/O and does not log; the same
// environment and settings always produce the same template.
package descriptor

import (
	"fmt"
	"strconv"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/intrinsics"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

// StackName is the name of the synthesized stack.
const StackName = "AwsPgsqlRdsTlsStack"

// ExportName is the export of the load balancer DNS name output.
const ExportName = "pgsql-rds-tls-stack-loadBalancerDnsName"

// Description is the template description.
const Description = "PostgreSQL on RDS with enforced TLS, used by a Fargate service behind an application load balancer"

// AZCount is the number of availability zones the network spans.
const AZCount = 2

// deployment carries the inputs shared by every declaration step.
type deployment struct {
	s        *stack.Stack
	env      stack.Environment
	settings config.Settings
}

// Declare builds the stack without synthesizing it.
func Declare(env stack.Environment, settings config.Settings) *stack.Stack {
	d := &deployment{
		s:        stack.New(StackName, env, stack.WithDescription(Description)),
		env:      env,
		settings: settings,
	}

	if !env.IsAgnostic() {
		d.s.SetMetadata("Environment", map[string]any{
			"Account": env.Account,
			"Region":  env.Region,
		})
	}

	imageTag := d.s.AddParameter("ContainerImageTag", rdstls.Parameter{
		Type:        "String",
		Description: "Tag of the application image in the " + settings.Service.ImageRepository + " ECR repository",
		Default:     settings.Service.ImageTag,
	})

	net := d.network()
	secret := d.secret()
	db := d.database(net, secret)
	svc := d.compute(net, secret, imageTag)
	lb := d.loadBalancer(net)
	d.service(net, svc, lb)
	d.accessGrants(db, svc, lb)
	d.outputs(lb)

	return d.s
}

// Synthesize declares the stack and synthesizes it into a template.
func Synthesize(env stack.Environment, settings config.Settings) (*stack.Assembly, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	asm, err := Declare(env, settings).Synthesize()
	if err != nil {
		return nil, fmt.Errorf("synthesizing %s: %w", StackName, err)
	}
	return asm, nil
}

// removalPolicy is the policy for data-bearing resources.
func (d *deployment) removalPolicy(retain string) string {
	if d.settings.RetainData {
		return retain
	}
	return stack.PolicyDelete
}

// nameTag tags a resource with its path under the stack.
func nameTag(path string) []any {
	return []any{intrinsics.Tag{Key: "Name", Value: StackName + "/" + path}}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// optional leaves a zero setting unset so CloudFormation applies its default.
func optional(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
