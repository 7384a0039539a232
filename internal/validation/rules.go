package validation

import (
	"fmt"
	"sort"
	"strings"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
)

// RequiredProperties reports missing properties CloudFormation requires.
type RequiredProperties struct{}

func (r RequiredProperties) ID() string { return "RDT001" }
func (r RequiredProperties) Description() string {
	return "Required properties are present"
}

var requiredProperties = map[string][]string{
	"AWS::EC2::VPC":                               {"CidrBlock"},
	"AWS::EC2::Subnet":                            {"VpcId", "CidrBlock"},
	"AWS::EC2::VPCGatewayAttachment":              {"VpcId", "InternetGatewayId"},
	"AWS::EC2::NatGateway":                        {"SubnetId"},
	"AWS::EC2::RouteTable":                        {"VpcId"},
	"AWS::EC2::Route":                             {"RouteTableId"},
	"AWS::EC2::SubnetRouteTableAssociation":       {"RouteTableId", "SubnetId"},
	"AWS::EC2::SecurityGroup":                     {"GroupDescription"},
	"AWS::EC2::SecurityGroupIngress":              {"IpProtocol", "GroupId"},
	"AWS::EC2::SecurityGroupEgress":               {"IpProtocol", "GroupId"},
	"AWS::EC2::VPCEndpoint":                       {"ServiceName", "VpcId"},
	"AWS::RDS::DBInstance":                        {"DBInstanceClass", "Engine"},
	"AWS::RDS::DBSubnetGroup":                     {"DBSubnetGroupDescription", "SubnetIds"},
	"AWS::RDS::DBParameterGroup":                  {"Description", "Family"},
	"AWS::SecretsManager::SecretTargetAttachment": {"SecretId", "TargetId", "TargetType"},
	"AWS::ECS::TaskDefinition":                    {"ContainerDefinitions"},
	"AWS::ECS::Service":                           {"TaskDefinition"},
	"AWS::ElasticLoadBalancingV2::LoadBalancer":   {"Subnets"},
	"AWS::ElasticLoadBalancingV2::Listener":       {"DefaultActions", "LoadBalancerArn"},
	"AWS::IAM::Role":                              {"AssumeRolePolicyDocument"},
	"AWS::IAM::Policy":                            {"PolicyDocument", "PolicyName"},
}

func (r RequiredProperties) Check(name string, def rdstls.ResourceDef) []Issue {
	var issues []Issue
	for _, prop := range requiredProperties[def.Type] {
		if v, ok := def.Properties[prop]; !ok || v == nil {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Resource: name,
				Path:     prop,
				Message:  fmt.Sprintf("%s requires %s", def.Type, prop),
			})
		}
	}
	if def.Type == "AWS::ECS::TaskDefinition" {
		for i, c := range listAt(def.Properties, "ContainerDefinitions") {
			container, _ := c.(map[string]any)
			for _, prop := range []string{"Name", "Image"} {
				if _, ok := container[prop]; !ok {
					issues = append(issues, Issue{
						Rule:     r.ID(),
						Severity: SeverityError,
						Resource: name,
						Path:     fmt.Sprintf("ContainerDefinitions[%d].%s", i, prop),
						Message:  "container definitions require " + prop,
					})
				}
			}
		}
	}
	return issues
}

// EnumValues reports literal values outside a property's allowed set.
// Intrinsic values are not checked.
type EnumValues struct{}

func (r EnumValues) ID() string { return "RDT002" }
func (r EnumValues) Description() string {
	return "Enum properties use values CloudFormation accepts"
}

var (
	ipProtocols   = []string{"tcp", "udp", "icmp", "icmpv6", "-1"}
	elbProtocols  = []string{"HTTP", "HTTPS", "TCP", "TLS", "UDP", "TCP_UDP", "GENEVE"}
	policyValues  = []string{"Delete", "Retain", "RetainExceptOnDelete", "Snapshot"}
	snapshotTypes = map[string]bool{
		"AWS::RDS::DBInstance": true,
		"AWS::RDS::DBCluster":  true,
		"AWS::EC2::Volume":     true,
	}
)

var enumProperties = map[string]map[string][]string{
	"AWS::RDS::DBInstance": {
		"Engine":      {"postgres", "mysql", "mariadb", "oracle-ee", "oracle-se2", "sqlserver-ee", "sqlserver-se", "sqlserver-ex", "sqlserver-web"},
		"StorageType": {"standard", "gp2", "gp3", "io1", "io2"},
	},
	"AWS::ElasticLoadBalancingV2::LoadBalancer": {
		"Scheme": {"internet-facing", "internal"},
		"Type":   {"application", "network", "gateway"},
	},
	"AWS::ElasticLoadBalancingV2::Listener": {
		"Protocol": elbProtocols,
	},
	"AWS::ElasticLoadBalancingV2::TargetGroup": {
		"Protocol":   elbProtocols,
		"TargetType": {"instance", "ip", "lambda", "alb"},
	},
	"AWS::ECS::Service": {
		"LaunchType": {"EC2", "FARGATE", "EXTERNAL"},
	},
	"AWS::ECS::TaskDefinition": {
		"NetworkMode": {"awsvpc", "bridge", "host", "none"},
	},
	"AWS::EC2::VPCEndpoint": {
		"VpcEndpointType": {"Interface", "Gateway", "GatewayLoadBalancer"},
	},
	"AWS::EC2::SecurityGroupIngress": {
		"IpProtocol": ipProtocols,
	},
	"AWS::EC2::SecurityGroupEgress": {
		"IpProtocol": ipProtocols,
	},
}

func (r EnumValues) Check(name string, def rdstls.ResourceDef) []Issue {
	var issues []Issue
	invalid := func(path string, v any, allowed []string) {
		s, ok := v.(string)
		if !ok || contains(allowed, s) {
			return
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     path,
			Message:  fmt.Sprintf("%q is not one of %s", s, strings.Join(allowed, ", ")),
		})
	}

	for _, e := range sortedEnums(enumProperties[def.Type]) {
		if v, ok := def.Properties[e.prop]; ok {
			invalid(e.prop, v, e.values)
		}
	}

	switch def.Type {
	case "AWS::EC2::SecurityGroup":
		for _, key := range []string{"SecurityGroupIngress", "SecurityGroupEgress"} {
			for i, rule := range listAt(def.Properties, key) {
				m, _ := rule.(map[string]any)
				if v, ok := m["IpProtocol"]; ok && !isNumeric(v) {
					invalid(fmt.Sprintf("%s[%d].IpProtocol", key, i), v, ipProtocols)
				}
			}
		}
	case "AWS::ElasticLoadBalancingV2::Listener":
		for i, action := range listAt(def.Properties, "DefaultActions") {
			m, _ := action.(map[string]any)
			invalid(fmt.Sprintf("DefaultActions[%d].Type", i), m["Type"],
				[]string{"forward", "redirect", "fixed-response", "authenticate-oidc", "authenticate-cognito"})
		}
	}

	if def.DeletionPolicy != "" {
		invalid("DeletionPolicy", def.DeletionPolicy, policyValues)
	}
	if def.UpdateReplacePolicy != "" {
		invalid("UpdateReplacePolicy", def.UpdateReplacePolicy, policyValues)
	}
	for _, policy := range []struct{ path, value string }{
		{"DeletionPolicy", def.DeletionPolicy},
		{"UpdateReplacePolicy", def.UpdateReplacePolicy},
	} {
		if policy.value == "Snapshot" && !snapshotTypes[def.Type] {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Resource: name,
				Path:     policy.path,
				Message:  def.Type + " does not support Snapshot",
			})
		}
	}
	return issues
}

type enumProperty struct {
	prop   string
	values []string
}

// sortedEnums orders enum properties by name so issues are deterministic.
func sortedEnums(m map[string][]string) []enumProperty {
	out := make([]enumProperty, 0, len(m))
	for prop, values := range m {
		out = append(out, enumProperty{prop, values})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].prop < out[j].prop })
	return out
}

// PortRange reports literal ports outside 1-65535 and inverted ranges.
type PortRange struct{}

func (r PortRange) ID() string { return "RDT003" }
func (r PortRange) Description() string {
	return "Ports are within 1-65535 and ranges are ordered"
}

func (r PortRange) Check(name string, def rdstls.ResourceDef) []Issue {
	var issues []Issue
	port := func(path string, v any) {
		n, ok := serialize.Int(v)
		if !ok || (n >= 1 && n <= 65535) {
			return
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     path,
			Message:  fmt.Sprintf("port %d is outside 1-65535", n),
		})
	}
	portRange := func(prefix string, m map[string]any) {
		proto, _ := m["IpProtocol"].(string)
		if proto != "tcp" && proto != "udp" && proto != "6" && proto != "17" {
			return
		}
		port(prefix+"FromPort", m["FromPort"])
		port(prefix+"ToPort", m["ToPort"])
		from, fok := serialize.Int(m["FromPort"])
		to, tok := serialize.Int(m["ToPort"])
		if fok && tok && from > to {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Resource: name,
				Path:     prefix + "FromPort",
				Message:  fmt.Sprintf("FromPort %d is greater than ToPort %d", from, to),
			})
		}
	}

	switch def.Type {
	case "AWS::EC2::SecurityGroupIngress", "AWS::EC2::SecurityGroupEgress":
		portRange("", def.Properties)
	case "AWS::EC2::SecurityGroup":
		for _, key := range []string{"SecurityGroupIngress", "SecurityGroupEgress"} {
			for i, rule := range listAt(def.Properties, key) {
				m, _ := rule.(map[string]any)
				portRange(fmt.Sprintf("%s[%d].", key, i), m)
			}
		}
	case "AWS::RDS::DBInstance", "AWS::ElasticLoadBalancingV2::Listener", "AWS::ElasticLoadBalancingV2::TargetGroup":
		if v, ok := def.Properties["Port"]; ok {
			port("Port", v)
		}
	case "AWS::ECS::TaskDefinition":
		for i, c := range listAt(def.Properties, "ContainerDefinitions") {
			container, _ := c.(map[string]any)
			for j, pm := range listAt(container, "PortMappings") {
				m, _ := pm.(map[string]any)
				prefix := fmt.Sprintf("ContainerDefinitions[%d].PortMappings[%d].", i, j)
				if v, ok := m["ContainerPort"]; ok {
					port(prefix+"ContainerPort", v)
				}
				if v, ok := m["HostPort"]; ok {
					port(prefix+"HostPort", v)
				}
			}
		}
	case "AWS::ECS::Service":
		for i, lb := range listAt(def.Properties, "LoadBalancers") {
			m, _ := lb.(map[string]any)
			if v, ok := m["ContainerPort"]; ok {
				port(fmt.Sprintf("LoadBalancers[%d].ContainerPort", i), v)
			}
		}
	}
	return issues
}

// StorageLimits reports inconsistent database storage settings.
type StorageLimits struct{}

func (r StorageLimits) ID() string { return "RDT005" }
func (r StorageLimits) Description() string {
	return "Database storage limits are consistent"
}

func (r StorageLimits) Check(name string, def rdstls.ResourceDef) []Issue {
	if def.Type != "AWS::RDS::DBInstance" {
		return nil
	}
	var issues []Issue
	allocated, aok := serialize.Int(def.Properties["AllocatedStorage"])
	if aok && (allocated < 20 || allocated > 65536) {
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     "AllocatedStorage",
			Message:  fmt.Sprintf("allocated storage %d GiB is outside 20-65536", allocated),
		})
	}
	maxStorage, mok := serialize.Int(def.Properties["MaxAllocatedStorage"])
	switch {
	case !aok || !mok:
	case maxStorage < allocated:
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     "MaxAllocatedStorage",
			Message:  fmt.Sprintf("max allocated storage %d GiB is below allocated storage %d GiB", maxStorage, allocated),
		})
	case maxStorage == allocated:
		// Accepted by RDS, but storage autoscaling can never grow the volume.
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityWarning,
			Resource: name,
			Path:     "MaxAllocatedStorage",
			Message:  fmt.Sprintf("max allocated storage equals allocated storage %d GiB; autoscaling has no headroom", allocated),
		})
	}
	return issues
}

// HealthCheckRange reports health-check settings the load balancer rejects.
type HealthCheckRange struct{}

func (r HealthCheckRange) ID() string { return "RDT006" }
func (r HealthCheckRange) Description() string {
	return "Target group health checks are within service limits"
}

func (r HealthCheckRange) Check(name string, def rdstls.ResourceDef) []Issue {
	if def.Type != "AWS::ElasticLoadBalancingV2::TargetGroup" {
		return nil
	}
	var issues []Issue
	bounded := func(prop string, lo, hi int) (int, bool) {
		n, ok := serialize.Int(def.Properties[prop])
		if !ok {
			return 0, false
		}
		if n < lo || n > hi {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Resource: name,
				Path:     prop,
				Message:  fmt.Sprintf("%d is outside %d-%d", n, lo, hi),
			})
		}
		return n, true
	}

	bounded("HealthyThresholdCount", 2, 10)
	bounded("UnhealthyThresholdCount", 2, 10)
	timeout, tok := bounded("HealthCheckTimeoutSeconds", 2, 120)
	interval, iok := bounded("HealthCheckIntervalSeconds", 5, 300)
	if tok && iok && timeout >= interval {
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     "HealthCheckTimeoutSeconds",
			Message:  fmt.Sprintf("timeout %d s must be less than interval %d s", timeout, interval),
		})
	}
	if path, ok := def.Properties["HealthCheckPath"].(string); ok && !strings.HasPrefix(path, "/") {
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     "HealthCheckPath",
			Message:  fmt.Sprintf("path %q must start with /", path),
		})
	}
	return issues
}

// FargateSize reports task sizes Fargate does not offer and containers that
// reserve more than their task.
type FargateSize struct{}

func (r FargateSize) ID() string { return "RDT007" }
func (r FargateSize) Description() string {
	return "Fargate task CPU and memory form a supported combination"
}

// fargateMemory lists the supported task memory sizes in MiB per task CPU
// unit count.
var fargateMemory = func() map[int][]int {
	m := map[int][]int{256: {512, 1024, 2048}}
	for cpu, r := range map[int]struct{ min, max, step int }{
		512:   {1024, 4096, 1024},
		1024:  {2048, 8192, 1024},
		2048:  {4096, 16384, 1024},
		4096:  {8192, 30720, 1024},
		8192:  {16384, 61440, 4096},
		16384: {32768, 122880, 8192},
	} {
		for mem := r.min; mem <= r.max; mem += r.step {
			m[cpu] = append(m[cpu], mem)
		}
	}
	return m
}()

func (r FargateSize) Check(name string, def rdstls.ResourceDef) []Issue {
	if def.Type != "AWS::ECS::TaskDefinition" || !contains(stringList(def.Properties["RequiresCompatibilities"]), "FARGATE") {
		return nil
	}
	var issues []Issue
	report := func(path, msg string) {
		issues = append(issues, Issue{Rule: r.ID(), Severity: SeverityError, Resource: name, Path: path, Message: msg})
	}

	cpu, cok := serialize.Int(def.Properties["Cpu"])
	memory, mok := serialize.Int(def.Properties["Memory"])
	if !cok || !mok {
		report("Cpu", "Fargate tasks require task-level Cpu and Memory")
		return issues
	}
	if mode, ok := def.Properties["NetworkMode"].(string); ok && mode != "awsvpc" {
		report("NetworkMode", "Fargate tasks require the awsvpc network mode")
	}

	sizes, ok := fargateMemory[cpu]
	switch {
	case !ok:
		report("Cpu", fmt.Sprintf("%d is not a Fargate CPU size", cpu))
	case !containsInt(sizes, memory):
		report("Memory", fmt.Sprintf("%d MiB is not supported with %d CPU units (%d-%d)",
			memory, cpu, sizes[0], sizes[len(sizes)-1]))
	}

	var containerCPU, containerMemory int
	for _, c := range listAt(def.Properties, "ContainerDefinitions") {
		container, _ := c.(map[string]any)
		if n, ok := serialize.Int(container["Cpu"]); ok {
			containerCPU += n
		}
		if n, ok := serialize.Int(container["Memory"]); ok {
			containerMemory += n
		}
	}
	if containerCPU > cpu {
		report("ContainerDefinitions", fmt.Sprintf("containers reserve %d CPU units, more than the task's %d", containerCPU, cpu))
	}
	if containerMemory > memory {
		report("ContainerDefinitions", fmt.Sprintf("containers reserve %d MiB, more than the task's %d", containerMemory, memory))
	}
	return issues
}

// StorageEncrypted reports database instances without encryption at rest.
type StorageEncrypted struct{}

func (r StorageEncrypted) ID() string { return "RDT009" }
func (r StorageEncrypted) Description() string {
	return "Database storage is encrypted"
}

func (r StorageEncrypted) Check(name string, def rdstls.ResourceDef) []Issue {
	if def.Type != "AWS::RDS::DBInstance" {
		return nil
	}
	if enc, ok := def.Properties["StorageEncrypted"].(bool); ok && enc {
		return nil
	}
	return []Issue{{
		Rule:     r.ID(),
		Severity: SeverityError,
		Resource: name,
		Path:     "StorageEncrypted",
		Message:  "database storage must be encrypted",
	}}
}

// ContainerSecrets reports container secrets without a name or source, and
// names injected twice.
type ContainerSecrets struct{}

func (r ContainerSecrets) ID() string { return "RDT010" }
func (r ContainerSecrets) Description() string {
	return "Container secrets are named, sourced and unique"
}

func (r ContainerSecrets) Check(name string, def rdstls.ResourceDef) []Issue {
	if def.Type != "AWS::ECS::TaskDefinition" {
		return nil
	}
	var issues []Issue
	for i, c := range listAt(def.Properties, "ContainerDefinitions") {
		container, _ := c.(map[string]any)
		seen := make(map[string]bool)
		for j, s := range listAt(container, "Secrets") {
			secret, _ := s.(map[string]any)
			path := fmt.Sprintf("ContainerDefinitions[%d].Secrets[%d]", i, j)
			envName, _ := secret["Name"].(string)
			switch {
			case envName == "":
				issues = append(issues, Issue{Rule: r.ID(), Severity: SeverityError, Resource: name, Path: path + ".Name", Message: "secret name is required"})
			case seen[envName]:
				issues = append(issues, Issue{Rule: r.ID(), Severity: SeverityError, Resource: name, Path: path + ".Name", Message: fmt.Sprintf("secret %s is injected more than once", envName)})
			}
			seen[envName] = true
			if v, ok := secret["ValueFrom"]; !ok || v == nil || v == "" {
				issues = append(issues, Issue{Rule: r.ID(), Severity: SeverityError, Resource: name, Path: path + ".ValueFrom", Message: "secret source is required"})
			}
		}
	}
	return issues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func listAt(m map[string]any, key string) []any {
	return serialize.List(m[key])
}

func stringList(v any) []string {
	var out []string
	for _, x := range serialize.List(v) {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func isNumeric(v any) bool {
	_, ok := serialize.Int(v)
	return ok
}
