package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lex00/cfn-lint-go/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/internal/descriptor"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

func single(name string, def rdstls.ResourceDef) *rdstls.Template {
	return &rdstls.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources:                map[string]rdstls.ResourceDef{name: def},
		Order:                    []string{name},
	}
}

func rulesOf(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Rule + " " + issue.Path
	}
	return out
}

func TestCheck_DescriptorTemplateIsClean(t *testing.T) {
	for _, env := range []stack.Environment{{}, {Account: "123456789012", Region: "eu-west-1"}} {
		t.Run(env.String(), func(t *testing.T) {
			asm, err := descriptor.Synthesize(env, config.Defaults())
			require.NoError(t, err)

			issues := Check(asm.Template)
			assert.Empty(t, issues)
			assert.False(t, HasErrors(issues))
		})
	}
}

func TestCheck_WithoutStorageAutoscaling(t *testing.T) {
	settings := config.Defaults()
	settings.Database.MaxAllocatedStorage = 0
	asm, err := descriptor.Synthesize(stack.Environment{}, settings)
	require.NoError(t, err)

	assert.Empty(t, Check(asm.Template))
}

func TestCheck_ParsedTemplate(t *testing.T) {
	asm, err := descriptor.Synthesize(stack.Environment{}, config.Defaults())
	require.NoError(t, err)

	// Numbers parse back as float64 and Order is rebuilt; the rules must not
	// depend on the synthesized representation.
	data, err := template.ToYAML(asm.Template)
	require.NoError(t, err)
	parsed, err := template.Parse(data)
	require.NoError(t, err)

	assert.Empty(t, Check(parsed))
}

func TestRequiredProperties(t *testing.T) {
	issues := RequiredProperties{}.Check("Database", rdstls.ResourceDef{
		Type:       "AWS::RDS::DBInstance",
		Properties: map[string]any{"Engine": "postgres"},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "DBInstanceClass", issues[0].Path)
	assert.Equal(t, SeverityError, issues[0].Severity)

	issues = RequiredProperties{}.Check("TaskDefinition", rdstls.ResourceDef{
		Type: "AWS::ECS::TaskDefinition",
		Properties: map[string]any{
			"ContainerDefinitions": []any{map[string]any{"Name": "app"}},
		},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "ContainerDefinitions[0].Image", issues[0].Path)
}

func TestEnumValues(t *testing.T) {
	tests := []struct {
		name  string
		def   rdstls.ResourceDef
		paths []string
	}{
		{
			name: "valid literals",
			def: rdstls.ResourceDef{Type: "AWS::ElasticLoadBalancingV2::LoadBalancer", Properties: map[string]any{
				"Scheme": "internet-facing", "Type": "application",
			}},
		},
		{
			name: "intrinsic values are skipped",
			def: rdstls.ResourceDef{Type: "AWS::ElasticLoadBalancingV2::LoadBalancer", Properties: map[string]any{
				"Scheme": map[string]any{"Ref": "Scheme"},
			}},
		},
		{
			name: "invalid scheme and type",
			def: rdstls.ResourceDef{Type: "AWS::ElasticLoadBalancingV2::LoadBalancer", Properties: map[string]any{
				"Scheme": "public", "Type": "classic",
			}},
			paths: []string{"Scheme", "Type"},
		},
		{
			name: "inline security group protocol",
			def: rdstls.ResourceDef{Type: "AWS::EC2::SecurityGroup", Properties: map[string]any{
				"SecurityGroupIngress": []any{
					map[string]any{"IpProtocol": "tcp"},
					map[string]any{"IpProtocol": "TCP"},
					map[string]any{"IpProtocol": "-1"},
				},
			}},
			paths: []string{"SecurityGroupIngress[1].IpProtocol"},
		},
		{
			name: "listener action",
			def: rdstls.ResourceDef{Type: "AWS::ElasticLoadBalancingV2::Listener", Properties: map[string]any{
				"Protocol":       "HTTP",
				"DefaultActions": []any{map[string]any{"Type": "route"}},
			}},
			paths: []string{"DefaultActions[0].Type"},
		},
		{
			name:  "snapshot on a secret",
			def:   rdstls.ResourceDef{Type: "AWS::SecretsManager::Secret", DeletionPolicy: "Snapshot"},
			paths: []string{"DeletionPolicy"},
		},
		{
			name:  "unknown policy",
			def:   rdstls.ResourceDef{Type: "AWS::RDS::DBInstance", UpdateReplacePolicy: "Keep"},
			paths: []string{"UpdateReplacePolicy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := EnumValues{}.Check("R", tt.def)
			paths := make([]string, len(issues))
			for i, issue := range issues {
				paths[i] = issue.Path
			}
			assert.ElementsMatch(t, tt.paths, paths)
		})
	}
}

func TestPortRange(t *testing.T) {
	tests := []struct {
		name  string
		def   rdstls.ResourceDef
		paths []string
	}{
		{
			name: "GetAtt port",
			def: rdstls.ResourceDef{Type: "AWS::EC2::SecurityGroupIngress", Properties: map[string]any{
				"IpProtocol": "tcp",
				"FromPort":   map[string]any{"Fn::GetAtt": []any{"Database", "Endpoint.Port"}},
				"ToPort":     map[string]any{"Fn::GetAtt": []any{"Database", "Endpoint.Port"}},
			}},
		},
		{
			name: "icmp type and code are not ports",
			def: rdstls.ResourceDef{Type: "AWS::EC2::SecurityGroup", Properties: map[string]any{
				"SecurityGroupEgress": []any{map[string]any{"IpProtocol": "icmp", "FromPort": 252, "ToPort": 86}},
			}},
		},
		{
			name: "inverted range",
			def: rdstls.ResourceDef{Type: "AWS::EC2::SecurityGroupIngress", Properties: map[string]any{
				"IpProtocol": "tcp", "FromPort": float64(8080), "ToPort": float64(80),
			}},
			paths: []string{"FromPort"},
		},
		{
			name: "out of range",
			def: rdstls.ResourceDef{Type: "AWS::EC2::SecurityGroupIngress", Properties: map[string]any{
				"IpProtocol": "tcp", "FromPort": int64(0), "ToPort": int64(70000),
			}},
			paths: []string{"FromPort", "ToPort"},
		},
		{
			name: "container port",
			def: rdstls.ResourceDef{Type: "AWS::ECS::TaskDefinition", Properties: map[string]any{
				"ContainerDefinitions": []any{map[string]any{
					"PortMappings": []any{map[string]any{"ContainerPort": int64(0)}},
				}},
			}},
			paths: []string{"ContainerDefinitions[0].PortMappings[0].ContainerPort"},
		},
		{
			name:  "listener port",
			def:   rdstls.ResourceDef{Type: "AWS::ElasticLoadBalancingV2::Listener", Properties: map[string]any{"Port": int64(65536)}},
			paths: []string{"Port"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := PortRange{}.Check("R", tt.def)
			paths := make([]string, len(issues))
			for i, issue := range issues {
				paths[i] = issue.Path
			}
			assert.ElementsMatch(t, tt.paths, paths)
		})
	}
}

func TestStorageLimits(t *testing.T) {
	check := func(props map[string]any) []Issue {
		return StorageLimits{}.Check("Database", rdstls.ResourceDef{Type: "AWS::RDS::DBInstance", Properties: props})
	}

	assert.Empty(t, check(map[string]any{"AllocatedStorage": "100", "MaxAllocatedStorage": int64(200)}))
	assert.Empty(t, check(map[string]any{"AllocatedStorage": float64(100)}))

	issues := check(map[string]any{"AllocatedStorage": "100", "MaxAllocatedStorage": int64(50)})
	require.Len(t, issues, 1)
	assert.Equal(t, "MaxAllocatedStorage", issues[0].Path)

	issues = check(map[string]any{"AllocatedStorage": "10"})
	require.Len(t, issues, 1)
	assert.Equal(t, "AllocatedStorage", issues[0].Path)

	issues = check(map[string]any{"AllocatedStorage": "100", "MaxAllocatedStorage": int64(100)})
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.False(t, HasErrors(issues))
}

func TestHealthCheckRange(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		paths []string
	}{
		{"defaults", map[string]any{
			"HealthyThresholdCount": int64(2), "UnhealthyThresholdCount": int64(10),
			"HealthCheckTimeoutSeconds": int64(20), "HealthCheckIntervalSeconds": int64(30),
			"HealthCheckPath": "/",
		}, nil},
		{"threshold too low", map[string]any{"HealthyThresholdCount": int64(1)}, []string{"HealthyThresholdCount"}},
		{"timeout not below interval", map[string]any{
			"HealthCheckTimeoutSeconds": int64(30), "HealthCheckIntervalSeconds": int64(30),
		}, []string{"HealthCheckTimeoutSeconds"}},
		{"relative path", map[string]any{"HealthCheckPath": "health"}, []string{"HealthCheckPath"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := HealthCheckRange{}.Check("AppTargetGroup", rdstls.ResourceDef{
				Type:       "AWS::ElasticLoadBalancingV2::TargetGroup",
				Properties: tt.props,
			})
			paths := make([]string, len(issues))
			for i, issue := range issues {
				paths[i] = issue.Path
			}
			assert.ElementsMatch(t, tt.paths, paths)
		})
	}
}

func TestFargateSize(t *testing.T) {
	task := func(cpu, memory any, containers ...map[string]any) rdstls.ResourceDef {
		defs := make([]any, len(containers))
		for i, c := range containers {
			defs[i] = c
		}
		return rdstls.ResourceDef{Type: "AWS::ECS::TaskDefinition", Properties: map[string]any{
			"RequiresCompatibilities": []any{"FARGATE"},
			"NetworkMode":             "awsvpc",
			"Cpu":                     cpu,
			"Memory":                  memory,
			"ContainerDefinitions":    defs,
		}}
	}

	tests := []struct {
		name     string
		def      rdstls.ResourceDef
		messages []string
	}{
		{"256/512", task("256", "512", map[string]any{"Cpu": int64(256), "Memory": int64(256)}), nil},
		{"1024/3072", task("1024", "3072"), nil},
		{"256/1536", task("256", "1536"), []string{"1536 MiB is not supported with 256 CPU units"}},
		{"unknown cpu", task("300", "512"), []string{"300 is not a Fargate CPU size"}},
		{"container cpu above task", task("256", "512", map[string]any{"Cpu": int64(512)}), []string{"containers reserve 512 CPU units"}},
		{"container memory above task", task("256", "512",
			map[string]any{"Memory": int64(256)}, map[string]any{"Memory": int64(512)}),
			[]string{"containers reserve 768 MiB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := FargateSize{}.Check("TaskDefinition", tt.def)
			require.Len(t, issues, len(tt.messages))
			for i, msg := range tt.messages {
				assert.Contains(t, issues[i].Message, msg)
			}
		})
	}

	t.Run("not fargate", func(t *testing.T) {
		assert.Empty(t, FargateSize{}.Check("TaskDefinition", rdstls.ResourceDef{
			Type:       "AWS::ECS::TaskDefinition",
			Properties: map[string]any{"RequiresCompatibilities": []any{"EC2"}},
		}))
	})
}

func TestStorageEncrypted(t *testing.T) {
	def := rdstls.ResourceDef{Type: "AWS::RDS::DBInstance", Properties: map[string]any{"StorageEncrypted": true}}
	assert.Empty(t, StorageEncrypted{}.Check("Database", def))

	def.Properties["StorageEncrypted"] = false
	assert.Len(t, StorageEncrypted{}.Check("Database", def), 1)

	delete(def.Properties, "StorageEncrypted")
	assert.Len(t, StorageEncrypted{}.Check("Database", def), 1)
}

func TestContainerSecrets(t *testing.T) {
	issues := ContainerSecrets{}.Check("TaskDefinition", rdstls.ResourceDef{
		Type: "AWS::ECS::TaskDefinition",
		Properties: map[string]any{
			"ContainerDefinitions": []any{map[string]any{
				"Secrets": []any{
					map[string]any{"Name": "DB_HOST", "ValueFrom": "arn:host"},
					map[string]any{"Name": "DB_HOST", "ValueFrom": "arn:host"},
					map[string]any{"Name": "DB_PORT"},
					map[string]any{"ValueFrom": "arn:user"},
				},
			}},
		},
	})

	assert.Equal(t, []string{
		"RDT010 ContainerDefinitions[0].Secrets[1].Name",
		"RDT010 ContainerDefinitions[0].Secrets[2].ValueFrom",
		"RDT010 ContainerDefinitions[0].Secrets[3].Name",
	}, rulesOf(issues))
}

func TestGeneratedSecret(t *testing.T) {
	withSecret := func(gen map[string]any) *rdstls.Template {
		return &rdstls.Template{
			Resources: map[string]rdstls.ResourceDef{
				"DatabaseSecret": {
					Type:       "AWS::SecretsManager::Secret",
					Properties: map[string]any{"GenerateSecretString": gen},
				},
				"Database": {
					Type: "AWS::RDS::DBInstance",
					Properties: map[string]any{
						"MasterUserPassword": map[string]any{"Fn::Join": []any{"", []any{
							"{{resolve:secretsmanager:",
							map[string]any{"Ref": "DatabaseSecret"},
							":SecretString:password::}}",
						}}},
					},
				},
			},
			Order: []string{"DatabaseSecret", "Database"},
		}
	}

	tests := []struct {
		name  string
		gen   map[string]any
		paths []string
	}{
		{"valid", map[string]any{
			"SecretStringTemplate": `{"username":"demouser"}`, "GenerateStringKey": "password",
			"PasswordLength": int64(28), "ExcludeCharacters": "/@\" ",
		}, nil},
		{"punctuation excluded", map[string]any{"ExcludePunctuation": true}, nil},
		{"space included", map[string]any{"ExcludeCharacters": "/@\"", "IncludeSpace": true},
			[]string{"GenerateSecretString.ExcludeCharacters"}},
		{"missing exclusions", map[string]any{"ExcludeCharacters": "/"},
			[]string{"GenerateSecretString.ExcludeCharacters"}},
		{"length", map[string]any{"PasswordLength": float64(5000), "ExcludePunctuation": true},
			[]string{"GenerateSecretString.PasswordLength"}},
		{"template without key", map[string]any{"SecretStringTemplate": `{}`, "ExcludePunctuation": true},
			[]string{"GenerateSecretString.GenerateStringKey"}},
		{"key in template", map[string]any{
			"SecretStringTemplate": `{"password":"x"}`, "GenerateStringKey": "password", "ExcludePunctuation": true,
		}, []string{"GenerateSecretString.SecretStringTemplate"}},
		{"template not JSON", map[string]any{
			"SecretStringTemplate": `username`, "GenerateStringKey": "password", "ExcludePunctuation": true,
		}, []string{"GenerateSecretString.SecretStringTemplate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := GeneratedSecret{}.CheckTemplate(withSecret(tt.gen))
			paths := make([]string, len(issues))
			for i, issue := range issues {
				paths[i] = issue.Path
			}
			assert.ElementsMatch(t, tt.paths, paths)
		})
	}
}

func TestForceTLS(t *testing.T) {
	tmpl := func(params map[string]any, groupRef any) *rdstls.Template {
		db := map[string]any{"Engine": "postgres"}
		if groupRef != nil {
			db["DBParameterGroupName"] = groupRef
		}
		return &rdstls.Template{
			Resources: map[string]rdstls.ResourceDef{
				"DatabaseParameterGroup": {
					Type:       "AWS::RDS::DBParameterGroup",
					Properties: map[string]any{"Family": "postgres16", "Parameters": params},
				},
				"Database": {Type: "AWS::RDS::DBInstance", Properties: db},
			},
			Order: []string{"DatabaseParameterGroup", "Database"},
		}
	}
	groupRef := map[string]any{"Ref": "DatabaseParameterGroup"}

	tests := []struct {
		name      string
		template  *rdstls.Template
		resources []string
	}{
		{"enforced", tmpl(map[string]any{"rds.force_ssl": "1"}, groupRef), nil},
		{"enforced numerically", tmpl(map[string]any{"rds.force_ssl": float64(1)}, groupRef), nil},
		{"disabled", tmpl(map[string]any{"rds.force_ssl": "0"}, groupRef), []string{"DatabaseParameterGroup", "Database"}},
		{"missing", tmpl(map[string]any{}, groupRef), []string{"DatabaseParameterGroup", "Database"}},
		{"default group", tmpl(map[string]any{"rds.force_ssl": "1"}, nil), []string{"Database"}},
		{"literal group name", tmpl(map[string]any{"rds.force_ssl": "1"}, "default.postgres16"), []string{"Database"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ForceTLS{}.CheckTemplate(tt.template)
			resources := make([]string, len(issues))
			for i, issue := range issues {
				resources[i] = issue.Resource
			}
			assert.ElementsMatch(t, tt.resources, resources)
		})
	}
}

func TestReferences(t *testing.T) {
	tmpl := &rdstls.Template{
		Parameters: map[string]rdstls.Parameter{"ContainerImageTag": {Type: "String"}},
		Resources: map[string]rdstls.ResourceDef{
			"AppVpc": {Type: "AWS::EC2::VPC", Properties: map[string]any{"CidrBlock": "10.0.0.0/16"}},
			"Subnet": {
				Type: "AWS::EC2::Subnet",
				Properties: map[string]any{
					"VpcId":            map[string]any{"Ref": "AppVpc"},
					"AvailabilityZone": map[string]any{"Fn::GetAtt": []any{"OtherSubnet", "AvailabilityZone"}},
					"Tags": []any{map[string]any{
						"Key":   "Image",
						"Value": map[string]any{"Fn::Sub": "${AWS::Region}/${ContainerImageTag}/${Missing.Arn}"},
					}},
				},
				DependsOn: []string{"Gateway"},
			},
		},
		Outputs: map[string]rdstls.Output{
			"Vpc":  {Value: map[string]any{"Ref": "AppVpc"}},
			"Bad":  {Value: map[string]any{"Fn::GetAtt": []any{"LoadBalancer", "DNSName"}}},
			"Tag":  {Value: map[string]any{"Ref": "ContainerImageTag"}},
			"Attr": {Value: map[string]any{"Fn::GetAtt": []any{"ContainerImageTag", "Value"}}},
		},
		Order: []string{"AppVpc", "Subnet"},
	}

	issues := References{}.CheckTemplate(tmpl)
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Resource + "|" + issue.Path + "|" + issue.Message
	}
	assert.ElementsMatch(t, []string{
		"Subnet|Properties|reference to undeclared Missing.Arn",
		"Subnet|Properties|reference to undeclared OtherSubnet.AvailabilityZone",
		"Subnet|DependsOn|depends on undeclared resource Gateway",
		"|Outputs.Attr|reference to undeclared ContainerImageTag.Value",
		"|Outputs.Bad|reference to undeclared LoadBalancer.DNSName",
	}, messages)
}

func TestCheckWithOptions_EnabledRules(t *testing.T) {
	tmpl := single("Database", rdstls.ResourceDef{
		Type:       "AWS::RDS::DBInstance",
		Properties: map[string]any{"Engine": "postgres", "StorageEncrypted": false},
	})

	all := Check(tmpl)
	assert.True(t, HasErrors(all))
	assert.Contains(t, rulesOf(all), "RDT009 StorageEncrypted")
	assert.Contains(t, rulesOf(all), "RDT001 DBInstanceClass")

	only := CheckWithOptions(tmpl, Options{EnabledRules: []string{"RDT009"}})
	assert.Equal(t, []string{"RDT009 StorageEncrypted"}, rulesOf(only))
}

func TestIssue_String(t *testing.T) {
	assert.Equal(t, "RDT009 error: Database.StorageEncrypted: database storage must be encrypted",
		Issue{Rule: "RDT009", Severity: SeverityError, Resource: "Database", Path: "StorageEncrypted", Message: "database storage must be encrypted"}.String())
	assert.Equal(t, "RDT011 error: Outputs.Bad: reference to undeclared X",
		Issue{Rule: "RDT011", Severity: SeverityError, Path: "Outputs.Bad", Message: "reference to undeclared X"}.String())
}

func TestCfnLintResult_TotalIssues(t *testing.T) {
	tests := []struct {
		name     string
		result   CfnLintResult
		expected int
	}{
		{
			name:     "empty result",
			result:   CfnLintResult{},
			expected: 0,
		},
		{
			name: "errors only",
			result: CfnLintResult{
				Errors: []string{"error1", "error2"},
			},
			expected: 2,
		},
		{
			name: "mixed issues",
			result: CfnLintResult{
				Errors:        []string{"error1"},
				Warnings:      []string{"warning1", "warning2"},
				Informational: []string{"info1"},
			},
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.TotalIssues())
		})
	}
}

func TestFormatMatch(t *testing.T) {
	tests := []struct {
		name     string
		match    lint.Match
		expected string
	}{
		{
			name: "simple match",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "E3012"},
				Message: "Property has the wrong type",
			},
			expected: "E3012: Property has the wrong type",
		},
		{
			name: "match with path",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "W3005"},
				Message: "Obsolete DependsOn",
				Location: lint.MatchLocation{
					Path: []any{"Resources", "AppService", "DependsOn"},
				},
			},
			expected: "W3005: Obsolete DependsOn (at Resources/AppService/DependsOn)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMatch(tt.match))
		})
	}
}

func TestRunCfnLint_FileNotFound(t *testing.T) {
	_, err := RunCfnLint(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template file not found")
}

func TestRunCfnLint_SynthesizedTemplate(t *testing.T) {
	asm, err := descriptor.Synthesize(stack.Environment{}, config.Defaults())
	require.NoError(t, err)
	data, err := template.ToYAML(asm.Template)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	result, err := RunCfnLint(path)
	require.NoError(t, err)
	assert.NotNil(t, result)
}
