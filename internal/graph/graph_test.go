package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/internal/descriptor"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

func TestGenerator_Generate_SimpleGraph(t *testing.T) {
	resources := []rdstls.DeclaredResource{
		{Name: "AppVpc", Type: "AWS::EC2::VPC"},
		{Name: "PrivateSubnet1", Type: "AWS::EC2::Subnet", Dependencies: []string{"AppVpc"}},
	}

	gen := &Generator{}
	var sb strings.Builder
	require.NoError(t, gen.Generate(resources, nil, &sb))

	output := sb.String()
	assert.Contains(t, output, "digraph")
	assert.Contains(t, output, "AppVpc")
	assert.Contains(t, output, "PrivateSubnet1")
	assert.Contains(t, output, "[AWS::EC2::Subnet]")
	assert.Contains(t, output, "->")
}

func TestGenerator_Generate_WithGetAtt(t *testing.T) {
	resources := []rdstls.DeclaredResource{
		{Name: "Database", Type: "AWS::RDS::DBInstance"},
		{
			Name:          "DatabaseIngressFromService",
			Type:          "AWS::EC2::SecurityGroupIngress",
			Dependencies:  []string{"Database"},
			AttrRefUsages: []rdstls.AttrRefUsage{{ResourceName: "Database", Attribute: "Endpoint.Port"}},
		},
	}

	output, err := (&Generator{}).GenerateString(resources, nil)
	require.NoError(t, err)
	assert.Contains(t, output, "blue", "GetAtt edges should be blue")
}

func TestGenerator_Generate_WithParameters(t *testing.T) {
	resources := []rdstls.DeclaredResource{
		{Name: "TaskDefinition", Type: "AWS::ECS::TaskDefinition", Dependencies: []string{"ContainerImageTag"}},
	}
	parameters := map[string]rdstls.Parameter{"ContainerImageTag": {Type: "String"}}

	with, err := (&Generator{IncludeParameters: true}).GenerateString(resources, parameters)
	require.NoError(t, err)
	assert.Contains(t, with, "ContainerImageTag")
	assert.Contains(t, with, "ellipse")

	without, err := (&Generator{}).GenerateString(resources, parameters)
	require.NoError(t, err)
	assert.NotContains(t, without, "ContainerImageTag")
}

func TestGenerator_Generate_ClusterByType(t *testing.T) {
	resources := []rdstls.DeclaredResource{
		{Name: "AppVpc", Type: "AWS::EC2::VPC"},
		{Name: "PublicSubnet1", Type: "AWS::EC2::Subnet", Dependencies: []string{"AppVpc"}},
		{Name: "Database", Type: "AWS::RDS::DBInstance", Dependencies: []string{"PublicSubnet1"}},
	}

	output, err := (&Generator{ClusterByType: true}).GenerateString(resources, nil)
	require.NoError(t, err)
	assert.Contains(t, output, `label="EC2"`)
	assert.NotContains(t, output, `label="RDS"`, "single resources are not clustered")
	assert.Equal(t, 1, strings.Count(output, "subgraph"))

	// Each resource is emitted once, and edges join the clustered nodes.
	for _, name := range []string{"AppVpc", "PublicSubnet1", "Database"} {
		assert.Equal(t, 1, strings.Count(output, `label="`+name), name)
	}
	assert.Equal(t, 2, strings.Count(output, "->"))
}

func TestGenerator_Generate_MermaidFormat(t *testing.T) {
	resources := []rdstls.DeclaredResource{
		{Name: "AppVpc", Type: "AWS::EC2::VPC"},
		{Name: "PrivateSubnet1", Type: "AWS::EC2::Subnet", Dependencies: []string{"AppVpc"}},
	}

	output, err := (&Generator{Format: FormatMermaid}).GenerateString(resources, nil)
	require.NoError(t, err)

	if !strings.Contains(output, "graph") && !strings.Contains(output, "flowchart") {
		t.Errorf("expected mermaid graph/flowchart, got:\n%s", output)
	}
	assert.NotContains(t, output, "digraph")
}

func TestGenerator_Generate_UndeclaredDependencySkipped(t *testing.T) {
	resources := []rdstls.DeclaredResource{
		{Name: "AppVpc", Type: "AWS::EC2::VPC", Dependencies: []string{"Missing"}},
	}

	output, err := (&Generator{}).GenerateString(resources, nil)
	require.NoError(t, err)
	assert.NotContains(t, output, "Missing")
}

func TestResources(t *testing.T) {
	asm, err := descriptor.Synthesize(stack.Environment{}, config.Defaults())
	require.NoError(t, err)

	resources := Resources(asm.Template)
	require.Len(t, resources, len(asm.Resources))

	byName := make(map[string]rdstls.DeclaredResource)
	for i, res := range resources {
		assert.Equal(t, asm.Resources[i].Name, res.Name, "creation order is kept")
		byName[res.Name] = res
	}

	task := byName["TaskDefinition"]
	assert.Contains(t, task.Dependencies, "ContainerImageTag")
	assert.Contains(t, task.Dependencies, "DatabaseSecret")

	ingress := byName["DatabaseIngressFromService"]
	assert.Contains(t, ingress.AttrRefUsages, rdstls.AttrRefUsage{ResourceName: "Database", Attribute: "Endpoint.Port"})

	service := byName["AppService"]
	assert.Contains(t, service.Dependencies, "AppListener")
}

func TestGenerator_DescriptorGraph(t *testing.T) {
	asm, err := descriptor.Synthesize(stack.Environment{}, config.Defaults())
	require.NoError(t, err)

	output, err := (&Generator{ClusterByType: true, IncludeParameters: true}).
		GenerateString(Resources(asm.Template), asm.Template.Parameters)
	require.NoError(t, err)

	for _, name := range []string{"AppVpc", "Database", "AppService", "AppLoadBalancer", "ContainerImageTag"} {
		assert.Contains(t, output, name)
	}
	assert.Contains(t, output, `label="ECS"`)
	for _, cfType := range []string{"AWS::RDS::DBInstance", "AWS::ECS::Service", "AWS::EC2::VPC"} {
		assert.Equal(t, 1, strings.Count(output, "["+cfType+"]"), cfType)
	}
	assert.Equal(t, 1, strings.Count(output, `label="ContainerImageTag"`))
}

func TestExtractService(t *testing.T) {
	tests := []struct {
		cfType string
		want   string
	}{
		{"AWS::EC2::VPC", "EC2"},
		{"AWS::ElasticLoadBalancingV2::LoadBalancer", "ElasticLoadBalancingV2"},
		{"Custom::Thing", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.cfType, func(t *testing.T) {
			assert.Equal(t, tt.want, extractService(tt.cfType))
		})
	}
}
