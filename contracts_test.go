package rdstls

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrRef_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected string
	}{
		{
			name:     "load balancer dns name",
			ref:      AttrRef{Resource: "AppLoadBalancer", Attribute: "DNSName"},
			expected: `{"Fn::GetAtt":["AppLoadBalancer","DNSName"]}`,
		},
		{
			name:     "database endpoint port",
			ref:      AttrRef{Resource: "Database", Attribute: "Endpoint.Port"},
			expected: `{"Fn::GetAtt":["Database","Endpoint.Port"]}`,
		},
		{
			name:     "security group id",
			ref:      AttrRef{Resource: "ServiceSecurityGroup", Attribute: "GroupId"},
			expected: `{"Fn::GetAtt":["ServiceSecurityGroup","GroupId"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAttrRef_IsZero(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected bool
	}{
		{name: "empty", ref: AttrRef{}, expected: true},
		{name: "with resource", ref: AttrRef{Resource: "Database"}, expected: false},
		{name: "with attribute", ref: AttrRef{Attribute: "Endpoint.Address"}, expected: false},
		{name: "bound", ref: AttrRef{Resource: "Database", Attribute: "Endpoint.Address"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.IsZero())
		})
	}
}

func TestTemplate_OrderNotSerialized(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]ResourceDef{
			"AppVpc": {Type: "AWS::EC2::VPC"},
		},
		Order: []string{"AppVpc"},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Order")
	assert.Contains(t, string(data), `"AppVpc"`)
}

func TestResourceDef_PoliciesOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(ResourceDef{Type: "AWS::ECS::Cluster"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Type":"AWS::ECS::Cluster"}`, string(data))

	data, err = json.Marshal(ResourceDef{
		Type:                "AWS::RDS::DBInstance",
		DeletionPolicy:      "Delete",
		UpdateReplacePolicy: "Delete",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Type":"AWS::RDS::DBInstance","DeletionPolicy":"Delete","UpdateReplacePolicy":"Delete"}`, string(data))
}

func TestTemplate_ResourceNames(t *testing.T) {
	resources := map[string]ResourceDef{
		"Database":  {Type: "AWS::RDS::DBInstance"},
		"AppVpc":    {Type: "AWS::EC2::VPC"},
		"AppSecret": {Type: "AWS::SecretsManager::Secret"},
	}

	synthesized := &Template{Resources: resources, Order: []string{"AppVpc", "AppSecret", "Database"}}
	assert.Equal(t, []string{"AppVpc", "AppSecret", "Database"}, synthesized.ResourceNames())

	parsed := &Template{Resources: resources}
	assert.Equal(t, []string{"AppSecret", "AppVpc", "Database"}, parsed.ResourceNames())

	partial := &Template{Resources: resources, Order: []string{"Database", "Removed", "Database"}}
	assert.Equal(t, []string{"Database", "AppSecret", "AppVpc"}, partial.ResourceNames())
}
