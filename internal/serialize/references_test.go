package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected []Reference
	}{
		{
			name:     "ref",
			value:    map[string]any{"VpcId": map[string]any{"Ref": "AppVpc"}},
			expected: []Reference{{Target: "AppVpc"}},
		},
		{
			name:     "pseudo parameter ignored",
			value:    map[string]any{"Region": map[string]any{"Ref": "AWS::Region"}},
			expected: []Reference{},
		},
		{
			name: "getatt list",
			value: map[string]any{
				"FromPort": map[string]any{"Fn::GetAtt": []any{"Database", "Endpoint.Port"}},
			},
			expected: []Reference{{Target: "Database", Attribute: "Endpoint.Port"}},
		},
		{
			name:     "getatt dotted string",
			value:    map[string]any{"Fn::GetAtt": "AppLoadBalancer.DNSName"},
			expected: []Reference{{Target: "AppLoadBalancer", Attribute: "DNSName"}},
		},
		{
			name: "sub variables",
			value: map[string]any{
				"Fn::Sub": "${AWS::AccountId}.dkr.ecr.${AWS::Region}.amazonaws.com/app:${ContainerImageTag} ${!Literal} ${Database.Endpoint.Address}",
			},
			expected: []Reference{
				{Target: "ContainerImageTag"},
				{Target: "Database", Attribute: "Endpoint.Address"},
			},
		},
		{
			name: "sub with local variables",
			value: map[string]any{
				"Fn::Sub": []any{"${Name}-${Other}", map[string]any{"Name": map[string]any{"Ref": "AppVpc"}}},
			},
			expected: []Reference{{Target: "AppVpc"}, {Target: "Other"}},
		},
		{
			name: "nested lists deduplicated and sorted",
			value: []any{
				map[string]any{"Ref": "Zeta"},
				map[string]any{"Fn::Join": []any{"", []any{map[string]any{"Ref": "Alpha"}, map[string]any{"Ref": "Zeta"}}}},
			},
			expected: []Reference{{Target: "Alpha"}, {Target: "Zeta"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, References(tt.value))
		})
	}
}
