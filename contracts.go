// Package rdstls provides the shared types of the PostgreSQL/RDS TLS deployment
// descriptor: the Resource contract implemented by every typed CloudFormation
// resource, attribute references, and the synthesized template.
//
// Resources are declared as Go values and registered on a stack:
//
//	vpc := stack.Add(s, "AppVpc", &ec2.VPC{CidrBlock: "10.0.0.0/16"})
//	subnet := stack.Add(s, "PrivateSubnet1", &ec2.Subnet{
//	    VpcId: vpc, // resolves to {"Ref": "AppVpc"}
//	})
//
// Synthesizing the stack resolves these references into a dependency graph and
// emits a CloudFormation template in creation order.
package rdstls

import (
	"encoding/json"
	"sort"
)

// Resource represents a CloudFormation resource.
// All typed resources (ec2.VPC, rds.DBInstance, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::RDS::DBInstance")
	ResourceType() string
}

// AttrRef represents a GetAtt reference to a resource attribute.
// Typed resources carry AttrRef fields for each attribute the descriptor reads;
// they are bound to the resource's logical ID when it is added to a stack.
//
// Example:
//
//	db := stack.Add(s, "Database", &rds.DBInstance{...})
//	port := db.EndpointPort // {"Fn::GetAtt": ["Database", "Endpoint.Port"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "Arn", "DNSName")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// AttrRefUsage records one GetAtt edge found while resolving references.
type AttrRefUsage struct {
	ResourceName string
	Attribute    string
}

// DeclaredResource is a node of the synthesized dependency graph.
type DeclaredResource struct {
	// Name is the logical ID
	Name string
	// Type is the CloudFormation type (e.g., "AWS::EC2::VPC")
	Type string
	// Dependencies are logical names of referenced resources, sorted
	Dependencies []string
	// AttrRefUsages are the GetAtt references among Dependencies
	AttrRefUsages []AttrRefUsage
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Metadata                 map[string]any         `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`

	// Order lists resource logical IDs in creation order.
	// It is not part of the CloudFormation document; serializers use it to
	// emit Resources in dependency order.
	Order []string `json:"-" yaml:"-"`
}

// ResourceNames returns the resource logical IDs in creation order, followed
// by any resources Order does not mention, sorted by name.
func (t *Template) ResourceNames() []string {
	seen := make(map[string]bool, len(t.Order))
	names := make([]string, 0, len(t.Resources))
	for _, name := range t.Order {
		if _, ok := t.Resources[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range t.Resources {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type                string         `json:"Type" yaml:"Type"`
	Properties          map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn           []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	DeletionPolicy      string         `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
	UpdateReplacePolicy string         `json:"UpdateReplacePolicy,omitempty" yaml:"UpdateReplacePolicy,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type          string   `json:"Type" yaml:"Type"`
	Description   string   `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default       any      `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues []string `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string  `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any     `json:"Value" yaml:"Value"`
	Export      *Export `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// Export names an output for cross-stack Fn::ImportValue.
type Export struct {
	Name string `json:"Name" yaml:"Name"`
}

// ValidateResult is the JSON output from `rdstls validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `rdstls list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// DiffEntry is one changed resource or output.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type,omitempty"`
	Changes  []string `json:"changes,omitempty"`
}

// TemplateDiff groups the differences between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
	Outputs  []DiffEntry `json:"outputs,omitempty"`
}

// DiffSummary counts the differences.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// OptimizeSuggestion is a single finding from `rdstls optimize`.
type OptimizeSuggestion struct {
	Rule        string `json:"rule"`
	Resource    string `json:"resource"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// OptimizeSummary tallies suggestions by category.
type OptimizeSummary struct {
	Security    int `json:"security"`
	Cost        int `json:"cost"`
	Reliability int `json:"reliability"`
	Total       int `json:"total"`
}
