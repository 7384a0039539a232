// Package template builds CloudFormation templates from declared resources.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// ErrCycle is returned when resources depend on each other in a loop.
var ErrCycle = errors.New("circular dependency detected")

// Node is one serialized resource awaiting placement in the template.
type Node struct {
	Name                string
	Type                string
	Properties          map[string]any
	DependsOn           []string
	DeletionPolicy      string
	UpdateReplacePolicy string

	// Dependencies lists every resource this node refers to, including
	// DependsOn. Names that are not resources (parameters) are ignored.
	Dependencies []string

	// AttrRefs are the Fn::GetAtt references among Dependencies.
	AttrRefs []rdstls.AttrRefUsage
}

// Builder constructs CloudFormation templates from serialized resources.
type Builder struct {
	description string
	metadata    map[string]any
	resources   map[string]Node
	parameters  map[string]rdstls.Parameter
	outputs     map[string]rdstls.Output
}

// NewBuilder creates an empty template builder.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]Node),
		parameters:  make(map[string]rdstls.Parameter),
		outputs:     make(map[string]rdstls.Output),
	}
}

// AddResource adds a resource node. A later node with the same name replaces
// the earlier one; callers reject duplicates before building.
func (b *Builder) AddResource(n Node) {
	b.resources[n.Name] = n
}

// AddParameter adds a template parameter.
func (b *Builder) AddParameter(name string, p rdstls.Parameter) {
	b.parameters[name] = p
}

// AddOutput adds a template output. Its value must already be serialized.
func (b *Builder) AddOutput(name string, o rdstls.Output) {
	b.outputs[name] = o
}

// SetMetadata sets a top-level Metadata key.
func (b *Builder) SetMetadata(key string, value any) {
	if b.metadata == nil {
		b.metadata = make(map[string]any)
	}
	b.metadata[key] = value
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*rdstls.Template, error) {
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	template := &rdstls.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              b.description,
		Metadata:                 b.metadata,
		Resources:                make(map[string]rdstls.ResourceDef, len(order)),
		Order:                    order,
	}

	if len(b.parameters) > 0 {
		template.Parameters = b.parameters
	}

	for _, name := range order {
		n := b.resources[name]
		template.Resources[name] = rdstls.ResourceDef{
			Type:                n.Type,
			Properties:          n.Properties,
			DependsOn:           n.DependsOn,
			DeletionPolicy:      n.DeletionPolicy,
			UpdateReplacePolicy: n.UpdateReplacePolicy,
		}
	}

	if len(b.outputs) > 0 {
		template.Outputs = b.outputs
	}

	return template, nil
}

// Graph returns the declared resources with their resolved dependencies,
// in the same order as Build.
func (b *Builder) Graph() ([]rdstls.DeclaredResource, error) {
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	graph := make([]rdstls.DeclaredResource, 0, len(order))
	for _, name := range order {
		n := b.resources[name]
		graph = append(graph, rdstls.DeclaredResource{
			Name:          name,
			Type:          n.Type,
			Dependencies:  b.resourceDeps(n),
			AttrRefUsages: n.AttrRefs,
		})
	}
	return graph, nil
}

// resourceDeps returns the sorted, deduplicated resource dependencies of n.
func (b *Builder) resourceDeps(n Node) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, dep := range n.Dependencies {
		if _, exists := b.resources[dep]; !exists || seen[dep] {
			continue
		}
		seen[dep] = true
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, n := range b.resources {
		for _, dep := range b.resourceDeps(n) {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.resourceDeps(b.resources[node]) {
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = []string{node, dep}
				return true
			}
		}

		path[node] = false
		return false
	}

	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		// Trim the lead-in so the message starts where the loop closes.
		last := cycle[len(cycle)-1]
		for i, name := range cycle {
			if name == last {
				cycle = cycle[i:]
				break
			}
		}
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " → "))
	}

	return ErrCycle
}
