package stack

import (
	"errors"
	"fmt"
	"sort"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
)

// Assembly is the result of synthesizing a stack.
type Assembly struct {
	StackName   string
	Environment Environment
	Template    *rdstls.Template
	// Resources is the dependency graph in creation order.
	Resources []rdstls.DeclaredResource
}

// Synthesize serializes every declaration, resolves references and orders
// resources for creation. All structural errors are collected and returned
// together; no template is produced if any exist.
func (s *Stack) Synthesize() (*Assembly, error) {
	errs := append([]error(nil), s.errs...)
	ser := serialize.New(s)
	builder := template.NewBuilder(s.description)

	for _, e := range s.entries {
		node, err := s.node(ser, e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		builder.AddResource(node)
	}

	for name, p := range s.parameters {
		builder.AddParameter(name, p)
	}

	for _, o := range s.outputs {
		value, err := ser.Value(o.output.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("output %s: %w", o.name, err))
			continue
		}
		for _, ref := range serialize.References(value) {
			if !s.names[ref.Target] {
				errs = append(errs, fmt.Errorf("output %s: %w: %s", o.name, ErrUndeclaredReference, ref.Target))
			}
		}
		out := o.output
		out.Value = value
		builder.AddOutput(o.name, out)
	}

	for k, v := range s.metadata {
		builder.SetMetadata(k, v)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	tmpl, err := builder.Build()
	if err != nil {
		return nil, err
	}
	graph, err := builder.Graph()
	if err != nil {
		return nil, err
	}

	return &Assembly{
		StackName:   s.name,
		Environment: s.env,
		Template:    tmpl,
		Resources:   graph,
	}, nil
}

// node serializes one declaration and resolves its dependencies.
func (s *Stack) node(ser *serialize.Serializer, e *entry) (template.Node, error) {
	props, err := ser.Properties(e.resource)
	if err != nil {
		return template.Node{}, fmt.Errorf("%s: %w", e.id, err)
	}

	deps := make(map[string]bool)
	var attrRefs []rdstls.AttrRefUsage
	var errs []error

	for _, ref := range serialize.References(props) {
		if !s.names[ref.Target] {
			errs = append(errs, fmt.Errorf("%s: %w: %s", e.id, ErrUndeclaredReference, ref.Target))
			continue
		}
		if _, isParam := s.parameters[ref.Target]; isParam {
			continue
		}
		deps[ref.Target] = true
		if ref.Attribute != "" {
			attrRefs = append(attrRefs, rdstls.AttrRefUsage{ResourceName: ref.Target, Attribute: ref.Attribute})
		}
	}

	var dependsOn []string
	for _, r := range e.dependsOn {
		id, ok := s.LogicalID(r)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: DependsOn: %w: %T", e.id, ErrUndeclaredReference, r))
			continue
		}
		if !contains(dependsOn, id) {
			dependsOn = append(dependsOn, id)
		}
		deps[id] = true
	}
	sort.Strings(dependsOn)

	if len(errs) > 0 {
		return template.Node{}, errors.Join(errs...)
	}

	dependencies := make([]string, 0, len(deps))
	for d := range deps {
		dependencies = append(dependencies, d)
	}
	sort.Strings(dependencies)

	return template.Node{
		Name:                e.id,
		Type:                e.resource.ResourceType(),
		Properties:          props,
		DependsOn:           dependsOn,
		DeletionPolicy:      e.deletionPolicy,
		UpdateReplacePolicy: e.updateReplacePolicy,
		Dependencies:        dependencies,
		AttrRefs:            attrRefs,
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
