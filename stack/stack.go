// Package stack declares CloudFormation stacks as ordinary Go values.
//
// Resources are registered with Add, which returns the same pointer so later
// declarations can refer to it directly:
//
//	s := stack.New("AppStack", stack.Environment{})
//	vpc := stack.Add(s, "AppVpc", &ec2.VPC{CidrBlock: "10.0.0.0/16"})
//	stack.Add(s, "PrivateSubnet1", &ec2.Subnet{VpcId: vpc, CidrBlock: "10.0.128.0/18"})
//
// A resource pointer nested in another resource's properties becomes
// {"Ref": id}; its AttrRef fields become Fn::GetAtt. Synthesize resolves those
// references into a dependency graph and emits the template in creation order.
package stack

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/intrinsics"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
)

var (
	// ErrDuplicateLogicalID is returned when two declarations share a logical ID.
	ErrDuplicateLogicalID = errors.New("duplicate logical ID")

	// ErrInvalidLogicalID is returned for IDs CloudFormation would reject.
	ErrInvalidLogicalID = errors.New("invalid logical ID")

	// ErrInvalidResource is returned when Add is given something other than
	// a non-nil struct pointer, or the same pointer twice.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrUndeclaredReference is returned when a property refers to a resource
	// or parameter that is not part of the stack.
	ErrUndeclaredReference = serialize.ErrUndeclaredReference

	// ErrCycle is returned when resources depend on each other in a loop.
	ErrCycle = template.ErrCycle
)

// Deletion and update-replace policies.
const (
	PolicyDelete   = "Delete"
	PolicyRetain   = "Retain"
	PolicySnapshot = "Snapshot"
)

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,255}$`)

// Environment is the deployment target. An empty account or region leaves
// the template environment-agnostic.
type Environment struct {
	Account string
	Region  string
}

// IsAgnostic reports whether the template must work in any account or region.
func (e Environment) IsAgnostic() bool {
	return e.Account == "" || e.Region == ""
}

// String formats the environment as aws://account/region.
func (e Environment) String() string {
	account, region := e.Account, e.Region
	if account == "" {
		account = "unknown-account"
	}
	if region == "" {
		region = "unknown-region"
	}
	return "aws://" + account + "/" + region
}

type entry struct {
	id                  string
	resource            rdstls.Resource
	dependsOn           []rdstls.Resource
	deletionPolicy      string
	updateReplacePolicy string
}

type outputEntry struct {
	name   string
	output rdstls.Output
}

// Stack collects resource declarations for one CloudFormation template.
type Stack struct {
	name        string
	env         Environment
	description string
	metadata    map[string]any

	entries    []*entry
	ids        map[rdstls.Resource]string
	names      map[string]bool
	parameters map[string]rdstls.Parameter
	outputs    []outputEntry

	errs []error
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithDescription sets the template Description.
func WithDescription(d string) StackOption {
	return func(s *Stack) {
		s.description = d
	}
}

// New creates an empty stack.
func New(name string, env Environment, opts ...StackOption) *Stack {
	s := &Stack{
		name:       name,
		env:        env,
		ids:        make(map[rdstls.Resource]string),
		names:      make(map[string]bool),
		parameters: make(map[string]rdstls.Parameter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the stack name.
func (s *Stack) Name() string { return s.name }

// Environment returns the deployment target.
func (s *Stack) Environment() Environment { return s.env }

// Option configures a single resource declaration.
type Option func(*entry)

// DependsOn adds explicit dependencies on other declared resources.
func DependsOn(resources ...rdstls.Resource) Option {
	return func(e *entry) {
		e.dependsOn = append(e.dependsOn, resources...)
	}
}

// DeletionPolicy sets the resource DeletionPolicy.
func DeletionPolicy(p string) Option {
	return func(e *entry) {
		e.deletionPolicy = p
	}
}

// UpdateReplacePolicy sets the resource UpdateReplacePolicy.
func UpdateReplacePolicy(p string) Option {
	return func(e *entry) {
		e.updateReplacePolicy = p
	}
}

// RemovalPolicy sets both DeletionPolicy and UpdateReplacePolicy.
func RemovalPolicy(p string) Option {
	return func(e *entry) {
		e.deletionPolicy = p
		e.updateReplacePolicy = p
	}
}

// Add registers r under logicalID, binds its AttrRef fields to that ID and
// returns r. Declaration errors are collected and reported by Synthesize.
func Add[T rdstls.Resource](s *Stack, logicalID string, r T, opts ...Option) T {
	if err := s.add(logicalID, r, opts); err != nil {
		s.errs = append(s.errs, err)
	}
	return r
}

func (s *Stack) add(id string, r rdstls.Resource, opts []Option) error {
	v := reflect.ValueOf(r)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%s: %w: want a non-nil struct pointer, got %T", id, ErrInvalidResource, r)
	}
	if !logicalIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q must be 1-255 alphanumeric characters", ErrInvalidLogicalID, id)
	}
	if s.names[id] {
		return fmt.Errorf("%w: %s", ErrDuplicateLogicalID, id)
	}
	if prev, ok := s.ids[r]; ok {
		return fmt.Errorf("%s: %w: already declared as %s", id, ErrInvalidResource, prev)
	}

	e := &entry{id: id, resource: r}
	for _, opt := range opts {
		opt(e)
	}

	bindAttrRefs(v.Elem(), id)
	s.names[id] = true
	s.ids[r] = id
	s.entries = append(s.entries, e)
	return nil
}

// bindAttrRefs fills every AttrRef field tagged `attr:"Name"` with a
// reference to id.
func bindAttrRefs(v reflect.Value, id string) {
	attrRefType := reflect.TypeOf(rdstls.AttrRef{})
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type != attrRefType || !field.IsExported() {
			continue
		}
		attr := field.Tag.Get("attr")
		if attr == "" {
			continue
		}
		v.Field(i).Set(reflect.ValueOf(rdstls.AttrRef{Resource: id, Attribute: attr}))
	}
}

// LogicalID returns the ID r was declared under.
func (s *Stack) LogicalID(r rdstls.Resource) (string, bool) {
	v := reflect.ValueOf(r)
	if !v.IsValid() || v.Kind() != reflect.Ptr {
		return "", false
	}
	id, ok := s.ids[r]
	return id, ok
}

// Ref returns a Ref to a declared resource. Referring to an undeclared
// resource is reported by Synthesize.
func (s *Stack) Ref(r rdstls.Resource) intrinsics.Ref {
	id, ok := s.LogicalID(r)
	if !ok {
		s.errs = append(s.errs, fmt.Errorf("Ref: %w: %T", ErrUndeclaredReference, r))
	}
	return intrinsics.Ref{LogicalName: id}
}

// AddParameter declares a template parameter and returns a Ref to it.
func (s *Stack) AddParameter(name string, p rdstls.Parameter) intrinsics.Ref {
	switch {
	case !logicalIDPattern.MatchString(name):
		s.errs = append(s.errs, fmt.Errorf("parameter: %w: %q", ErrInvalidLogicalID, name))
	case s.names[name]:
		s.errs = append(s.errs, fmt.Errorf("parameter: %w: %s", ErrDuplicateLogicalID, name))
	default:
		if p.Type == "" {
			p.Type = "String"
		}
		s.names[name] = true
		s.parameters[name] = p
	}
	return intrinsics.Ref{LogicalName: name}
}

// AddOutput declares a template output. The value may contain resource
// pointers and AttrRefs; they are resolved at synthesis.
func (s *Stack) AddOutput(name string, o rdstls.Output) {
	if !logicalIDPattern.MatchString(name) {
		s.errs = append(s.errs, fmt.Errorf("output: %w: %q", ErrInvalidLogicalID, name))
		return
	}
	for _, existing := range s.outputs {
		if existing.name == name {
			s.errs = append(s.errs, fmt.Errorf("output: %w: %s", ErrDuplicateLogicalID, name))
			return
		}
	}
	s.outputs = append(s.outputs, outputEntry{name: name, output: o})
}

// SetMetadata sets a top-level template Metadata key.
func (s *Stack) SetMetadata(key string, value any) {
	if s.metadata == nil {
		s.metadata = make(map[string]any)
	}
	s.metadata[key] = value
}
