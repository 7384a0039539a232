// Package serialize provides CloudFormation-specific serialization utilities.
package serialize

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// ErrUndeclaredReference is returned when a property refers to a resource
// that was never added to the stack.
var ErrUndeclaredReference = errors.New("reference to undeclared resource")

// Resolver maps registered resource pointers to their logical IDs.
type Resolver interface {
	LogicalID(r rdstls.Resource) (string, bool)
}

// Serializer converts typed resource structs to CloudFormation properties.
type Serializer struct {
	resolver Resolver
}

// New creates a Serializer that resolves nested resources through r.
// A nil resolver treats every nested resource as undeclared.
func New(r Resolver) *Serializer {
	return &Serializer{resolver: r}
}

// Resource serializes a Go struct to CloudFormation resource properties
// without resolving nested resources.
func Resource(v any) (map[string]any, error) {
	return New(nil).Properties(v)
}

// Properties serializes a resource struct to its Properties map.
// It handles:
// - JSON tag names (PascalCase as CloudFormation expects)
// - Omitting nil/zero values
// - Nested structs and intrinsic functions
// - Resource pointers (converted to Ref)
// - AttrRef fields (converted to Fn::GetAtt)
func (s *Serializer) Properties(v any) (map[string]any, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, nil
	}

	return s.structFields(val)
}

// Value serializes an arbitrary value as it would appear inside properties.
func (s *Serializer) Value(v any) (any, error) {
	return s.serializeValue(reflect.ValueOf(v), false)
}

func (s *Serializer) structFields(val reflect.Value) (map[string]any, error) {
	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		name := getFieldName(field)
		if name == "-" {
			continue
		}

		if isZeroValue(fieldVal) {
			continue
		}

		serialized, err := s.serializeValue(fieldVal, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if serialized != nil {
			result[name] = serialized
		}
	}

	return result, nil
}

// getFieldName returns the JSON field name for a struct field.
func getFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}

	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		return field.Name
	}
	return name
}

// isZeroValue returns true if the value is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		return false
	default:
		return false
	}
}

// serializeValue converts a reflect.Value to a JSON-compatible value.
// nested is true for values found inside a resource's properties, where a
// resource pointer means a Ref to that resource.
func (s *Serializer) serializeValue(v reflect.Value, nested bool) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		return s.serializeValue(v.Elem(), nested)
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		if nested && v.CanInterface() {
			if res, ok := v.Interface().(rdstls.Resource); ok {
				return s.ref(res)
			}
		}
		return s.serializeValue(v.Elem(), nested)
	}

	if v.CanInterface() {
		out, handled, err := s.intrinsic(v.Interface())
		if handled {
			return out, err
		}

		// Ref, GetAtt, Sub, GetAZs, AttrRef and policy principals carry no
		// nested resources and marshal themselves.
		if marshaler, ok := v.Interface().(json.Marshaler); ok {
			return fromMarshaler(marshaler)
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		fields, err := s.structFields(v)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, nil
		}
		return fields, nil

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := s.serializeValue(v.Index(i), true)
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make(map[string]any)
		iter := v.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			val, err := s.serializeValue(iter.Value(), true)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			result[key] = val
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, err
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (s *Serializer) ref(res rdstls.Resource) (any, error) {
	if s.resolver != nil {
		if name, ok := s.resolver.LogicalID(res); ok {
			return map[string]any{"Ref": name}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUndeclaredReference, res.ResourceType())
}

// intrinsic serializes the intrinsic functions that wrap arbitrary values,
// so resource pointers inside them resolve like any other property.
func (s *Serializer) intrinsic(iface any) (any, bool, error) {
	nested := func(x any) (any, error) {
		return s.serializeValue(reflect.ValueOf(x), true)
	}
	list := func(xs []any) ([]any, error) {
		out := make([]any, len(xs))
		for i, x := range xs {
			v, err := nested(x)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	switch val := iface.(type) {
	case intrinsics.Join:
		values, err := list(val.Values)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Fn::Join": []any{val.Delimiter, values}}, true, nil

	case intrinsics.Select:
		l, err := nested(val.List)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Fn::Select": []any{val.Index, l}}, true, nil

	case intrinsics.SubWithMap:
		vars := make(map[string]any, len(val.Variables))
		for k, x := range val.Variables {
			v, err := nested(x)
			if err != nil {
				return nil, true, err
			}
			vars[k] = v
		}
		return map[string]any{"Fn::Sub": []any{val.String, vars}}, true, nil

	case intrinsics.If:
		t, err := nested(val.ValueIfTrue)
		if err != nil {
			return nil, true, err
		}
		f, err := nested(val.ValueIfFalse)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Fn::If": []any{val.Condition, t, f}}, true, nil

	case intrinsics.Equals:
		a, err := nested(val.Value1)
		if err != nil {
			return nil, true, err
		}
		b, err := nested(val.Value2)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Fn::Equals": []any{a, b}}, true, nil

	case intrinsics.Base64:
		v, err := nested(val.Value)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Fn::Base64": v}, true, nil

	case intrinsics.Split:
		src, err := nested(val.Source)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Fn::Split": []any{val.Delimiter, src}}, true, nil

	case intrinsics.Tag:
		v, err := nested(val.Value)
		if err != nil {
			return nil, true, err
		}
		return map[string]any{"Key": val.Key, "Value": v}, true, nil
	}

	return nil, false, nil
}

func fromMarshaler(m json.Marshaler) (any, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
