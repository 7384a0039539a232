package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// section is one top-level key of the emitted document.
type section struct {
	key   string
	value any
}

// sections returns the template's top-level keys in CloudFormation's
// conventional order, skipping empty ones.
func sections(t *rdstls.Template) []section {
	out := []section{{"AWSTemplateFormatVersion", t.AWSTemplateFormatVersion}}
	if t.Description != "" {
		out = append(out, section{"Description", t.Description})
	}
	if len(t.Metadata) > 0 {
		out = append(out, section{"Metadata", t.Metadata})
	}
	if len(t.Parameters) > 0 {
		out = append(out, section{"Parameters", t.Parameters})
	}
	out = append(out, section{"Resources", nil})
	if len(t.Outputs) > 0 {
		out = append(out, section{"Outputs", t.Outputs})
	}
	return out
}

// ToJSON serializes the template to indented JSON, emitting Resources in
// creation order.
func ToJSON(t *rdstls.Template) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range sections(t) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(&buf, s.key); err != nil {
			return nil, err
		}
		if s.key == "Resources" {
			if err := writeResourcesJSON(&buf, t); err != nil {
				return nil, err
			}
			continue
		}
		if err := writeJSONValue(&buf, s.value); err != nil {
			return nil, fmt.Errorf("%s: %w", s.key, err)
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeResourcesJSON(buf *bytes.Buffer, t *rdstls.Template) error {
	buf.WriteByte('{')
	for i, name := range t.ResourceNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(buf, name); err != nil {
			return err
		}
		if err := writeJSONValue(buf, t.Resources[name]); err != nil {
			return fmt.Errorf("resource %s: %w", name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONKey(buf *bytes.Buffer, key string) error {
	if err := writeJSONValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline; json.Indent re-flows whitespace anyway.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ToYAML serializes the template to YAML, emitting Resources in creation order.
func ToYAML(t *rdstls.Template) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	for _, s := range sections(t) {
		var value *yaml.Node
		switch s.key {
		case "AWSTemplateFormatVersion":
			value = scalar(t.AWSTemplateFormatVersion)
			value.Style = yaml.DoubleQuotedStyle
		case "Resources":
			res, err := resourcesYAML(t)
			if err != nil {
				return nil, err
			}
			value = res
		default:
			value = &yaml.Node{}
			if err := value.Encode(s.value); err != nil {
				return nil, fmt.Errorf("%s: %w", s.key, err)
			}
		}
		doc.Content = append(doc.Content, scalar(s.key), value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resourcesYAML(t *rdstls.Template) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range t.ResourceNames() {
		value := &yaml.Node{}
		if err := value.Encode(t.Resources[name]); err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}
		node.Content = append(node.Content, scalar(name), value)
	}
	return node, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// Parse decodes a CloudFormation template from JSON or YAML.
// Numbers are normalized to float64 regardless of the input format.
func Parse(data []byte) (*rdstls.Template, error) {
	var template rdstls.Template

	if err := json.Unmarshal(data, &template); err == nil {
		return &template, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize YAML template: %w", err)
	}
	if err := json.Unmarshal(normalized, &template); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	return &template, nil
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*rdstls.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
