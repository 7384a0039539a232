// Package differ provides semantic comparison of CloudFormation templates,
// typically a previously deployed template against a fresh synthesis.
package differ

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    rdstls.TemplateDiff
	Summary rdstls.DiffSummary
}

// Compare compares two CloudFormation templates and returns differences.
// Numbers compare by value, so a synthesized template (int64) and the same
// template read back from a file (float64) are equal.
func Compare(template1, template2 *rdstls.Template, opts Options) (*Result, error) {
	result := &Result{}

	res1 := template1.Resources
	res2 := template2.Resources

	// Find added resources (in template2 but not in template1)
	for name, def := range res2 {
		if _, exists := res1[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, rdstls.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	// Find removed resources (in template1 but not in template2)
	for name, def := range res1 {
		if _, exists := res2[name]; !exists {
			result.Diff.Removed = append(result.Diff.Removed, rdstls.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	// Find modified resources
	for name, def1 := range res1 {
		if def2, exists := res2[name]; exists {
			changes := compareResources(def1, def2, opts)
			if len(changes) > 0 {
				result.Diff.Modified = append(result.Diff.Modified, rdstls.DiffEntry{
					Resource: name,
					Type:     def2.Type,
					Changes:  changes,
				})
			}
		}
	}

	result.Diff.Outputs = compareOutputs(template1.Outputs, template2.Outputs, opts)

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)
	sortEntries(result.Diff.Outputs)

	result.Summary = rdstls.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified + len(result.Diff.Outputs)

	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := template.LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := template.LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts)
}

// HasChanges reports whether the templates differ.
func (r *Result) HasChanges() bool {
	return r.Summary.Total > 0
}

// compareResources compares two resource definitions and returns changes.
func compareResources(def1, def2 rdstls.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	if !equalStringSets(def1.DependsOn, def2.DependsOn) {
		changes = append(changes, "DependsOn changed")
	}
	if def1.DeletionPolicy != def2.DeletionPolicy {
		changes = append(changes, fmt.Sprintf("DeletionPolicy changed: %s → %s", policy(def1.DeletionPolicy), policy(def2.DeletionPolicy)))
	}
	if def1.UpdateReplacePolicy != def2.UpdateReplacePolicy {
		changes = append(changes, fmt.Sprintf("UpdateReplacePolicy changed: %s → %s", policy(def1.UpdateReplacePolicy), policy(def2.UpdateReplacePolicy)))
	}

	return changes
}

func policy(p string) string {
	if p == "" {
		return "(default)"
	}
	return p
}

// compareProperties recursively compares property maps. Nested objects are
// descended into so changes are reported at the deepest differing path.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		val1, exists := props1[key]
		if !exists {
			changes = append(changes, fmt.Sprintf("%s added", path))
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, fmt.Sprintf("%s modified", path))
		}
	}

	for key := range props1 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if _, exists := props2[key]; !exists {
			changes = append(changes, fmt.Sprintf("%s removed", path))
		}
	}

	sort.Strings(changes)
	return changes
}

// isIntrinsic reports whether m is a single-key intrinsic function such as
// {"Ref": X} or {"Fn::GetAtt": [...]}, which is compared as a whole.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || k == "Condition" || strings.HasPrefix(k, "Fn::")
	}
	return false
}

// compareOutputs reports added, removed and modified outputs.
func compareOutputs(out1, out2 map[string]rdstls.Output, opts Options) []rdstls.DiffEntry {
	var entries []rdstls.DiffEntry
	for name, o2 := range out2 {
		o1, exists := out1[name]
		if !exists {
			entries = append(entries, rdstls.DiffEntry{Resource: name, Changes: []string{"added"}})
			continue
		}
		var changes []string
		if !deepEqual(o1.Value, o2.Value, opts) {
			changes = append(changes, "Value modified")
		}
		if exportName(o1) != exportName(o2) {
			changes = append(changes, fmt.Sprintf("Export changed: %s → %s", exportName(o1), exportName(o2)))
		}
		if o1.Description != o2.Description {
			changes = append(changes, "Description modified")
		}
		if len(changes) > 0 {
			entries = append(entries, rdstls.DiffEntry{Resource: name, Changes: changes})
		}
	}
	for name := range out1 {
		if _, exists := out2[name]; !exists {
			entries = append(entries, rdstls.DiffEntry{Resource: name, Changes: []string{"removed"}})
		}
	}
	return entries
}

func exportName(o rdstls.Output) string {
	if o.Export == nil {
		return "(none)"
	}
	return o.Export.Name
}

// deepEqual compares two values deeply, optionally ignoring order.
func deepEqual(a, b any, opts Options) bool {
	return reflect.DeepEqual(normalizeValue(a, opts), normalizeValue(b, opts))
}

// normalizeValue converts numbers to float64 and, with IgnoreOrder, sorts
// arrays by their JSON encoding.
func normalizeValue(v any, opts Options) any {
	switch val := v.(type) {
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = normalizeValue(item, opts)
		}
		if opts.IgnoreOrder {
			sort.SliceStable(result, func(i, j int) bool {
				return sortKey(result[i]) < sortKey(result[j])
			})
		}
		return result
	case []string:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = item
		}
		return normalizeValue(result, opts)
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = normalizeValue(v, opts)
		}
		return result
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}

func sortKey(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// equalStringSets compares two string slices ignoring order.
func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []rdstls.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
