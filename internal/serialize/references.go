package serialize

import (
	"regexp"
	"sort"
	"strings"
)

// Reference is a logical name referenced from a serialized property tree.
type Reference struct {
	// Target is the referenced logical name (resource or parameter).
	Target string
	// Attribute is set for Fn::GetAtt and ${Name.Attr} references.
	Attribute string
}

// subVarPattern matches ${Name} and ${Name.Attr} but not ${!Literal}.
var subVarPattern = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// References walks a serialized value and returns every Ref, Fn::GetAtt and
// Fn::Sub variable it contains, sorted by target then attribute.
// Pseudo parameters (AWS::*) are not returned.
func References(v any) []Reference {
	seen := make(map[Reference]bool)
	collect(v, seen)

	refs := make([]Reference, 0, len(seen))
	for r := range seen {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Target != refs[j].Target {
			return refs[i].Target < refs[j].Target
		}
		return refs[i].Attribute < refs[j].Attribute
	})
	return refs
}

func collect(v any, seen map[Reference]bool) {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			switch k {
			case "Ref":
				if name, ok := inner.(string); ok && !strings.HasPrefix(name, "AWS::") {
					seen[Reference{Target: name}] = true
				}
				continue
			case "Fn::GetAtt":
				if r, ok := getAttReference(inner); ok {
					seen[r] = true
				}
				continue
			case "Fn::Sub":
				collectSub(inner, seen)
				continue
			}
			collect(inner, seen)
		}
	case []any:
		for _, inner := range val {
			collect(inner, seen)
		}
	}
}

func getAttReference(v any) (Reference, bool) {
	switch val := v.(type) {
	case []any:
		if len(val) != 2 {
			return Reference{}, false
		}
		name, ok := val[0].(string)
		if !ok {
			return Reference{}, false
		}
		attr, _ := val[1].(string)
		return Reference{Target: name, Attribute: attr}, true
	case []string:
		if len(val) != 2 {
			return Reference{}, false
		}
		return Reference{Target: val[0], Attribute: val[1]}, true
	case string:
		name, attr, _ := strings.Cut(val, ".")
		return Reference{Target: name, Attribute: attr}, true
	}
	return Reference{}, false
}

func collectSub(v any, seen map[Reference]bool) {
	var (
		str  string
		vars map[string]any
	)
	switch val := v.(type) {
	case string:
		str = val
	case []any:
		if len(val) > 0 {
			str, _ = val[0].(string)
		}
		if len(val) > 1 {
			vars, _ = val[1].(map[string]any)
			for _, inner := range vars {
				collect(inner, seen)
			}
		}
	}

	for _, m := range subVarPattern.FindAllStringSubmatch(str, -1) {
		name, attr, _ := strings.Cut(m[1], ".")
		if strings.HasPrefix(name, "AWS::") {
			continue
		}
		if _, local := vars[name]; local {
			continue
		}
		seen[Reference{Target: name, Attribute: attr}] = true
	}
}
