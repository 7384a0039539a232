package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
	"github.com/lex00/pgsql-rds-tls-go/intrinsics"
)

// GeneratedSecret reports malformed secret generation settings, and generated
// passwords that may contain characters RDS rejects in master passwords.
type GeneratedSecret struct{}

func (r GeneratedSecret) ID() string { return "RDT004" }
func (r GeneratedSecret) Description() string {
	return "Generated secrets are well formed and safe for RDS passwords"
}

// rdsForbiddenPasswordChars may not appear in an RDS master password.
const rdsForbiddenPasswordChars = "/@\" "

func (r GeneratedSecret) CheckTemplate(t *rdstls.Template) []Issue {
	dbSecrets := make(map[string]bool)
	for _, name := range t.ResourceNames() {
		def := t.Resources[name]
		if def.Type != "AWS::RDS::DBInstance" {
			continue
		}
		for _, ref := range serialize.References(def.Properties["MasterUserPassword"]) {
			dbSecrets[ref.Target] = true
		}
	}

	var issues []Issue
	for _, name := range t.ResourceNames() {
		def := t.Resources[name]
		if def.Type != "AWS::SecretsManager::Secret" {
			continue
		}
		gen, ok := def.Properties["GenerateSecretString"].(map[string]any)
		if !ok {
			continue
		}
		report := func(path, msg string) {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Resource: name,
				Path:     "GenerateSecretString." + path,
				Message:  msg,
			})
		}

		if n, ok := serialize.Int(gen["PasswordLength"]); ok && (n < 1 || n > 4096) {
			report("PasswordLength", fmt.Sprintf("password length %d is outside 1-4096", n))
		}

		tmpl, hasTemplate := gen["SecretStringTemplate"]
		key, hasKey := gen["GenerateStringKey"]
		switch {
		case hasTemplate && !hasKey:
			report("GenerateStringKey", "SecretStringTemplate requires GenerateStringKey")
		case hasKey && !hasTemplate:
			report("SecretStringTemplate", "GenerateStringKey requires SecretStringTemplate")
		}
		if s, ok := tmpl.(string); ok {
			var fields map[string]any
			if err := json.Unmarshal([]byte(s), &fields); err != nil {
				report("SecretStringTemplate", "template must be a JSON object: "+err.Error())
			} else if k, ok := key.(string); ok {
				if _, dup := fields[k]; dup {
					report("SecretStringTemplate", fmt.Sprintf("template already contains the generated key %q", k))
				}
			}
		}

		if dbSecrets[name] {
			if missing := unexcluded(gen); missing != "" {
				report("ExcludeCharacters", fmt.Sprintf("password for a database master user may contain %q", missing))
			}
		}
	}
	return issues
}

// unexcluded returns the RDS-forbidden characters a generated password may
// still contain.
func unexcluded(gen map[string]any) string {
	excluded, _ := gen["ExcludeCharacters"].(string)
	punctuation, _ := gen["ExcludePunctuation"].(bool)
	space, _ := gen["IncludeSpace"].(bool)

	var missing strings.Builder
	for _, c := range rdsForbiddenPasswordChars {
		switch {
		case strings.ContainsRune(excluded, c):
		case c == ' ' && !space:
		case c != ' ' && punctuation:
		default:
			missing.WriteRune(c)
		}
	}
	return missing.String()
}

// ForceTLS reports PostgreSQL parameter groups that do not enforce TLS and
// PostgreSQL instances that do not use such a group.
type ForceTLS struct{}

func (r ForceTLS) ID() string { return "RDT008" }
func (r ForceTLS) Description() string {
	return "PostgreSQL instances enforce TLS through their parameter group"
}

// ForceSSLParameter is the PostgreSQL parameter that rejects unencrypted
// connections.
const ForceSSLParameter = "rds.force_ssl"

func (r ForceTLS) CheckTemplate(t *rdstls.Template) []Issue {
	enforcing := make(map[string]bool)
	var issues []Issue

	for _, name := range t.ResourceNames() {
		def := t.Resources[name]
		if def.Type != "AWS::RDS::DBParameterGroup" {
			continue
		}
		family, _ := def.Properties["Family"].(string)
		if !strings.HasPrefix(family, "postgres") {
			continue
		}
		params, _ := def.Properties["Parameters"].(map[string]any)
		if n, ok := serialize.Int(params[ForceSSLParameter]); ok && n == 1 {
			enforcing[name] = true
			continue
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     "Parameters." + ForceSSLParameter,
			Message:  ForceSSLParameter + " must be 1",
		})
	}

	for _, name := range t.ResourceNames() {
		def := t.Resources[name]
		if def.Type != "AWS::RDS::DBInstance" || def.Properties["Engine"] != "postgres" {
			continue
		}
		group := serialize.RefTarget(def.Properties["DBParameterGroupName"])
		if enforcing[group] {
			continue
		}
		msg := "instance does not use a parameter group that sets " + ForceSSLParameter
		if group == "" {
			msg = "instance uses the default parameter group, which does not set " + ForceSSLParameter
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Severity: SeverityError,
			Resource: name,
			Path:     "DBParameterGroupName",
			Message:  msg,
		})
	}
	return issues
}

// References reports Ref, Fn::GetAtt, Fn::Sub and DependsOn targets that are
// not declared in the template.
type References struct{}

func (r References) ID() string { return "RDT011" }
func (r References) Description() string {
	return "Every reference names a declared resource or parameter"
}

func (r References) CheckTemplate(t *rdstls.Template) []Issue {
	var issues []Issue
	declared := func(ref serialize.Reference) bool {
		if _, ok := t.Resources[ref.Target]; ok {
			return true
		}
		if _, ok := t.Parameters[ref.Target]; ok {
			return ref.Attribute == ""
		}
		return intrinsics.IsPseudoParameter(ref.Target)
	}
	describe := func(ref serialize.Reference) string {
		if ref.Attribute != "" {
			return ref.Target + "." + ref.Attribute
		}
		return ref.Target
	}

	for _, name := range t.ResourceNames() {
		def := t.Resources[name]
		for _, ref := range serialize.References(def.Properties) {
			if !declared(ref) {
				issues = append(issues, Issue{
					Rule:     r.ID(),
					Severity: SeverityError,
					Resource: name,
					Path:     "Properties",
					Message:  "reference to undeclared " + describe(ref),
				})
			}
		}
		for _, dep := range def.DependsOn {
			if _, ok := t.Resources[dep]; !ok {
				issues = append(issues, Issue{
					Rule:     r.ID(),
					Severity: SeverityError,
					Resource: name,
					Path:     "DependsOn",
					Message:  "depends on undeclared resource " + dep,
				})
			}
		}
	}

	outputs := make([]string, 0, len(t.Outputs))
	for name := range t.Outputs {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)
	for _, name := range outputs {
		for _, ref := range serialize.References(t.Outputs[name].Value) {
			if !declared(ref) {
				issues = append(issues, Issue{
					Rule:     r.ID(),
					Severity: SeverityError,
					Path:     "Outputs." + name,
					Message:  "reference to undeclared " + describe(ref),
				})
			}
		}
	}
	return issues
}
