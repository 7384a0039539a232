// Package validation checks synthesized templates before they are handed to
// the provisioning engine.
//
// Two layers are available:
//   - Check: explicit schema rules for the resource types the descriptor
//     declares (required properties, enum values, port ranges, secret
//     generation, Fargate sizing, TLS and encryption enforcement, references)
//   - RunCfnLint: cfn-lint-go over a written template file (library dependency)
//
// Rules:
//
//	RDT001: Required properties are present
//	RDT002: Enum properties use values CloudFormation accepts
//	RDT003: Ports are within 1-65535 and ranges are ordered
//	RDT004: Generated secrets are well formed and safe for RDS passwords
//	RDT005: Database storage limits are consistent
//	RDT006: Target group health checks are within service limits
//	RDT007: Fargate task CPU and memory form a supported combination
//	RDT008: PostgreSQL instances enforce TLS through their parameter group
//	RDT009: Database storage is encrypted
//	RDT010: Container secrets are named, sourced and unique
//	RDT011: Every reference names a declared resource or parameter
package validation

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Resource string `json:"resource,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	loc := i.Resource
	if i.Path != "" {
		loc += "." + i.Path
	}
	if loc == "" {
		return fmt.Sprintf("%s %s: %s", i.Rule, i.Severity, i.Message)
	}
	return fmt.Sprintf("%s %s: %s: %s", i.Rule, i.Severity, loc, i.Message)
}

// Rule checks one resource at a time.
type Rule interface {
	ID() string
	Description() string
	Check(name string, def rdstls.ResourceDef) []Issue
}

// TemplateRule checks relationships between resources.
type TemplateRule interface {
	ID() string
	Description() string
	CheckTemplate(t *rdstls.Template) []Issue
}

// Options configures Check.
type Options struct {
	// Rules to enable by ID. If empty, all rules are enabled.
	EnabledRules []string
}

// Rules returns every per-resource rule.
func Rules() []Rule {
	return []Rule{
		RequiredProperties{},
		EnumValues{},
		PortRange{},
		StorageLimits{},
		HealthCheckRange{},
		FargateSize{},
		StorageEncrypted{},
		ContainerSecrets{},
	}
}

// TemplateRules returns every cross-resource rule.
func TemplateRules() []TemplateRule {
	return []TemplateRule{
		GeneratedSecret{},
		ForceTLS{},
		References{},
	}
}

// Check runs all rules over t. Issues are ordered by resource in creation
// order, then by rule.
func Check(t *rdstls.Template) []Issue {
	return CheckWithOptions(t, Options{})
}

// CheckWithOptions runs the enabled rules over t.
func CheckWithOptions(t *rdstls.Template, opts Options) []Issue {
	enabled := func(id string) bool {
		if len(opts.EnabledRules) == 0 {
			return true
		}
		for _, r := range opts.EnabledRules {
			if r == id {
				return true
			}
		}
		return false
	}

	issues := []Issue{}
	for _, name := range t.ResourceNames() {
		def := t.Resources[name]
		for _, rule := range Rules() {
			if enabled(rule.ID()) {
				issues = append(issues, rule.Check(name, def)...)
			}
		}
	}
	for _, rule := range TemplateRules() {
		if enabled(rule.ID()) {
			issues = append(issues, rule.CheckTemplate(t)...)
		}
	}

	order := make(map[string]int)
	for i, name := range t.ResourceNames() {
		order[name] = i
	}
	sort.SliceStable(issues, func(i, j int) bool {
		oi, iok := order[issues[i].Resource]
		oj, jok := order[issues[j].Resource]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return issues[i].Rule < issues[j].Rule
	})
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// RunCfnLint runs cfn-lint-go on the given template file.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template file not found: %w", err)
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("linting %s: %w", templatePath, err)
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Warnings are acceptable.
	result.Passed = len(result.Errors) == 0

	return result, nil
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}
