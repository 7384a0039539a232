// Package optimizer reports reviewable risks in a synthesized template.
// It analyzes resources for security, cost, and reliability improvements.
package optimizer

import (
	"fmt"
	"sort"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

// Categories.
const (
	CategorySecurity    = "security"
	CategoryCost        = "cost"
	CategoryReliability = "reliability"
)

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions: "all", "security", "cost", "reliability".
	// Empty means all.
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []rdstls.OptimizeSuggestion
	Summary     rdstls.OptimizeSummary
}

// Optimize analyzes the template's resources and returns optimization
// suggestions ordered by resource creation order, then rule.
func Optimize(t *rdstls.Template, opts Options) (*Result, error) {
	switch opts.Category {
	case "", "all", CategorySecurity, CategoryCost, CategoryReliability:
	default:
		return nil, fmt.Errorf("unknown category %q", opts.Category)
	}

	result := &Result{Suggestions: []rdstls.OptimizeSuggestion{}}
	for _, name := range t.ResourceNames() {
		res := resource{Name: name, Def: t.Resources[name], Template: t}
		result.Suggestions = append(result.Suggestions, analyzeResource(res, opts.Category)...)
	}

	result.Summary = calculateSummary(result.Suggestions)
	return result, nil
}

// resource is the unit a rule inspects. Template gives rules access to the
// resources around it.
type resource struct {
	Name     string
	Def      rdstls.ResourceDef
	Template *rdstls.Template
}

// analyzeResource applies optimization rules to a single resource.
func analyzeResource(res resource, category string) []rdstls.OptimizeSuggestion {
	var suggestions []rdstls.OptimizeSuggestion

	for _, rule := range getRulesForType(res.Def.Type) {
		if category != "" && category != "all" && rule.Category != category {
			continue
		}
		if suggestion := rule.Check(res); suggestion != nil {
			suggestion.Rule = rule.ID
			suggestion.Resource = res.Name
			suggestion.Category = rule.Category
			suggestions = append(suggestions, *suggestion)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Rule < suggestions[j].Rule
	})
	return suggestions
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []rdstls.OptimizeSuggestion) rdstls.OptimizeSummary {
	summary := rdstls.OptimizeSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case CategorySecurity:
			summary.Security++
		case CategoryCost:
			summary.Cost++
		case CategoryReliability:
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}

// Rule represents an optimization rule.
type Rule struct {
	ID          string
	Category    string
	Title       string
	Description string
	Check       func(res resource) *rdstls.OptimizeSuggestion
}

// getRulesForType returns applicable rules for a resource type.
func getRulesForType(resourceType string) []Rule {
	switch resourceType {
	case "AWS::RDS::DBInstance":
		return rdsInstanceRules
	case "AWS::SecretsManager::Secret":
		return secretRules
	case "AWS::ElasticLoadBalancingV2::Listener":
		return listenerRules
	case "AWS::EC2::NatGateway":
		return natGatewayRules
	case "AWS::ECS::Service":
		return serviceRules
	case "AWS::Logs::LogGroup":
		return logGroupRules
	}
	return nil
}

// Rules returns every rule, ordered by ID.
func Rules() []Rule {
	var all []Rule
	for _, set := range [][]Rule{rdsInstanceRules, secretRules, listenerRules, natGatewayRules, serviceRules, logGroupRules} {
		all = append(all, set...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}
