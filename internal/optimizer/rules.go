package optimizer

import (
	"fmt"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
)

// rdsInstanceRules contains optimization rules for RDS instances.
var rdsInstanceRules = []Rule{
	{
		ID:          "OPT-RDS-001",
		Category:    CategoryReliability,
		Title:       "Database is deleted with the stack",
		Description: "A Delete policy destroys the database without a final snapshot",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			if res.Def.DeletionPolicy != "Delete" {
				return nil
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "high",
				Title:       "Database is deleted with the stack",
				Description: "The instance has DeletionPolicy Delete. Deleting or replacing the stack destroys all data without a final snapshot.",
				Suggestion:  "Set retainData: true in the settings to snapshot the database and retain its secret.",
			}
		},
	},
	{
		ID:          "OPT-RDS-002",
		Category:    CategoryReliability,
		Title:       "Database runs in a single availability zone",
		Description: "A single-AZ instance is unavailable during zone failures and maintenance",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			if multiAZ, _ := res.Def.Properties["MultiAZ"].(bool); multiAZ {
				return nil
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "medium",
				Title:       "Consider a Multi-AZ deployment",
				Description: "The instance has no standby in a second availability zone. Zone failures and some maintenance operations make it unavailable.",
				Suggestion:  "Set database.multiAZ: true in the settings.",
			}
		},
	},
	{
		ID:          "OPT-RDS-003",
		Category:    CategoryReliability,
		Title:       "Database backup retention is not set",
		Description: "Automated backups enable point-in-time recovery",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			v, ok := res.Def.Properties["BackupRetentionPeriod"]
			if !ok {
				return &rdstls.OptimizeSuggestion{
					Severity:    "low",
					Title:       "Set an explicit backup retention period",
					Description: "BackupRetentionPeriod is not set, so RDS keeps automated backups for 1 day.",
					Suggestion:  "Set database.backupRetentionDays in the settings (1-35).",
				}
			}
			if days, ok := serialize.Int(v); ok && days == 0 {
				return &rdstls.OptimizeSuggestion{
					Severity:    "high",
					Title:       "Automated backups are disabled",
					Description: "BackupRetentionPeriod is 0. Point-in-time recovery is not possible.",
					Suggestion:  "Set database.backupRetentionDays in the settings (1-35).",
				}
			}
			return nil
		},
	},
}

// secretRules contains optimization rules for Secrets Manager secrets.
var secretRules = []Rule{
	{
		ID:          "OPT-SM-001",
		Category:    CategorySecurity,
		Title:       "Secret is never rotated",
		Description: "Long-lived credentials increase the impact of a leak",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			for _, def := range res.Template.Resources {
				if def.Type != "AWS::SecretsManager::RotationSchedule" {
					continue
				}
				if ref, ok := def.Properties["SecretId"].(map[string]any); ok && ref["Ref"] == res.Name {
					return nil
				}
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "medium",
				Title:       "Consider enabling secret rotation",
				Description: "No rotation schedule targets this secret. The database password never changes.",
				Suggestion:  "Add an AWS::SecretsManager::RotationSchedule using the PostgreSQL single-user rotation function.",
			}
		},
	},
	{
		ID:          "OPT-SM-002",
		Category:    CategoryReliability,
		Title:       "Secret is deleted with the stack",
		Description: "The database credentials are lost when the stack is deleted",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			if res.Def.DeletionPolicy != "Delete" {
				return nil
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "medium",
				Title:       "Secret is deleted with the stack",
				Description: "The secret has DeletionPolicy Delete. A restored snapshot would have no credentials on record.",
				Suggestion:  "Set retainData: true in the settings.",
			}
		},
	},
}

// listenerRules contains optimization rules for load balancer listeners.
var listenerRules = []Rule{
	{
		ID:          "OPT-ELB-001",
		Category:    CategorySecurity,
		Title:       "Listener accepts plain HTTP",
		Description: "Traffic between clients and the load balancer is not encrypted",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			if res.Def.Properties["Protocol"] != "HTTP" {
				return nil
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "high",
				Title:       "Consider an HTTPS listener",
				Description: fmt.Sprintf("The listener on port %v uses HTTP. Client traffic crosses the internet unencrypted.", res.Def.Properties["Port"]),
				Suggestion:  "Add an HTTPS listener with an ACM certificate and redirect HTTP to it.",
			}
		},
	},
}

// natGatewayRules contains optimization rules for NAT gateways.
var natGatewayRules = []Rule{
	{
		ID:          "OPT-VPC-001",
		Category:    CategoryReliability,
		Title:       "Single NAT gateway",
		Description: "All private subnets lose outbound access if its availability zone fails",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			if countType(res.Template, "AWS::EC2::NatGateway") != 1 {
				return nil
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "low",
				Title:       "Only one NAT gateway serves every private subnet",
				Description: "Private subnets in other availability zones route through this gateway. A zone failure removes their outbound access.",
				Suggestion:  "Accept the risk for lower cost, or add one NAT gateway per availability zone.",
			}
		},
	},
}

// serviceRules contains optimization rules for ECS services.
var serviceRules = []Rule{
	{
		ID:          "OPT-ECS-001",
		Category:    CategoryReliability,
		Title:       "Service runs a single task",
		Description: "One task leaves no capacity during failures or deployments",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			count, ok := serialize.Int(res.Def.Properties["DesiredCount"])
			if !ok {
				// ECS starts one task when DesiredCount is unset.
				count = 1
			}
			if count > 1 {
				return nil
			}
			desc := fmt.Sprintf("The service's desired count is %d. A task failure makes the application unavailable until a replacement starts.", count)
			if count == 0 {
				desc = "The service's desired count is 0, so no tasks run and the application is unavailable."
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "medium",
				Title:       "Consider running at least two tasks",
				Description: desc,
				Suggestion:  "Set service.desiredCount: 2 or more in the settings.",
			}
		},
	},
}

// logGroupRules contains optimization rules for log groups.
var logGroupRules = []Rule{
	{
		ID:          "OPT-LOG-001",
		Category:    CategoryCost,
		Title:       "Log group keeps logs forever",
		Description: "Log storage grows without bound",
		Check: func(res resource) *rdstls.OptimizeSuggestion {
			if _, ok := res.Def.Properties["RetentionInDays"]; ok {
				return nil
			}
			return &rdstls.OptimizeSuggestion{
				Severity:    "low",
				Title:       "Set a log retention period",
				Description: "The log group has no RetentionInDays, so events are stored and billed indefinitely.",
				Suggestion:  "Set RetentionInDays on the log group.",
			}
		},
	},
}

func countType(t *rdstls.Template, resourceType string) int {
	n := 0
	for _, def := range t.Resources {
		if def.Type == resourceType {
			n++
		}
	}
	return n
}
