package descriptor

import (
	"strings"

	"github.com/lex00/pgsql-rds-tls-go/intrinsics"
	"github.com/lex00/pgsql-rds-tls-go/resources/ec2"
	"github.com/lex00/pgsql-rds-tls-go/resources/rds"
	"github.com/lex00/pgsql-rds-tls-go/resources/secretsmanager"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

// ForceSSLParameter is the PostgreSQL parameter that rejects unencrypted
// connections. It is always set to "1".
const ForceSSLParameter = "rds.force_ssl"

// PostgresPort is the default PostgreSQL port.
const PostgresPort = 5432

type database struct {
	instance      *rds.DBInstance
	securityGroup *ec2.SecurityGroup
}

func (d *deployment) database(n *network, secret *secretsmanager.Secret) *database {
	s := d.s
	db := d.settings.Database

	subnetGroup := stack.Add(s, "DatabaseSubnetGroup", &rds.DBSubnetGroup{
		DBSubnetGroupDescription: "Subnet group for " + db.Name,
		SubnetIds:                n.privateSubnetIDs(),
	})

	sg := stack.Add(s, "DatabaseSecurityGroup", &ec2.SecurityGroup{
		GroupDescription:    "Security group for " + db.Name,
		VpcId:               n.vpc,
		SecurityGroupEgress: []ec2.SecurityGroup_Egress{allowAllOutbound()},
		Tags:                nameTag("database/SecurityGroup"),
	})

	params := stack.Add(s, "DatabaseParameterGroup", &rds.DBParameterGroup{
		Description: "Parameter group for " + db.Name + " enforcing TLS",
		Family:      parameterGroupFamily(db.EngineVersion),
		Parameters: intrinsics.Json{
			ForceSSLParameter: "1",
		},
	})

	retain := d.removalPolicy(stack.PolicySnapshot)
	instance := stack.Add(s, "Database", &rds.DBInstance{
		DBInstanceIdentifier:  db.Name,
		DBName:                db.Name,
		Engine:                "postgres",
		EngineVersion:         db.EngineVersion,
		DBInstanceClass:       db.InstanceClass,
		AllocatedStorage:      itoa(db.AllocatedStorage),
		MaxAllocatedStorage:   optional(db.MaxAllocatedStorage),
		StorageType:           "gp2",
		StorageEncrypted:      true,
		PubliclyAccessible:    false,
		MultiAZ:               db.MultiAZ,
		BackupRetentionPeriod: optional(db.BackupRetentionDays),
		CopyTagsToSnapshot:    true,
		DeletionProtection:    d.settings.RetainData,
		MasterUsername:        intrinsics.ResolveSecret(secret, "username"),
		MasterUserPassword:    intrinsics.ResolveSecret(secret, "password"),
		DBSubnetGroupName:     subnetGroup,
		DBParameterGroupName:  params,
		VPCSecurityGroups:     []any{sg.GroupId},
	}, stack.RemovalPolicy(retain))

	// Completes the secret with the connection fields once the instance exists.
	stack.Add(s, "DatabaseSecretAttachment", &secretsmanager.SecretTargetAttachment{
		SecretId:   secret,
		TargetId:   instance,
		TargetType: "AWS::RDS::DBInstance",
	})

	return &database{instance: instance, securityGroup: sg}
}

// parameterGroupFamily maps an engine version to its parameter group family:
// "16" and "16.3" map to postgres16, "9.6.x" maps to postgres9.6.
func parameterGroupFamily(version string) string {
	parts := strings.Split(version, ".")
	major := parts[0]
	if major == "9" && len(parts) > 1 {
		major += "." + parts[1]
	}
	return "postgres" + major
}
