package descriptor

import (
	"encoding/json"

	"github.com/lex00/pgsql-rds-tls-go/resources/secretsmanager"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

// Generated password constraints. The excluded characters break PostgreSQL
// connection strings.
const (
	PasswordLength            = 28
	PasswordExcludeCharacters = "/@\" "
	PasswordKey               = "password"
)

// SecretFields are the secret keys injected into the container, by
// environment variable name, in injection order.
var SecretFields = []struct {
	Env   string
	Field string
}{
	{"DB_HOST", "host"},
	{"DB_PORT", "port"},
	{"DB_NAME", "dbname"},
	{"DB_USERNAME", "username"},
	{"DB_PASSWORD", "password"},
}

func (d *deployment) secret() *secretsmanager.Secret {
	db := d.settings.Database

	// The username is fixed at declaration time; the password is generated
	// by Secrets Manager when the secret is created.
	tmpl, _ := json.Marshal(map[string]string{"username": db.Username})

	return stack.Add(d.s, "DatabaseSecret", &secretsmanager.Secret{
		Name:        db.Name,
		Description: db.Name + " secret",
		GenerateSecretString: &secretsmanager.Secret_GenerateSecretString{
			SecretStringTemplate: string(tmpl),
			GenerateStringKey:    PasswordKey,
			PasswordLength:       PasswordLength,
			ExcludeCharacters:    PasswordExcludeCharacters,
		},
	}, stack.RemovalPolicy(d.removalPolicy(stack.PolicyRetain)))
}
