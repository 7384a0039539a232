package secretsmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource rdstls.Resource
		expected string
	}{
		{"Secret", Secret{}, "AWS::SecretsManager::Secret"},
		{"SecretTargetAttachment", SecretTargetAttachment{}, "AWS::SecretsManager::SecretTargetAttachment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestSecretSerialization(t *testing.T) {
	props, err := serialize.Resource(&Secret{
		Name: "demodb",
		GenerateSecretString: &Secret_GenerateSecretString{
			SecretStringTemplate: `{"username":"demouser"}`,
			GenerateStringKey:    "password",
			PasswordLength:       28,
			ExcludeCharacters:    "/@\" ",
		},
	})
	require.NoError(t, err)

	gen, ok := props["GenerateSecretString"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "password", gen["GenerateStringKey"])
	assert.Equal(t, int64(28), gen["PasswordLength"])
	assert.Equal(t, "/@\" ", gen["ExcludeCharacters"])
	assert.NotContains(t, gen, "ExcludePunctuation")
}
