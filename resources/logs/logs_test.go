package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
)

func TestLogGroup(t *testing.T) {
	assert.Equal(t, "AWS::Logs::LogGroup", LogGroup{}.ResourceType())

	props, err := serialize.Resource(&LogGroup{RetentionInDays: 30})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"RetentionInDays": int64(30)}, props)
}
