package estimate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/internal/descriptor"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

func synth(t *testing.T, settings config.Settings) *rdstls.Template {
	t.Helper()
	asm, err := descriptor.Synthesize(stack.Environment{}, settings)
	require.NoError(t, err)
	return asm.Template
}

func monthlyOf(result *Result, resource, unit string) decimal.Decimal {
	for _, d := range result.Drivers {
		if d.Resource == resource && d.Unit == unit {
			return d.Monthly
		}
	}
	return decimal.Zero
}

func TestEstimate_Defaults(t *testing.T) {
	result := Estimate(synth(t, config.Defaults()), Options{})

	assert.Equal(t, "us-east-1", result.Region)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "268.02", result.Monthly.StringFixed(2))

	tests := []struct {
		resource string
		unit     string
		want     string
	}{
		{"PublicSubnet1NatGateway", "hours", "32.85"},
		{"PublicSubnet1Eip", "hours", "3.65"},
		{"SecretsManagerEndpoint", "endpoint-AZ hours", "14.60"},
		{"AppLoadBalancer", "hours", "16.43"},
		{"AppLoadBalancer", "address hours", "7.30"},
		{"DatabaseSecret", "secret-months", "0.40"},
		{"Database", "instance hours", "26.28"},
		{"Database", "GB-months", "11.50"},
		{"AppService", "vCPU hours", "7.39"},
		{"AppService", "GB hours", "1.62"},
	}
	for _, tt := range tests {
		t.Run(tt.resource+" "+tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, monthlyOf(result, tt.resource, tt.unit).StringFixed(2))
		})
	}
}

func TestEstimate_DriversSortedByCost(t *testing.T) {
	result := Estimate(synth(t, config.Defaults()), Options{})
	require.NotEmpty(t, result.Drivers)

	assert.Equal(t, "PublicSubnet1NatGateway", result.Drivers[0].Resource)
	for i := 1; i < len(result.Drivers); i++ {
		prev, cur := result.Drivers[i-1], result.Drivers[i]
		assert.False(t, cur.Monthly.GreaterThan(prev.Monthly), "%s after %s", cur.Resource, prev.Resource)
	}
}

func TestEstimate_MultiAZDoublesDatabase(t *testing.T) {
	settings := config.Defaults()
	settings.Database.MultiAZ = true
	result := Estimate(synth(t, settings), Options{})

	assert.Equal(t, "52.56", monthlyOf(result, "Database", "instance hours").StringFixed(2))
	assert.Equal(t, "23.00", monthlyOf(result, "Database", "GB-months").StringFixed(2))
}

func TestEstimate_DesiredCountScalesFargate(t *testing.T) {
	settings := config.Defaults()
	settings.Service.DesiredCount = 3
	result := Estimate(synth(t, settings), Options{})

	assert.Equal(t, "22.16", monthlyOf(result, "AppService", "vCPU hours").StringFixed(2))
}

func TestEstimate_UnknownClassWarns(t *testing.T) {
	settings := config.Defaults()
	settings.Database.InstanceClass = "db.x2iedn.32xlarge"
	result := Estimate(synth(t, settings), Options{})

	assert.True(t, monthlyOf(result, "Database", "instance hours").IsZero())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "db.x2iedn.32xlarge")
}

func TestEstimate_RegionMismatchWarns(t *testing.T) {
	result := Estimate(synth(t, config.Defaults()), Options{Region: "eu-west-1"})

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "eu-west-1")
}

func TestEstimate_ParsedTemplate(t *testing.T) {
	tmpl := synth(t, config.Defaults())
	data, err := template.ToJSON(tmpl)
	require.NoError(t, err)
	parsed, err := template.Parse(data)
	require.NoError(t, err)

	want := Estimate(tmpl, Options{})
	got := Estimate(parsed, Options{})
	assert.True(t, want.Monthly.Equal(got.Monthly), "want %s, got %s", want.Monthly, got.Monthly)
	assert.Empty(t, got.Warnings)
}

func TestEstimate_CustomRates(t *testing.T) {
	rates := DefaultRates()
	rates.Region = "eu-west-1"
	rates.NATGatewayHour = decimal.RequireFromString("0.048")

	result := Estimate(synth(t, config.Defaults()), Options{Rates: rates, Region: "eu-west-1"})
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "35.04", monthlyOf(result, "PublicSubnet1NatGateway", "hours").StringFixed(2))
}

func TestEstimate_ServiceWithoutTaskDefinition(t *testing.T) {
	tmpl := &rdstls.Template{
		Resources: map[string]rdstls.ResourceDef{
			"AppService": {
				Type: "AWS::ECS::Service",
				Properties: map[string]any{
					"LaunchType":     "FARGATE",
					"TaskDefinition": "arn:aws:ecs:us-east-1:123456789012:task-definition/app:1",
				},
			},
		},
	}

	result := Estimate(tmpl, Options{})
	assert.Empty(t, result.Drivers)
	assert.True(t, result.Monthly.IsZero())
	assert.True(t, result.Hourly.IsZero())
	require.Len(t, result.Warnings, 1)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{int64(100), "100", true},
		{float64(100), "100", true},
		{"256", "256", true},
		{" 512 ", "512", true},
		{"abc", "0", false},
		{map[string]any{"Ref": "Size"}, "0", false},
	}
	for _, tt := range tests {
		got, ok := number(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got.String(), "%v", tt.in)
	}
}
