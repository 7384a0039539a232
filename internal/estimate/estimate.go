// Package estimate prices a synthesized template against a static on-demand
// rate card. Usage-priced dimensions (data transfer, load balancer capacity
// units, log ingestion, secret API calls) are not included.
package estimate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/serialize"
)

// HoursPerMonth is the billing month used for hourly rates.
const HoursPerMonth = 730

// Rates is an on-demand price list for one region, in USD.
type Rates struct {
	Region string

	NATGatewayHour        decimal.Decimal
	PublicIPv4Hour        decimal.Decimal
	LoadBalancerHour      decimal.Decimal
	InterfaceEndpointHour decimal.Decimal // per endpoint per AZ
	FargateVCPUHour       decimal.Decimal
	FargateGBHour         decimal.Decimal
	SecretMonth           decimal.Decimal

	// RDSInstanceHour is the single-AZ PostgreSQL price per instance class.
	RDSInstanceHour map[string]decimal.Decimal
	// RDSStorageGBMonth is the single-AZ price per storage type.
	RDSStorageGBMonth map[string]decimal.Decimal
}

// DefaultRates returns us-east-1 on-demand prices.
func DefaultRates() Rates {
	d := decimal.RequireFromString
	return Rates{
		Region:                "us-east-1",
		NATGatewayHour:        d("0.045"),
		PublicIPv4Hour:        d("0.005"),
		LoadBalancerHour:      d("0.0225"),
		InterfaceEndpointHour: d("0.01"),
		FargateVCPUHour:       d("0.04048"),
		FargateGBHour:         d("0.004445"),
		SecretMonth:           d("0.40"),
		RDSInstanceHour: map[string]decimal.Decimal{
			"db.t3.micro":   d("0.018"),
			"db.t3.small":   d("0.036"),
			"db.t3.medium":  d("0.072"),
			"db.t3.large":   d("0.145"),
			"db.t4g.micro":  d("0.016"),
			"db.t4g.small":  d("0.032"),
			"db.t4g.medium": d("0.065"),
			"db.t4g.large":  d("0.129"),
			"db.m5.large":   d("0.178"),
			"db.m6g.large":  d("0.159"),
			"db.m7g.large":  d("0.168"),
			"db.r6g.large":  d("0.225"),
		},
		RDSStorageGBMonth: map[string]decimal.Decimal{
			"gp2":      d("0.115"),
			"gp3":      d("0.115"),
			"standard": d("0.10"),
			"io1":      d("0.125"),
		},
	}
}

// Options configures Estimate.
type Options struct {
	Rates Rates
	// Region the template will be deployed to. A region other than the
	// rate card's produces a warning.
	Region string
}

// Driver explains a single cost line item.
type Driver struct {
	Resource    string          `json:"resource"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Monthly     decimal.Decimal `json:"monthly"`
	Formula     string          `json:"formula"`
}

// Result is the monthly estimate of a template.
type Result struct {
	Region   string          `json:"region"`
	Monthly  decimal.Decimal `json:"monthly"`
	Hourly   decimal.Decimal `json:"hourly"`
	Drivers  []Driver        `json:"drivers"`
	Warnings []string        `json:"warnings"`
}

// Estimate returns the monthly cost of t. Drivers are sorted by cost, highest
// first. Anything that cannot be priced produces a warning and no driver.
func Estimate(t *rdstls.Template, opts Options) *Result {
	rates := opts.Rates
	if rates.Region == "" {
		rates = DefaultRates()
	}

	e := &estimator{
		t:     t,
		rates: rates,
		result: &Result{
			Region:   rates.Region,
			Monthly:  decimal.Zero,
			Hourly:   decimal.Zero,
			Drivers:  []Driver{},
			Warnings: []string{},
		},
	}
	if opts.Region != "" && opts.Region != rates.Region {
		e.warn("prices are for %s, not %s", rates.Region, opts.Region)
	}

	for _, name := range t.ResourceNames() {
		e.resource(name, t.Resources[name])
	}

	for _, d := range e.result.Drivers {
		e.result.Monthly = e.result.Monthly.Add(d.Monthly)
	}
	e.result.Monthly = e.result.Monthly.Round(2)
	if !e.result.Monthly.IsZero() {
		e.result.Hourly = e.result.Monthly.Div(decimal.NewFromInt(HoursPerMonth)).Round(4)
	}

	sort.SliceStable(e.result.Drivers, func(i, j int) bool {
		a, b := e.result.Drivers[i], e.result.Drivers[j]
		if !a.Monthly.Equal(b.Monthly) {
			return a.Monthly.GreaterThan(b.Monthly)
		}
		return a.Resource < b.Resource
	})
	return e.result
}

type estimator struct {
	t      *rdstls.Template
	rates  Rates
	result *Result
}

func (e *estimator) warn(format string, args ...any) {
	e.result.Warnings = append(e.result.Warnings, fmt.Sprintf(format, args...))
}

func (e *estimator) add(name, resourceType, description string, quantity decimal.Decimal, unit string, price decimal.Decimal) {
	monthly := quantity.Mul(price).Round(2)
	e.result.Drivers = append(e.result.Drivers, Driver{
		Resource:    name,
		Type:        resourceType,
		Description: description,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   price,
		Monthly:     monthly,
		Formula: fmt.Sprintf("%s %s × $%s = $%s",
			quantity.String(), unit, price.String(), monthly.StringFixed(2)),
	})
}

func (e *estimator) resource(name string, def rdstls.ResourceDef) {
	hours := decimal.NewFromInt(HoursPerMonth)
	props := def.Properties

	switch def.Type {
	case "AWS::EC2::NatGateway":
		e.add(name, def.Type, "NAT gateway", hours, "hours", e.rates.NATGatewayHour)

	case "AWS::EC2::EIP":
		e.add(name, def.Type, "public IPv4 address", hours, "hours", e.rates.PublicIPv4Hour)

	case "AWS::EC2::VPCEndpoint":
		if props["VpcEndpointType"] != "Interface" {
			return
		}
		azs := decimal.NewFromInt(int64(len(serialize.List(props["SubnetIds"]))))
		e.add(name, def.Type, "interface endpoint", hours.Mul(azs), "endpoint-AZ hours", e.rates.InterfaceEndpointHour)

	case "AWS::ElasticLoadBalancingV2::LoadBalancer":
		e.add(name, def.Type, "load balancer", hours, "hours", e.rates.LoadBalancerHour)
		if props["Scheme"] != "internal" {
			ips := decimal.NewFromInt(int64(len(serialize.List(props["Subnets"]))))
			e.add(name, def.Type, "load balancer public IPv4 addresses", hours.Mul(ips), "address hours", e.rates.PublicIPv4Hour)
		}

	case "AWS::SecretsManager::Secret":
		e.add(name, def.Type, "secret", decimal.NewFromInt(1), "secret-months", e.rates.SecretMonth)

	case "AWS::RDS::DBInstance":
		e.database(name, def, hours)

	case "AWS::ECS::Service":
		e.service(name, def, hours)
	}
}

func (e *estimator) database(name string, def rdstls.ResourceDef, hours decimal.Decimal) {
	props := def.Properties
	copies := decimal.NewFromInt(1)
	deployment := "single-AZ"
	if multiAZ, _ := props["MultiAZ"].(bool); multiAZ {
		copies = decimal.NewFromInt(2)
		deployment = "Multi-AZ"
	}

	class, _ := props["DBInstanceClass"].(string)
	if price, ok := e.rates.RDSInstanceHour[class]; ok {
		e.add(name, def.Type, fmt.Sprintf("%s %s instance", deployment, class), hours.Mul(copies), "instance hours", price)
	} else {
		e.warn("%s: no price for instance class %q", name, class)
	}

	storage, ok := number(props["AllocatedStorage"])
	if !ok {
		e.warn("%s: allocated storage is not a literal number", name)
		return
	}
	storageType, _ := props["StorageType"].(string)
	if storageType == "" {
		storageType = "gp2"
	}
	price, ok := e.rates.RDSStorageGBMonth[storageType]
	if !ok {
		e.warn("%s: no price for storage type %q", name, storageType)
		return
	}
	e.add(name, def.Type, fmt.Sprintf("%s %s storage", deployment, storageType), storage.Mul(copies), "GB-months", price)
}

func (e *estimator) service(name string, def rdstls.ResourceDef, hours decimal.Decimal) {
	props := def.Properties
	if props["LaunchType"] != "FARGATE" {
		e.warn("%s: only Fargate services are priced", name)
		return
	}
	count, ok := number(props["DesiredCount"])
	if !ok {
		count = decimal.NewFromInt(1)
	}

	taskName := serialize.RefTarget(props["TaskDefinition"])
	task, ok := e.t.Resources[taskName]
	if !ok {
		e.warn("%s: task definition is not declared in the template", name)
		return
	}
	cpu, cok := number(task.Properties["Cpu"])
	memory, mok := number(task.Properties["Memory"])
	if !cok || !mok {
		e.warn("%s: task %s has no literal Cpu and Memory", name, taskName)
		return
	}

	taskHours := hours.Mul(count)
	vcpu := cpu.Div(decimal.NewFromInt(1024))
	gb := memory.Div(decimal.NewFromInt(1024))
	e.add(name, def.Type, fmt.Sprintf("Fargate %s vCPU × %s tasks", vcpu.String(), count.String()), taskHours.Mul(vcpu), "vCPU hours", e.rates.FargateVCPUHour)
	e.add(name, def.Type, fmt.Sprintf("Fargate %s GB × %s tasks", gb.String(), count.String()), taskHours.Mul(gb), "GB hours", e.rates.FargateGBHour)
}

// number reads a literal number from a synthesized (int64) or parsed
// (float64) template, or a numeric string. Unlike serialize.Int it keeps
// fractional values.
func number(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	return decimal.Zero, false
}
