package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings are the overridable values of the deployment descriptor.
// Force-TLS and storage encryption are not settings; they always apply.
type Settings struct {
	Database    DatabaseSettings    `yaml:"database"`
	Service     ServiceSettings     `yaml:"service"`
	HealthCheck HealthCheckSettings `yaml:"healthCheck"`

	// RetainData keeps the database (snapshot) and secret when the stack is
	// deleted or the resources are replaced.
	RetainData bool `yaml:"retainData"`
}

// DatabaseSettings configure the PostgreSQL instance and its secret.
type DatabaseSettings struct {
	Name                string `yaml:"name"`
	Username            string `yaml:"username"`
	InstanceClass       string `yaml:"instanceClass"`
	EngineVersion       string `yaml:"engineVersion"`
	AllocatedStorage    int    `yaml:"allocatedStorage"`
	MaxAllocatedStorage int    `yaml:"maxAllocatedStorage"`
	BackupRetentionDays int    `yaml:"backupRetentionDays"`
	MultiAZ             bool   `yaml:"multiAZ"`
}

// ServiceSettings configure the Fargate service and its container.
type ServiceSettings struct {
	ContainerName   string `yaml:"containerName"`
	ContainerPort   int    `yaml:"containerPort"`
	ContainerCPU    int    `yaml:"containerCpu"`
	ContainerMemory int    `yaml:"containerMemory"`
	TaskCPU         int    `yaml:"taskCpu"`
	TaskMemory      int    `yaml:"taskMemory"`
	DesiredCount    int    `yaml:"desiredCount"`
	ImageRepository string `yaml:"imageRepository"`
	ImageTag        string `yaml:"imageTag"`
	LogStreamPrefix string `yaml:"logStreamPrefix"`
	ListenerPort    int    `yaml:"listenerPort"`
}

// HealthCheckSettings configure the target group health check.
type HealthCheckSettings struct {
	Path               string `yaml:"path"`
	HealthyThreshold   int    `yaml:"healthyThreshold"`
	UnhealthyThreshold int    `yaml:"unhealthyThreshold"`
	TimeoutSeconds     int    `yaml:"timeoutSeconds"`
	IntervalSeconds    int    `yaml:"intervalSeconds"`
}

// Defaults returns the settings of the reference deployment.
func Defaults() Settings {
	return Settings{
		Database: DatabaseSettings{
			Name:                "demodb",
			Username:            "demouser",
			InstanceClass:       "db.t3.small",
			EngineVersion:       "16",
			AllocatedStorage:    100,
			MaxAllocatedStorage: 200,
		},
		Service: ServiceSettings{
			ContainerName:   "my-app-container",
			ContainerPort:   8080,
			ContainerCPU:    256,
			ContainerMemory: 256,
			TaskCPU:         256,
			TaskMemory:      512,
			DesiredCount:    1,
			ImageRepository: "rdstls",
			ImageTag:        "latest",
			LogStreamPrefix: "my-pgsql-rds-tls-service",
			ListenerPort:    80,
		},
		HealthCheck: HealthCheckSettings{
			Path:               "/",
			HealthyThreshold:   2,
			UnhealthyThreshold: 10,
			TimeoutSeconds:     20,
			IntervalSeconds:    30,
		},
	}
}

// Load reads settings from a YAML file over the defaults. An empty path or
// a missing file yields the defaults. Unknown keys are an error.
func Load(path string) (Settings, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML settings over the defaults and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every setting is within the range CloudFormation and
// the services accept.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := s.Database
	check(isIdentifier(db.Name, 63), "database.name %q must start with a letter and contain only letters, digits and underscores (max 63)", db.Name)
	check(isIdentifier(db.Username, 63), "database.username %q must start with a letter and contain only letters, digits and underscores (max 63)", db.Username)
	check(strings.HasPrefix(db.InstanceClass, "db."), "database.instanceClass %q must start with db.", db.InstanceClass)
	check(db.EngineVersion != "", "database.engineVersion is required")
	check(db.AllocatedStorage >= 20 && db.AllocatedStorage <= 65536, "database.allocatedStorage %d must be between 20 and 65536 GiB", db.AllocatedStorage)
	check(db.MaxAllocatedStorage == 0 || db.MaxAllocatedStorage >= db.AllocatedStorage,
		"database.maxAllocatedStorage %d must be at least allocatedStorage %d", db.MaxAllocatedStorage, db.AllocatedStorage)
	check(db.BackupRetentionDays >= 0 && db.BackupRetentionDays <= 35, "database.backupRetentionDays %d must be between 0 and 35", db.BackupRetentionDays)

	svc := s.Service
	check(svc.ContainerName != "", "service.containerName is required")
	check(isPort(svc.ContainerPort), "service.containerPort %d must be between 1 and 65535", svc.ContainerPort)
	check(isPort(svc.ListenerPort), "service.listenerPort %d must be between 1 and 65535", svc.ListenerPort)
	check(svc.ContainerCPU > 0 && svc.ContainerCPU <= svc.TaskCPU, "service.containerCpu %d must be positive and at most taskCpu %d", svc.ContainerCPU, svc.TaskCPU)
	check(svc.ContainerMemory > 0 && svc.ContainerMemory <= svc.TaskMemory, "service.containerMemory %d must be positive and at most taskMemory %d", svc.ContainerMemory, svc.TaskMemory)
	check(svc.DesiredCount >= 0, "service.desiredCount %d must not be negative", svc.DesiredCount)
	check(svc.ImageRepository != "", "service.imageRepository is required")
	check(svc.ImageTag != "", "service.imageTag is required")

	hc := s.HealthCheck
	check(strings.HasPrefix(hc.Path, "/"), "healthCheck.path %q must start with /", hc.Path)
	check(hc.HealthyThreshold >= 2 && hc.HealthyThreshold <= 10, "healthCheck.healthyThreshold %d must be between 2 and 10", hc.HealthyThreshold)
	check(hc.UnhealthyThreshold >= 2 && hc.UnhealthyThreshold <= 10, "healthCheck.unhealthyThreshold %d must be between 2 and 10", hc.UnhealthyThreshold)
	check(hc.TimeoutSeconds >= 2 && hc.TimeoutSeconds <= 120, "healthCheck.timeoutSeconds %d must be between 2 and 120", hc.TimeoutSeconds)
	check(hc.IntervalSeconds >= 5 && hc.IntervalSeconds <= 300, "healthCheck.intervalSeconds %d must be between 5 and 300", hc.IntervalSeconds)
	check(hc.TimeoutSeconds < hc.IntervalSeconds, "healthCheck.timeoutSeconds %d must be less than intervalSeconds %d", hc.TimeoutSeconds, hc.IntervalSeconds)

	return errors.Join(errs...)
}

func isPort(p int) bool {
	return p >= 1 && p <= 65535
}

func isIdentifier(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_'):
		default:
			return false
		}
	}
	return true
}
