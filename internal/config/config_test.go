package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentFrom(t *testing.T) {
	tests := []struct {
		name     string
		vars     map[string]string
		agnostic bool
	}{
		{"unset", map[string]string{}, true},
		{"region only", map[string]string{EnvRegion: "eu-west-1"}, true},
		{"both", map[string]string{EnvAccount: "123456789012", EnvRegion: "eu-west-1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := EnvironmentFrom(func(k string) string { return tt.vars[k] })
			assert.Equal(t, tt.vars[EnvAccount], env.Account)
			assert.Equal(t, tt.vars[EnvRegion], env.Region)
			assert.Equal(t, tt.agnostic, env.IsAgnostic())
		})
	}
}

func TestEnvironmentFromEnv(t *testing.T) {
	t.Setenv(EnvAccount, "123456789012")
	t.Setenv(EnvRegion, "us-west-2")

	env := EnvironmentFromEnv()
	assert.Equal(t, "123456789012", env.Account)
	assert.Equal(t, "us-west-2", env.Region)
}

func TestReadEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvAccount+"=111111111111\n"+EnvRegion+"=ap-southeast-2\n"), 0644))

	tests := []struct {
		name        string
		path        string
		processEnv  map[string]string
		wantAccount string
		wantRegion  string
	}{
		{"no file", "", nil, "", ""},
		{"missing file", filepath.Join(dir, "missing.env"), nil, "", ""},
		{"file only", path, nil, "111111111111", "ap-southeast-2"},
		{"process wins", path, map[string]string{EnvRegion: "eu-west-1"}, "111111111111", "eu-west-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAccount, "")
			t.Setenv(EnvRegion, "")
			for k, v := range tt.processEnv {
				t.Setenv(k, v)
			}

			env, err := ReadEnvironment(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccount, env.Account)
			assert.Equal(t, tt.wantRegion, env.Region)
		})
	}
}

func TestReadEnvironment_ObservesEdits(t *testing.T) {
	t.Setenv(EnvAccount, "")
	t.Setenv(EnvRegion, "")
	path := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, os.WriteFile(path, []byte(EnvRegion+"=us-east-1\n"), 0644))
	env, err := ReadEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", env.Region)

	require.NoError(t, os.WriteFile(path, []byte(EnvRegion+"=us-west-2\n"), 0644))
	env, err = ReadEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", env.Region)
	assert.Empty(t, os.Getenv(EnvRegion))
}

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
	})

	t.Run("missing file", func(t *testing.T) {
		s, err := Load(filepath.Join(t.TempDir(), "rdstls.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
	})

	t.Run("overrides merge over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rdstls.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
database:
  instanceClass: db.t3.medium
service:
  desiredCount: 2
retainData: true
`), 0644))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "db.t3.medium", s.Database.InstanceClass)
		assert.Equal(t, "demodb", s.Database.Name)
		assert.Equal(t, 2, s.Service.DesiredCount)
		assert.Equal(t, 8080, s.Service.ContainerPort)
		assert.True(t, s.RetainData)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rdstls.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  forceSsl: false\n"), 0644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forceSsl")
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rdstls.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		message string
	}{
		{"bad db name", func(s *Settings) { s.Database.Name = "1demo" }, "database.name"},
		{"bad username", func(s *Settings) { s.Database.Username = "demo-user" }, "database.username"},
		{"bad instance class", func(s *Settings) { s.Database.InstanceClass = "t3.small" }, "database.instanceClass"},
		{"storage too small", func(s *Settings) { s.Database.AllocatedStorage = 10 }, "database.allocatedStorage"},
		{"max below allocated", func(s *Settings) { s.Database.MaxAllocatedStorage = 50 }, "database.maxAllocatedStorage"},
		{"retention too long", func(s *Settings) { s.Database.BackupRetentionDays = 36 }, "database.backupRetentionDays"},
		{"bad container port", func(s *Settings) { s.Service.ContainerPort = 70000 }, "service.containerPort"},
		{"container cpu above task", func(s *Settings) { s.Service.ContainerCPU = 512 }, "service.containerCpu"},
		{"container memory above task", func(s *Settings) { s.Service.ContainerMemory = 1024 }, "service.containerMemory"},
		{"negative desired count", func(s *Settings) { s.Service.DesiredCount = -1 }, "service.desiredCount"},
		{"relative health path", func(s *Settings) { s.HealthCheck.Path = "health" }, "healthCheck.path"},
		{"healthy threshold", func(s *Settings) { s.HealthCheck.HealthyThreshold = 1 }, "healthCheck.healthyThreshold"},
		{"timeout not below interval", func(s *Settings) { s.HealthCheck.TimeoutSeconds = 30 }, "must be less than intervalSeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
