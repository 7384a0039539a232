// Package config loads the deployment environment and descriptor settings.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/lex00/pgsql-rds-tls-go/stack"
)

// Environment variables naming the deployment target.
const (
	EnvAccount = "CDK_DEFAULT_ACCOUNT"
	EnvRegion  = "CDK_DEFAULT_REGION"
)

// EnvironmentFromEnv reads the target account and region from the process
// environment. Unset values leave the environment agnostic.
func EnvironmentFromEnv() stack.Environment {
	return EnvironmentFrom(os.Getenv)
}

// EnvironmentFrom reads the target account and region through getenv.
func EnvironmentFrom(getenv func(string) string) stack.Environment {
	return stack.Environment{
		Account: getenv(EnvAccount),
		Region:  getenv(EnvRegion),
	}
}

// ReadEnvironment reads the target account and region from the process
// environment, falling back to the variables of the .env file at path. A
// missing file is not an error. The process environment is not modified, so
// repeated reads observe edits to the file.
func ReadEnvironment(path string) (stack.Environment, error) {
	vars := map[string]string{}
	if path != "" {
		read, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return stack.Environment{}, err
		}
		if read != nil {
			vars = read
		}
	}
	return EnvironmentFrom(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return vars[key]
	}), nil
}
