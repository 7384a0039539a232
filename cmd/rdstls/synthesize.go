package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/internal/descriptor"
	"github.com/lex00/pgsql-rds-tls-go/internal/logging"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
	"github.com/lex00/pgsql-rds-tls-go/stack"
)

func newLogger() zerolog.Logger {
	return logging.New(os.Stderr, globals.verbose)
}

// synthesize loads the environment and settings named by the global flags
// and synthesizes the stack.
func synthesize(logger zerolog.Logger) (*stack.Assembly, error) {
	env, err := config.ReadEnvironment(globals.envFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", globals.envFile, err)
	}

	settings, err := config.Load(globals.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	asm, err := descriptor.Synthesize(env, settings)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("stack", asm.StackName).
		Str("environment", asm.Environment.String()).
		Int("resources", len(asm.Resources)).
		Msg("synthesized")
	return asm, nil
}

// deploymentRegion returns the configured region, or "" when it is unset or
// the environment file cannot be read.
func deploymentRegion() string {
	env, err := config.ReadEnvironment(globals.envFile)
	if err != nil {
		return ""
	}
	return env.Region
}

// encodeTemplate serializes t as json or yaml.
func encodeTemplate(t *rdstls.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(t)
	case "yaml":
		return template.ToYAML(t)
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// targetTemplate returns the template file named in args, or a fresh
// synthesis when args is empty.
func targetTemplate(args []string, logger zerolog.Logger) (*rdstls.Template, error) {
	if len(args) == 0 {
		asm, err := synthesize(logger)
		if err != nil {
			return nil, err
		}
		return asm.Template, nil
	}
	t, err := template.LoadTemplate(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	logger.Debug().Str("file", args[0]).Int("resources", len(t.Resources)).Msg("loaded template")
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
