package yamlenv

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Env is a YAML scalar whose value may reference environment variables
// with ${VAR} syntax. Expansion happens at unmarshal time, so the config
// file stays declarative and secrets stay in the environment.
type Env[T any] struct {
	Value T
}

func (e *Env[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("yamlenv: expected scalar node, got kind %d", node.Kind)
	}

	raw := os.ExpandEnv(node.Value)

	switch p := any(&e.Value).(type) {
	case *string:
		*p = raw
	case *int:
		if raw == "" {
			*p = 0
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("yamlenv: parse int %q: %w", raw, err)
		}
		*p = v
	case *bool:
		if raw == "" {
			*p = false
			return nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("yamlenv: parse bool %q: %w", raw, err)
		}
		*p = v
	case *float64:
		if raw == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("yamlenv: parse float %q: %w", raw, err)
		}
		*p = v
	default:
		if err := yaml.Unmarshal([]byte(raw), &e.Value); err != nil {
			return fmt.Errorf("yamlenv: unmarshal %q: %w", raw, err)
		}
	}

	return nil
}

func (e *Env[T]) MarshalYAML() (any, error) {
	return e.Value, nil
}
