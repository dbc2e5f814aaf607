// Package config contains the loader and strongly typed model for deploy.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PipelineConfig describes a deployment pipeline: the application, its
// manifest templates, the hook task lists run around the apply step, and the
// cluster environments it can target.
type PipelineConfig struct {
	// App is the application name used as the default workload name.
	App string `yaml:"app"`
	// TemplateDir is the manifest template directory relative to the config file.
	TemplateDir string `yaml:"templateDir"`
	// OutputDir is where rendered manifests are written.
	OutputDir string `yaml:"outputDir,omitempty"`
	// RequiredValues lists value keys that must be present before any stage runs.
	RequiredValues []string `yaml:"requiredValues,omitempty"`
	// Hooks configures the pre- and post-deploy task lists.
	Hooks HooksConfig `yaml:"hooks,omitempty"`
	// Environments contains cluster connection settings per environment.
	Environments map[string]Environment `yaml:"environments,omitempty"`
	// Timeouts holds string-form durations for bounded operations.
	Timeouts Timeouts `yaml:"timeouts,omitempty"`

	// baseDir is the directory containing the config file, for path resolution.
	baseDir string
}

// HooksConfig describes how hook task lists are executed.
type HooksConfig struct {
	// Engine is the automation engine binary (default ansible-playbook).
	Engine string `yaml:"engine,omitempty"`
	// Dir is the working directory for task list execution.
	Dir string `yaml:"dir,omitempty"`
	// Inventory is an optional inventory path passed to the engine.
	Inventory string `yaml:"inventory,omitempty"`
	// PreDeploy is the task list run before manifests are applied.
	PreDeploy string `yaml:"preDeploy,omitempty"`
	// PostDeploy is the task list run after the rollout becomes ready.
	PostDeploy string `yaml:"postDeploy,omitempty"`
}

// Environment describes environment-level cluster connection settings.
type Environment struct {
	// Kubeconfig is the path to the kubeconfig file to use.
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	// Context selects the kubeconfig context name.
	Context string `yaml:"context,omitempty"`
	// Namespace is the default target namespace for the environment.
	Namespace string `yaml:"namespace,omitempty"`
	// From references another environment to inherit from.
	From string `yaml:"from,omitempty"`
}

// Timeouts holds string-form durations for pipeline operations.
// Empty values fall back to built-in defaults.
type Timeouts struct {
	// Rollout bounds the wait for a workload rollout (e.g. "5m").
	Rollout string `yaml:"rollout,omitempty"`
	// Deploy bounds one whole deploy invocation (e.g. "15m").
	Deploy string `yaml:"deploy,omitempty"`
}

const (
	// DefaultOutputDir is where rendered manifests land when unconfigured.
	DefaultOutputDir = "build/manifests"
	// DefaultRolloutTimeout bounds the rollout wait when unconfigured.
	DefaultRolloutTimeout = 5 * time.Minute
	// DefaultDeployTimeout bounds a whole deploy invocation when unconfigured.
	DefaultDeployTimeout = 15 * time.Minute
)

// Load reads, parses and validates a deploy.yaml pipeline configuration.
func Load(path string) (*PipelineConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", absPath, err)
	}

	var cfg PipelineConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", absPath, err)
	}
	cfg.baseDir = filepath.Dir(absPath)

	if cfg.App == "" {
		return nil, fmt.Errorf("config %q: app must be set", absPath)
	}
	if cfg.TemplateDir == "" {
		return nil, fmt.Errorf("config %q: templateDir must be set", absPath)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	return &cfg, nil
}

// ResolveEnvironment returns the effective settings for the named environment,
// applying single-level "from" inheritance. An empty name resolves to a zero
// Environment so commands can run against the ambient kubeconfig.
func ResolveEnvironment(cfg *PipelineConfig, name string) (Environment, error) {
	if name == "" {
		return Environment{}, nil
	}
	if cfg == nil || cfg.Environments == nil {
		return Environment{}, fmt.Errorf("environment %q is not defined", name)
	}

	envCfg, ok := cfg.Environments[name]
	if !ok {
		return Environment{}, fmt.Errorf("environment %q is not defined", name)
	}

	if envCfg.From != "" {
		parent, ok := cfg.Environments[envCfg.From]
		if !ok {
			return Environment{}, fmt.Errorf("environment %q inherits from unknown environment %q", name, envCfg.From)
		}
		if envCfg.Kubeconfig == "" {
			envCfg.Kubeconfig = parent.Kubeconfig
		}
		if envCfg.Context == "" {
			envCfg.Context = parent.Context
		}
		if envCfg.Namespace == "" {
			envCfg.Namespace = parent.Namespace
		}
	}

	return envCfg, nil
}

// TemplatePath resolves the template directory against the config location.
func (c *PipelineConfig) TemplatePath() string {
	return c.resolvePath(c.TemplateDir)
}

// OutputPath resolves the output directory against the config location.
func (c *PipelineConfig) OutputPath() string {
	return c.resolvePath(c.OutputDir)
}

// InventoryPath resolves the hook inventory path against the config location.
func (c *PipelineConfig) InventoryPath() string {
	return c.resolvePath(c.Hooks.Inventory)
}

// HooksDir resolves the hook working directory against the config location.
func (c *PipelineConfig) HooksDir() string {
	if c.Hooks.Dir == "" {
		return c.baseDir
	}
	return c.resolvePath(c.Hooks.Dir)
}

func (c *PipelineConfig) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// RolloutTimeout parses the configured rollout timeout or returns the default.
func (c *PipelineConfig) RolloutTimeout() time.Duration {
	return parseTimeout(c.Timeouts.Rollout, DefaultRolloutTimeout)
}

// DeployTimeout parses the configured deploy timeout or returns the default.
func (c *PipelineConfig) DeployTimeout() time.Duration {
	return parseTimeout(c.Timeouts.Deploy, DefaultDeployTimeout)
}

func parseTimeout(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
