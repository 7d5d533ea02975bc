package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

// ArtifactsEnv names the environment variable that supplies the default artifacts directory.
const ArtifactsEnv = "WASITEST_ARTIFACTS"

// EngineConfig selects and configures the engine programs are run with.
type EngineConfig struct {
	// Kind is "wazero", "wasmtime", or "command".
	Kind string `yaml:"kind"`

	Command      []string `yaml:"command,omitempty"`
	Args         []string `yaml:"args,omitempty"`
	EnvFlag      string   `yaml:"env_flag,omitempty"`
	DirFlag      string   `yaml:"dir_flag,omitempty"`
	DirSeparator string   `yaml:"dir_separator,omitempty"`
	TrapExitCode int      `yaml:"trap_exit_code,omitempty"`
}

// Config is the harness configuration file.
type Config struct {
	Artifacts   string        `yaml:"artifacts"`
	Engine      EngineConfig  `yaml:"engine"`
	Kinds       []string      `yaml:"kinds,omitempty"`
	Parallelism int           `yaml:"parallelism,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Network     bool          `yaml:"network,omitempty"`

	// Skip and Expectations are keyed by program name or identifier.
	Skip         map[string]string      `yaml:"skip,omitempty"`
	Expectations map[string]Expectation `yaml:"expectations,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Artifacts: os.Getenv(ArtifactsEnv),
		Engine:    EngineConfig{Kind: "wazero"},
		Timeout:   2 * time.Minute,
	}
}

// LoadConfig reads a configuration file on top of the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return config, nil
}

// Validate checks the engine kind, the binary kinds, and the program names used as skip and expectation keys.
func (c *Config) Validate() error {
	switch c.Engine.Kind {
	case "wazero", "wasmtime":
	case "command":
		if len(c.Engine.Command) == 0 {
			return errors.New("engine: command engines require a command")
		}
	default:
		return fmt.Errorf("engine: unknown kind %q", c.Engine.Kind)
	}
	for _, k := range c.Kinds {
		if _, err := artifacts.ParseKind(k); err != nil {
			return err
		}
	}
	for name := range c.Skip {
		if _, _, err := artifacts.Lookup(name); err != nil {
			return fmt.Errorf("skip: %w", err)
		}
	}
	for name := range c.Expectations {
		if _, _, err := artifacts.Lookup(name); err != nil {
			return fmt.Errorf("expectations: %w", err)
		}
	}
	return nil
}

// NewEngine creates the configured engine.
func (c *Config) NewEngine() (Engine, error) {
	switch c.Engine.Kind {
	case "", "wazero":
		return NewWazeroEngine(), nil
	case "command":
		if len(c.Engine.Command) == 0 {
			return nil, errors.New("engine: command engines require a command")
		}
		// Flag spellings the configuration leaves out are wasmtime's.
		wasmtime := NewWasmtimeEngine("")
		engine := &CommandEngine{
			Command:      c.Engine.Command,
			Args:         c.Engine.Args,
			EnvFlag:      c.Engine.EnvFlag,
			DirFlag:      c.Engine.DirFlag,
			DirSeparator: c.Engine.DirSeparator,
			TrapExitCode: c.Engine.TrapExitCode,
		}
		if engine.EnvFlag == "" {
			engine.EnvFlag = wasmtime.EnvFlag
		}
		if engine.DirFlag == "" {
			engine.DirFlag = wasmtime.DirFlag
		}
		if engine.DirSeparator == "" {
			engine.DirSeparator = wasmtime.DirSeparator
		}
		return engine, nil
	case "wasmtime":
		path := ""
		if len(c.Engine.Command) != 0 {
			path = c.Engine.Command[0]
		}
		return NewWasmtimeEngine(path), nil
	default:
		return nil, fmt.Errorf("engine: unknown kind %q", c.Engine.Kind)
	}
}

// Options builds suite options from the configuration.
func (c *Config) Options(engine Engine, logger *zap.Logger) (Options, error) {
	if c.Artifacts == "" {
		return Options{}, fmt.Errorf("no artifacts directory; set one in the configuration or with %v", ArtifactsEnv)
	}
	info, err := os.Stat(c.Artifacts)
	if err != nil {
		return Options{}, err
	}
	if !info.IsDir() {
		return Options{}, fmt.Errorf("%v is not a directory", c.Artifacts)
	}

	options := Options{
		Engine:       engine,
		Artifacts:    load.NewFSResolver(os.DirFS(c.Artifacts), c.Artifacts),
		Parallelism:  c.Parallelism,
		Timeout:      c.Timeout,
		Capabilities: Capabilities{Network: c.Network},
		Logger:       logger,
	}
	for _, k := range c.Kinds {
		kind, err := artifacts.ParseKind(k)
		if err != nil {
			return Options{}, err
		}
		options.Kinds = append(options.Kinds, kind)
	}
	if len(c.Skip) != 0 {
		options.Skip = map[artifacts.Name]string{}
		for name, reason := range c.Skip {
			p, _, err := artifacts.Lookup(name)
			if err != nil {
				return Options{}, err
			}
			options.Skip[p.Name] = reason
		}
	}
	if len(c.Expectations) != 0 {
		options.Expectations = map[artifacts.Name]Expectation{}
		for name, e := range c.Expectations {
			p, _, err := artifacts.Lookup(name)
			if err != nil {
				return Options{}, err
			}
			options.Expectations[p.Name] = e
		}
	}
	return options, nil
}
