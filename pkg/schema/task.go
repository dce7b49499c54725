package schema

import "time"

// Task is a named unit of remote work run once per host of its roles.
//
// Args, WorkingDirectory and Env values are Go templates rendered against
// TemplateData before the command is issued:
//
//	tasks:
//	  deploy:run_test:
//	    roles: [app]
//	    command: bin/marc21_to_marcxml_test.sh
//	    default_args: [one_record.mrc]
type Task struct {
	// Name is filled in from the key of the `tasks` map.
	Name        string `yaml:"-" json:"name" mapstructure:"-"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
	// Roles the task runs on. A host is targeted once even if it carries several of them.
	Roles []string `yaml:"roles" json:"roles" mapstructure:"roles"`
	// Command is the executable, relative to the working directory or absolute.
	Command string   `yaml:"command" json:"command" mapstructure:"command"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`
	// DefaultArgs are appended when the task is invoked without arguments.
	DefaultArgs []string `yaml:"default_args,omitempty" json:"default_args,omitempty" mapstructure:"default_args"`
	// WorkingDirectory defaults to the release path.
	WorkingDirectory string            `yaml:"working_directory,omitempty" json:"working_directory,omitempty" mapstructure:"working_directory"`
	Env              map[string]string `yaml:"env,omitempty" json:"env,omitempty" mapstructure:"env"`
	// Timeout bounds each per-host invocation. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout"`
	Retry   *RetryConfig  `yaml:"retry,omitempty" json:"retry,omitempty" mapstructure:"retry"`
	// AllowEmptyRoles turns an empty role set into a skip instead of a failure.
	AllowEmptyRoles bool `yaml:"allow_empty_roles,omitempty" json:"allow_empty_roles,omitempty" mapstructure:"allow_empty_roles"`
}

// TemplateData is what task templates are rendered against.
type TemplateData struct {
	Application string
	Branch      string
	DeployTo    string
	ReleasePath string
	Host        string
	Args        []string
}

type BackoffStrategy string

const (
	BackoffConstant    BackoffStrategy = "constant"
	BackoffLinear      BackoffStrategy = "linear"
	BackoffExponential BackoffStrategy = "exponential"
)

// RetryConfig controls how a failed per-host invocation is retried.
type RetryConfig struct {
	MaxAttempts     int             `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty" mapstructure:"max_attempts"`
	BackoffStrategy BackoffStrategy `yaml:"backoff_strategy,omitempty" json:"backoff_strategy,omitempty" mapstructure:"backoff_strategy"`
	InitialDelay    time.Duration   `yaml:"initial_delay,omitempty" json:"initial_delay,omitempty" mapstructure:"initial_delay"`
	MaxDelay        time.Duration   `yaml:"max_delay,omitempty" json:"max_delay,omitempty" mapstructure:"max_delay"`
	RandomJitter    bool            `yaml:"random_jitter,omitempty" json:"random_jitter,omitempty" mapstructure:"random_jitter"`
	Multiplier      float64         `yaml:"multiplier,omitempty" json:"multiplier,omitempty" mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration   `yaml:"max_elapsed_time,omitempty" json:"max_elapsed_time,omitempty" mapstructure:"max_elapsed_time"`
}
