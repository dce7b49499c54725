package schema

import "time"

// DeployConfiguration represents the schema of the `deploy.yaml` config.
// It is built once at process start and passed explicitly to everything that needs it.
type DeployConfiguration struct {
	Application  string          `yaml:"application" json:"application" mapstructure:"application"`
	RepoURL      string          `yaml:"repo_url" json:"repo_url" mapstructure:"repo_url"`
	Branch       string          `yaml:"branch,omitempty" json:"branch,omitempty" mapstructure:"branch"`
	DeployTo     string          `yaml:"deploy_to" json:"deploy_to" mapstructure:"deploy_to"`
	CurrentPath  string          `yaml:"current_path,omitempty" json:"current_path,omitempty" mapstructure:"current_path"`
	KeepReleases int             `yaml:"keep_releases" json:"keep_releases" mapstructure:"keep_releases"`
	LinkedFiles  []string        `yaml:"linked_files,omitempty" json:"linked_files,omitempty" mapstructure:"linked_files"`
	LinkedDirs   []string        `yaml:"linked_dirs,omitempty" json:"linked_dirs,omitempty" mapstructure:"linked_dirs"`
	Servers      []Server        `yaml:"servers,omitempty" json:"servers,omitempty" mapstructure:"servers"`
	SSH          SSHSettings     `yaml:"ssh,omitempty" json:"ssh,omitempty" mapstructure:"ssh"`
	Tasks        map[string]Task `yaml:"tasks,omitempty" json:"tasks,omitempty" mapstructure:"tasks"`
	Hooks        []HookBinding   `yaml:"hooks,omitempty" json:"hooks,omitempty" mapstructure:"hooks"`
	Logs         Logs            `yaml:"logs,omitempty" json:"logs,omitempty" mapstructure:"logs"`
	History      HistoryConfig   `yaml:"history,omitempty" json:"history,omitempty" mapstructure:"history"`
	Errors       ErrorsConfig    `yaml:"errors,omitempty" json:"errors,omitempty" mapstructure:"errors"`
	DryRun       bool            `yaml:"dry_run,omitempty" json:"dry_run,omitempty" mapstructure:"dry_run"`

	// CliConfigPath is the absolute path of the config file that was loaded, if any.
	CliConfigPath string `yaml:"-" json:"-" mapstructure:"-"`
}

// ReleasePath returns the path of the currently active release on the target hosts.
func (c *DeployConfiguration) ReleasePath() string {
	if c.CurrentPath != "" {
		return c.CurrentPath
	}
	return c.DeployTo + "/current"
}

// Server is a target host and the roles it is tagged with.
type Server struct {
	Host      string   `yaml:"host" json:"host" mapstructure:"host"`
	User      string   `yaml:"user,omitempty" json:"user,omitempty" mapstructure:"user"`
	Port      int      `yaml:"port,omitempty" json:"port,omitempty" mapstructure:"port"`
	Roles     []string `yaml:"roles" json:"roles" mapstructure:"roles"`
	Transport string   `yaml:"transport,omitempty" json:"transport,omitempty" mapstructure:"transport"`
}

// Transport names for Server.Transport.
const (
	TransportSSH   = "ssh"
	TransportLocal = "local"
)

type SSHSettings struct {
	User                  string        `yaml:"user,omitempty" json:"user,omitempty" mapstructure:"user"`
	Port                  int           `yaml:"port,omitempty" json:"port,omitempty" mapstructure:"port"`
	IdentityFile          string        `yaml:"identity_file,omitempty" json:"identity_file,omitempty" mapstructure:"identity_file"`
	KnownHostsFile        string        `yaml:"known_hosts_file,omitempty" json:"known_hosts_file,omitempty" mapstructure:"known_hosts_file"`
	ConfigFile            string        `yaml:"config_file,omitempty" json:"config_file,omitempty" mapstructure:"config_file"`
	UseAgent              bool          `yaml:"use_agent" json:"use_agent" mapstructure:"use_agent"`
	InsecureIgnoreHostKey bool          `yaml:"insecure_ignore_host_key,omitempty" json:"insecure_ignore_host_key,omitempty" mapstructure:"insecure_ignore_host_key"`
	ConnectTimeout        time.Duration `yaml:"connect_timeout,omitempty" json:"connect_timeout,omitempty" mapstructure:"connect_timeout"`
	PTY                   bool          `yaml:"pty,omitempty" json:"pty,omitempty" mapstructure:"pty"`
}

// HookBinding binds a task to a lifecycle event. Order in the config is registration order.
type HookBinding struct {
	Event string `yaml:"event" json:"event" mapstructure:"event"`
	Task  string `yaml:"task" json:"task" mapstructure:"task"`
}

type Logs struct {
	File  string `yaml:"file" json:"file" mapstructure:"file"`
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

// HistoryConfig configures where run records are kept.
type HistoryConfig struct {
	Enabled bool           `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Type    string         `yaml:"type,omitempty" json:"type,omitempty" mapstructure:"type"`
	Limit   int            `yaml:"limit,omitempty" json:"limit,omitempty" mapstructure:"limit"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty" mapstructure:"options"`
}

type ErrorsConfig struct {
	Format ErrorFormatConfig `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"`
	Sentry SentryConfig      `yaml:"sentry,omitempty" json:"sentry,omitempty" mapstructure:"sentry"`
}

type ErrorFormatConfig struct {
	Verbose bool   `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	Color   string `yaml:"color,omitempty" json:"color,omitempty" mapstructure:"color"`
}

// SentryConfig holds the error reporting settings.
type SentryConfig struct {
	Enabled     bool              `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	DSN         string            `yaml:"dsn,omitempty" json:"dsn,omitempty" mapstructure:"dsn"`
	Environment string            `yaml:"environment,omitempty" json:"environment,omitempty" mapstructure:"environment"`
	Release     string            `yaml:"release,omitempty" json:"release,omitempty" mapstructure:"release"`
	Debug       bool              `yaml:"debug,omitempty" json:"debug,omitempty" mapstructure:"debug"`
	SampleRate  float64           `yaml:"sample_rate,omitempty" json:"sample_rate,omitempty" mapstructure:"sample_rate"`
	Tags        map[string]string `yaml:"tags,omitempty" json:"tags,omitempty" mapstructure:"tags"`
}
