package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// LoadOptions carries the command-line values that take priority over every config source.
type LoadOptions struct {
	// ConfigPath is a config file, or a directory holding `deploy.yaml`.
	ConfigPath string
	Branch     string
	LogsLevel  string
	LogsFile   string
	DryRun     bool
	// WorkDir is where the config file and the git repository are looked for. Defaults to the process working directory.
	WorkDir string
}

// LoadConfig builds the deploy configuration from, lowest to highest priority:
// built-in defaults, the system dir (`/usr/local/etc/ld4p-deploy`), the home dir
// (`~/.ld4p-deploy`), `$XDG_CONFIG_HOME/ld4p-deploy`, the working directory, LD4P_DEPLOY_CONFIG_PATH,
// the --config flag, LD4P_DEPLOY_* environment variables, and the other flags.
//
// An empty branch is filled from the git repository in the working directory.
// If that fails the branch stays empty and Validate reports it.
func LoadConfig(opts LoadOptions) (schema.DeployConfiguration, error) {
	var cfg schema.DeployConfiguration

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return cfg, err
		}
		workDir = wd
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.MergeConfig(strings.NewReader(defaultConfig)); err != nil {
		return cfg, fmt.Errorf("failed to read default config: %w", err)
	}

	used, err := readConfigSources(v, workDir, opts.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if used == "" {
		log.Debug("'deploy.yaml' config was not found, using the defaults", "paths", "system dir, home dir, XDG config dir, current dir, ENV vars")
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return cfg, &errUtils.ConfigurationFailure{Key: "config", Reason: "cannot be decoded", Cause: err}
	}

	if used != "" && !filepath.IsAbs(used) {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
	}
	cfg.CliConfigPath = used

	applyOptions(&cfg, opts)

	if cfg.Branch == "" {
		cfg.Branch = resolveBranch(workDir)
	}

	return cfg, nil
}

func readConfigSources(v *viper.Viper, workDir, flagPath string) (string, error) {
	var used string

	dirs := []string{systemConfigDir()}
	if home, err := homedir.Dir(); err == nil {
		dirs = append(dirs, filepath.Join(home, DotConfigDirName))
	} else {
		log.Debug("Home directory not found", "err", err)
	}
	dirs = append(dirs, filepath.Join(xdg.ConfigHome, CliName), workDir)
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		dirs = append(dirs, envPath)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		file, err := mergeConfigDir(v, dir)
		if err != nil {
			return "", err
		}
		if file != "" {
			log.Debug("Merged config", "file", file)
			used = file
		}
	}

	if flagPath != "" {
		file, err := mergeConfigPath(v, flagPath)
		if err != nil {
			return "", err
		}
		used = file
	}
	return used, nil
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv(WindowsAppDataEnvVar); appData != "" {
			return filepath.Join(appData, CliName)
		}
		return ""
	}
	return SystemDirConfigFilePath
}

// mergeConfigDir merges `deploy.yaml` (or `deploy.yml`) from dir when present.
func mergeConfigDir(v *viper.Viper, dir string) (string, error) {
	for _, ext := range configExtensions {
		file := filepath.Join(dir, ConfigFileName+ext)
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := mergeConfigFile(v, file); err != nil {
			return "", err
		}
		return file, nil
	}
	return "", nil
}

// mergeConfigPath merges an explicitly requested config file or directory, which must exist.
func mergeConfigPath(v *viper.Viper, path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", &errUtils.ConfigurationFailure{Key: "config", Reason: "invalid path " + path, Cause: err}
	}

	info, err := os.Stat(expanded)
	if err != nil {
		return "", &errUtils.ConfigurationFailure{Key: "config", Reason: "file not found: " + expanded, Cause: err}
	}

	if info.IsDir() {
		file, err := mergeConfigDir(v, expanded)
		if err != nil {
			return "", err
		}
		if file == "" {
			return "", &errUtils.ConfigurationFailure{Key: "config", Reason: "no deploy.yaml in " + expanded, Cause: os.ErrNotExist}
		}
		return file, nil
	}

	if err := mergeConfigFile(v, expanded); err != nil {
		return "", err
	}
	return expanded, nil
}

func mergeConfigFile(v *viper.Viper, file string) error {
	v.SetConfigFile(file)
	if err := v.MergeInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return &errUtils.ConfigurationFailure{Key: "config", Reason: "invalid YAML in " + file, Cause: err}
		}
		return err
	}
	return nil
}

func applyOptions(cfg *schema.DeployConfiguration, opts LoadOptions) {
	if opts.Branch != "" {
		cfg.Branch = opts.Branch
	}
	if opts.LogsLevel != "" {
		cfg.Logs.Level = opts.LogsLevel
	}
	if opts.LogsFile != "" {
		cfg.Logs.File = opts.LogsFile
	}
	if opts.DryRun {
		cfg.DryRun = true
	}
}
