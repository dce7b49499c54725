package config

const (
	CliName = "ld4p-deploy"

	ConfigFileName          = "deploy"
	DotConfigDirName        = ".ld4p-deploy"
	SystemDirConfigFilePath = "/usr/local/etc/ld4p-deploy"
	WindowsAppDataEnvVar    = "LOCALAPPDATA"

	EnvPrefix        = "LD4P_DEPLOY"
	ConfigPathEnvVar = "LD4P_DEPLOY_CONFIG_PATH"

	ConfigFlag    = "config"
	BranchFlag    = "branch"
	LogsLevelFlag = "logs-level"
	LogsFileFlag  = "logs-file"
	DryRunFlag    = "dry-run"
)

// configExtensions are tried in order when a directory is searched for the config file.
var configExtensions = []string{".yaml", ".yml"}
