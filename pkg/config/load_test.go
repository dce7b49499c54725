package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	file := filepath.Join(dir, "deploy.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("LD4P_DEPLOY_BRANCH", "")
	return t.TempDir()
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "ld4p-marc21-to-xml", cfg.Application)
	assert.Equal(t, "https://github.com/sul-dlss/ld4p-marc21-to-xml.git", cfg.RepoURL)
	assert.Equal(t, "/opt/app/ld4p/ld4p-marc21-to-xml", cfg.DeployTo)
	assert.Equal(t, "/opt/app/ld4p/ld4p-marc21-to-xml/current", cfg.ReleasePath())
	assert.Equal(t, 5, cfg.KeepReleases)
	assert.Equal(t, []string{"config/config.sh", "xform-marc21-to-xml/src/main/resources/server.conf"}, cfg.LinkedFiles)
	assert.Equal(t, []string{"log"}, cfg.LinkedDirs)
	assert.Equal(t, 30*time.Second, cfg.SSH.ConnectTimeout)
	assert.True(t, cfg.SSH.UseAgent)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Branch, "no git repository to read the branch from")

	require.Contains(t, cfg.Tasks, "maven:package")
	assert.Equal(t, "mvn", cfg.Tasks["maven:package"].Command)
	assert.Equal(t, []string{"clean", "package"}, cfg.Tasks["maven:package"].Args)
	assert.Equal(t, []string{"one_record.mrc"}, cfg.Tasks["deploy:run_test"].DefaultArgs)

	require.Len(t, cfg.Hooks, 1)
	assert.Equal(t, "deploy.finished", cfg.Hooks[0].Event)
	assert.Equal(t, "maven:package", cfg.Hooks[0].Task)
}

func TestLoadConfig_WorkDirFile(t *testing.T) {
	dir := isolate(t)
	file := writeConfig(t, dir, `
branch: release-2.1
servers:
  - host: sul-ld4p-prod-a.stanford.edu
    roles: [app]
  - host: sul-ld4p-prod-b.stanford.edu
    roles: [app, db]
    port: 2222
tasks:
  maven:package:
    command: /usr/local/maven/bin/mvn
    timeout: 20m
  db:migrate:
    roles: [db]
    command: bin/migrate
    retry:
      max_attempts: 3
      initial_delay: 2s
hooks:
  - event: deploy.finished
    task: maven:package
  - event: deploy.finished
    task: db:migrate
`)

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)

	assert.Equal(t, file, cfg.CliConfigPath)
	assert.Equal(t, "release-2.1", cfg.Branch)
	require.Len(t, cfg.Servers, 2)
	assert.Equal(t, 2222, cfg.Servers[1].Port)
	assert.Equal(t, []string{"app", "db"}, cfg.Servers[1].Roles)

	maven := cfg.Tasks["maven:package"]
	assert.Equal(t, "/usr/local/maven/bin/mvn", maven.Command)
	assert.Equal(t, []string{"clean", "package"}, maven.Args, "unset fields keep their defaults")
	assert.Equal(t, 20*time.Minute, maven.Timeout)

	migrate := cfg.Tasks["db:migrate"]
	require.NotNil(t, migrate.Retry)
	assert.Equal(t, 3, migrate.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, migrate.Retry.InitialDelay)
	assert.Contains(t, cfg.Tasks, "deploy:run_test")

	assert.Len(t, cfg.Hooks, 2)
	assert.NoError(t, Validate(&cfg))
}

func TestLoadConfig_XDGConfigHome(t *testing.T) {
	dir := isolate(t)
	appDir := filepath.Join(xdg.ConfigHome, CliName)
	require.NoError(t, os.MkdirAll(appDir, 0o700))
	file := writeConfig(t, appDir, `
branch: xdg-branch
keep_releases: 3
`)

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, file, cfg.CliConfigPath)
	assert.Equal(t, "xdg-branch", cfg.Branch)
	assert.Equal(t, 3, cfg.KeepReleases)

	writeConfig(t, dir, "keep_releases: 7\n")
	cfg, err = LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.KeepReleases, "the working directory overrides the XDG config")
	assert.Equal(t, "xdg-branch", cfg.Branch)
}

func TestLoadConfig_Priority(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "branch: from-file\nlogs:\n  level: Debug\n")

	envDir := t.TempDir()
	writeConfig(t, envDir, "branch: from-env-path\n")
	t.Setenv(ConfigPathEnvVar, envDir)

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "from-env-path", cfg.Branch)
	assert.Equal(t, "Debug", cfg.Logs.Level)

	flagFile := writeConfig(t, t.TempDir(), "branch: from-flag-file\n")
	cfg, err = LoadConfig(LoadOptions{WorkDir: dir, ConfigPath: flagFile})
	require.NoError(t, err)
	assert.Equal(t, "from-flag-file", cfg.Branch)
	assert.Equal(t, flagFile, cfg.CliConfigPath)

	t.Setenv("LD4P_DEPLOY_BRANCH", "from-env")
	t.Setenv("LD4P_DEPLOY_LOGS_LEVEL", "Warning")
	cfg, err = LoadConfig(LoadOptions{WorkDir: dir, ConfigPath: flagFile})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Branch)
	assert.Equal(t, "Warning", cfg.Logs.Level)

	cfg, err = LoadConfig(LoadOptions{WorkDir: dir, Branch: "from-flag", LogsLevel: "Trace", LogsFile: "/dev/null", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Branch)
	assert.Equal(t, "Trace", cfg.Logs.Level)
	assert.Equal(t, "/dev/null", cfg.Logs.File)
	assert.True(t, cfg.DryRun)
}

func TestLoadConfig_ConfigFlagDirectory(t *testing.T) {
	dir := isolate(t)
	flagDir := t.TempDir()
	file := writeConfig(t, flagDir, "application: ld4p-test\n")

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir, ConfigPath: flagDir})
	require.NoError(t, err)
	assert.Equal(t, "ld4p-test", cfg.Application)
	assert.Equal(t, file, cfg.CliConfigPath)

	_, err = LoadConfig(LoadOptions{WorkDir: dir, ConfigPath: t.TempDir()})
	assert.ErrorIs(t, err, errUtils.ErrConfiguration)
}

func TestLoadConfig_MissingConfigFlag(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfig(LoadOptions{WorkDir: dir, ConfigPath: filepath.Join(dir, "missing.yaml")})
	assert.ErrorIs(t, err, errUtils.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "servers: [\n")

	_, err := LoadConfig(LoadOptions{WorkDir: dir})
	assert.Error(t, err)
}

func TestLoadConfig_BranchFromGit(t *testing.T) {
	dir := isolate(t)
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("develop")},
	})
	require.NoError(t, err)

	cfg, err := LoadConfig(LoadOptions{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "develop", cfg.Branch)

	cfg, err = LoadConfig(LoadOptions{WorkDir: dir, Branch: "master"})
	require.NoError(t, err)
	assert.Equal(t, "master", cfg.Branch)
}
