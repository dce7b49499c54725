package config

// defaultConfig is merged before any config file. It describes the
// ld4p-marc21-to-xml deployment: build with maven once a deploy finishes,
// and an on-demand conversion smoke test.
const defaultConfig = `
application: ld4p-marc21-to-xml
repo_url: https://github.com/sul-dlss/ld4p-marc21-to-xml.git
branch: ""
deploy_to: /opt/app/ld4p/ld4p-marc21-to-xml
current_path: ""
keep_releases: 5
linked_files:
  - config/config.sh
  - xform-marc21-to-xml/src/main/resources/server.conf
linked_dirs:
  - log
servers: []
ssh:
  user: ""
  port: 0
  identity_file: ""
  known_hosts_file: ~/.ssh/known_hosts
  config_file: ~/.ssh/config
  use_agent: true
  insecure_ignore_host_key: false
  connect_timeout: 30s
  pty: false
tasks:
  maven:package:
    description: Build the release with maven
    roles: [app]
    command: mvn
    args: [clean, package]
  deploy:run_test:
    description: Convert a sample MARC21 file to MARCXML
    roles: [app]
    command: bin/marc21_to_marcxml_test.sh
    default_args: [one_record.mrc]
hooks:
  - event: deploy.finished
    task: maven:package
logs:
  file: /dev/stderr
  level: Info
history:
  enabled: false
  type: in-memory
  limit: 100
errors:
  format:
    verbose: false
    color: auto
  sentry:
    enabled: false
dry_run: false
`
