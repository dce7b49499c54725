package version

// Version is the CLI version, set at build time:
//
//	go build -ldflags "-X github.com/sul-dlss/ld4p-deploy/pkg/version.Version=v1.2.0"
var Version = "dev"
