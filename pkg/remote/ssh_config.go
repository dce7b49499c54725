package remote

import (
	"errors"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/kevinburke/ssh_config"
	"github.com/mitchellh/go-homedir"

	"github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

const defaultSSHPort = 22

// endpoint is where and as whom a server is reached.
type endpoint struct {
	alias        string
	hostname     string
	port         int
	user         string
	identityFile string
}

func (e endpoint) addr() string {
	return net.JoinHostPort(e.hostname, strconv.Itoa(e.port))
}

// loadSSHConfig reads an OpenSSH client config. A missing file is not an error.
func loadSSHConfig(path string) (*ssh_config.Config, error) {
	if path == "" {
		return nil, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if errors.Is(err, os.ErrNotExist) {
		logger.Trace("No SSH client config", "path", expanded)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ssh_config.Decode(f)
}

// resolveEndpoint merges, most specific first: the server entry, the global ssh
// settings, the OpenSSH client config, and built-in defaults.
func resolveEndpoint(server schema.Server, settings schema.SSHSettings, cfg *ssh_config.Config) endpoint {
	lookup := func(key string) string {
		if cfg == nil {
			return ""
		}
		v, err := cfg.Get(server.Host, key)
		if err != nil {
			logger.Debug("Failed to read SSH client config", "host", server.Host, "key", key, "err", err)
			return ""
		}
		return v
	}

	ep := endpoint{alias: server.Host, hostname: server.Host}
	if v := lookup("HostName"); v != "" {
		ep.hostname = v
	}

	switch {
	case server.Port > 0:
		ep.port = server.Port
	case settings.Port > 0:
		ep.port = settings.Port
	default:
		ep.port = defaultSSHPort
		if p, err := strconv.Atoi(lookup("Port")); err == nil && p > 0 {
			ep.port = p
		}
	}

	switch {
	case server.User != "":
		ep.user = server.User
	case settings.User != "":
		ep.user = settings.User
	case lookup("User") != "":
		ep.user = lookup("User")
	default:
		ep.user = currentUser()
	}

	if settings.IdentityFile != "" {
		ep.identityFile = settings.IdentityFile
	} else {
		ep.identityFile = lookup("IdentityFile")
	}

	return ep
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}
