package hooks

import (
	"fmt"
	"strings"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
)

// HookEvent is a lifecycle event fired by the surrounding deployment flow.
type HookEvent string

const (
	DeployStarting   HookEvent = "deploy.starting"
	DeployStarted    HookEvent = "deploy.started"
	DeployUpdating   HookEvent = "deploy.updating"
	DeployUpdated    HookEvent = "deploy.updated"
	DeployPublishing HookEvent = "deploy.publishing"
	DeployPublished  HookEvent = "deploy.published"
	DeployFinishing  HookEvent = "deploy.finishing"
	DeployFinished   HookEvent = "deploy.finished"
	DeployFailed     HookEvent = "deploy.failed"
)

// Events lists the known events in the order a deployment fires them.
var Events = []HookEvent{
	DeployStarting,
	DeployStarted,
	DeployUpdating,
	DeployUpdated,
	DeployPublishing,
	DeployPublished,
	DeployFinishing,
	DeployFinished,
	DeployFailed,
}

// ParseEvent returns the known event named name.
func ParseEvent(name string) (HookEvent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errUtils.ErrEmptyEventName
	}
	for _, e := range Events {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errUtils.ErrUnknownEvent, name)
}
