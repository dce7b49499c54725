package roles

import (
	"strings"

	"github.com/samber/lo"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// Inventory maps role names to the servers carrying them.
// Servers keep the order they were declared in.
type Inventory struct {
	servers []schema.Server
}

// NewInventory builds an inventory from the configured servers.
func NewInventory(servers []schema.Server) *Inventory {
	return &Inventory{servers: servers}
}

// Hosts returns the servers carrying any of roles, each host at most once.
// The result may be empty.
func (i *Inventory) Hosts(roles ...string) []schema.Server {
	matched := lo.Filter(i.servers, func(s schema.Server, _ int) bool {
		return lo.Some(s.Roles, roles)
	})
	return lo.UniqBy(matched, func(s schema.Server) string {
		return s.Host
	})
}

// Resolve returns the hosts for a task's roles.
// An empty result is a RoleResolutionFailure carrying the roles the inventory does have.
func (i *Inventory) Resolve(task string, roles ...string) ([]schema.Server, error) {
	hosts := i.Hosts(roles...)
	if len(hosts) > 0 {
		return hosts, nil
	}

	b := errUtils.Build(&errUtils.RoleResolutionFailure{Task: task, Roles: roles})
	if known := i.Roles(); len(known) > 0 {
		b.WithContext("configured_roles", strings.Join(known, ","))
	}
	return nil, b.Err()
}

// Roles returns every role name in the inventory, in first-seen order.
func (i *Inventory) Roles() []string {
	return lo.Uniq(lo.FlatMap(i.servers, func(s schema.Server, _ int) []string {
		return s.Roles
	}))
}
