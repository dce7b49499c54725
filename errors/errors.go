package errors

import "errors"

// Failure classes surfaced to the operator.
var (
	ErrRoleResolution = errors.New("role resolution failed")
	ErrCommandFailure = errors.New("remote command failed")
	ErrConfiguration  = errors.New("invalid deploy configuration")
)

// Hook registration and dispatch.
var (
	ErrEmptyEventName   = errors.New("event name must not be empty")
	ErrUnknownEvent     = errors.New("unknown lifecycle event")
	ErrUnknownTask      = errors.New("unknown task")
	ErrDuplicateBinding = errors.New("task is already bound to event")
	ErrNilExecutor      = errors.New("remote executor is not configured")
)

// Configuration loading.
var (
	ErrBranchNotResolved = errors.New("branch could not be resolved")
	ErrInvalidRepoURL    = errors.New("invalid repository URL")
	ErrNoGitRepository   = errors.New("not a git repository")
	ErrDetachedHead      = errors.New("repository HEAD is detached")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrUnsupportedDevice = errors.New("unsupported device file")
	ErrTemplateRender    = errors.New("failed to render task template")
	ErrInvalidFormat     = errors.New("invalid output format")
)

// Transport.
var (
	ErrSSHDial          = errors.New("failed to connect to host")
	ErrSSHSession       = errors.New("failed to open SSH session")
	ErrSSHAuth          = errors.New("no usable SSH authentication method")
	ErrHostKeyCallback  = errors.New("failed to load known hosts")
	ErrUnknownTransport = errors.New("unknown transport")
)

// Run lock and history.
var (
	ErrRunLocked        = errors.New("another deployment run holds the lock")
	ErrHistoryDisabled  = errors.New("run history is disabled")
	ErrUnknownStoreType = errors.New("unknown history store type")
	ErrStoreOptions     = errors.New("invalid history store options")
)
