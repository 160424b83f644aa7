package config

const (
	// DefaultRoot is the project root used when none is configured
	DefaultRoot = "."

	// DefaultGitBackend is the revision query used when none is configured
	DefaultGitBackend = "exec"

	// DefaultLayoutFile is looked up under the project root
	DefaultLayoutFile = "stamp.yaml"

	// GlobalConfigDir is the directory for global configuration
	GlobalConfigDir = ".config/stamp"

	// GlobalEnvFile is the filename for global environment config
	GlobalEnvFile = ".env"

	// LocalEnvFile is the filename for local environment config
	LocalEnvFile = ".env"
)

// Environment variable names
const (
	EnvRoot       = "STAMP_ROOT"
	EnvGitBackend = "STAMP_GIT_BACKEND"
	EnvVersion    = "STAMP_VERSION"
	EnvLayout     = "STAMP_LAYOUT"
)
