package cli

import "errors"

// Process exit codes
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitConfigError = 2
)

// ConfigError marks failures caused by invalid configuration
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "configuration: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	return ExitUsage
}
