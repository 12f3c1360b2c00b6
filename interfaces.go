package execkit

import (
	"os"
	"os/exec"
	"runtime"
)

// Environment supplies the host facilities a Shell needs to compose and
// launch commands: tool lookup, the logical working directory, and the
// platform family. The default implementation is OSEnvironment; tests
// and embedders substitute their own via WithEnvironment.
//
// Implementations must be safe for concurrent use.
type Environment interface {
	// LookupTool returns an invocable path for the named tool.
	// Implementations may return an error alongside a non-empty path
	// (exec.LookPath does, for dot-relative results); execkit treats
	// any error as "not found" and falls back to the literal name.
	LookupTool(name string) (string, error)

	// WorkDir returns the logical working directory for spawned
	// processes. It is made absolute before use.
	WorkDir() (string, error)

	// IsUnix reports whether the host follows POSIX conventions. It
	// selects the executable-name resolution rules (".exe" retry on
	// non-POSIX hosts), command-line quoting for diagnostics, and the
	// line separator used by ExecText.
	IsUnix() bool
}

// OSEnvironment is the default Environment, backed by the operating
// system: exec.LookPath, os.Getwd, and runtime.GOOS.
type OSEnvironment struct{}

// Compile-time interface satisfaction check.
var _ Environment = OSEnvironment{}

// LookupTool searches the PATH via exec.LookPath.
func (OSEnvironment) LookupTool(name string) (string, error) {
	return exec.LookPath(name)
}

// WorkDir returns the process working directory.
func (OSEnvironment) WorkDir() (string, error) {
	return os.Getwd()
}

// IsUnix reports true everywhere except Windows.
func (OSEnvironment) IsUnix() bool {
	return runtime.GOOS != "windows"
}
