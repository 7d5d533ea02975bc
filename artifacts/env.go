package artifacts

import (
	"os"
	"runtime"
	"sort"
)

// TestsEnvironment returns the environment variables passed to preview1 test programs. The variables tell the
// programs which of the host's filesystem quirks to expect.
func TestsEnvironment() map[string]string {
	return testsEnvironment(runtime.GOOS)
}

func testsEnvironment(goos string) map[string]string {
	switch goos {
	case "windows":
		return map[string]string{
			"ERRNO_MODE_WINDOWS":         "1",
			"NO_DANGLING_FILESYSTEM":     "1",
			"NO_FD_ALLOCATE":             "1",
			"NO_RENAME_DIR_TO_EMPTY_DIR": "1",
		}
	case "darwin":
		return map[string]string{
			"ERRNO_MODE_MACOS": "1",
		}
	default:
		return map[string]string{
			"ERRNO_MODE_UNIX": "1",
		}
	}
}

// Environ formats an environment map as a sorted list of key=value pairs.
func Environ(env map[string]string) []string {
	kvps := make([]string, 0, len(env))
	for k, v := range env {
		kvps = append(kvps, k+"="+v)
	}
	sort.Strings(kvps)
	return kvps
}

// StdioIsTerminal reports whether stdin, stdout, and stderr are all attached to a terminal. Programs that test
// isatty behavior only make sense when this matches their expectations.
func StdioIsTerminal() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd()) && isTerminal(os.Stderr.Fd())
}
