package osutil

const (
	Windows = "windows"
	Darwin  = "darwin"
)

type exitCode int

const (
	ExitOK    exitCode = 0
	ExitError exitCode = 1
	// ExitParseFailure is returned when an entry could not be understood.
	ExitParseFailure exitCode = 2
)

// Int returns the exit code as an int for os.Exit.
func (c exitCode) Int() int {
	return int(c)
}

const (
	DirPermission  = 0o755
	FilePermission = 0o600
)
