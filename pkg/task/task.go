// Package task defines the wire types shared between workflow authors and
// the worker's command activities.
package task

import "errors"

const (
	Begin    string = "Begin"
	End      string = "End"
	ReadFile string = "ReadFile"
)

const (
	// BlobSizeMax Temporal Limit, in MBs, for BLOBs size in an Event when a warning is thrown in the server logs.
	BlobSizeMax = 512 * 1024
)

var ErrBlobTooLarge = errors.New("blob too large")

// Input drives one command activity execution. Args are expanded into the
// registered command template; Timeout is a Go duration string, empty for
// no timeout.
type Input struct {
	Args       map[string]string
	Timeout    string
	WithStdout bool
	WithStderr bool
}

type Output struct {
	Command    string
	ExitCode   int
	StdoutData []byte
	StderrData []byte
}

type BeginInput struct{}
type BeginOutput struct {
	HostTaskQueue string
	SessionDir    string
}

type EndInput struct {
	SessionDir string
}
type EndOutput struct{}

type ReadFileInput struct {
	SessionDir string
	FileName   string
}

type ReadFileOutput struct {
	Data []byte
}
