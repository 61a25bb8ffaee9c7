package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kanzihuang/shellexec/pkg/task"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

const hostTaskQueue = "testHostTaskQueue"

func TestActivityTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityTestSuite))
}

type ActivityTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestActivityEnvironment
}

func (s *ActivityTestSuite) SetupTest() {
	s.env = s.NewTestActivityEnvironment()
	s.env.RegisterActivity(NewActivities(hostTaskQueue))
}

func (s *ActivityTestSuite) begin() task.BeginOutput {
	r := s.Require()
	val, err := s.env.ExecuteActivity(task.Begin)
	r.NoError(err)
	r.True(val.HasValue())
	var output task.BeginOutput
	err = val.Get(&output)
	r.NoError(err)
	r.Equal(hostTaskQueue, output.HostTaskQueue)
	r.Contains(output.SessionDir, hostTaskQueue)
	return output
}

func (s *ActivityTestSuite) end(input task.EndInput) {
	val, err := s.env.ExecuteActivity(task.End, task.EndInput{SessionDir: input.SessionDir})
	s.Require().NoError(err)
	s.Require().True(val.HasValue())
}

func (s *ActivityTestSuite) TestBeginEnd() {
	output := s.begin()
	defer s.end(task.EndInput{SessionDir: output.SessionDir})
}

func (s *ActivityTestSuite) TestEndRejectsForeignDir() {
	_, err := s.env.ExecuteActivity(task.End, task.EndInput{SessionDir: "/etc"})
	s.Require().Error(err)
}

func (s *ActivityTestSuite) beforeTestReadFile(path string, data []byte) {
	err := os.WriteFile(path, data, 0666)
	s.NoError(err)
}

func (s *ActivityTestSuite) afterTestReadFile(path string) {
	err := os.Remove(path)
	s.NoError(err)
}

func (s *ActivityTestSuite) TestReadFile() {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name:    "test-read-file-ok",
			data:    []byte("hello world"),
			wantErr: false,
		},
		{
			name:    "test-read-file-valid-size",
			data:    make([]byte, task.BlobSizeMax),
			wantErr: false,
		},
		{
			name:    "test-read-file-too-large",
			data:    make([]byte, task.BlobSizeMax+1),
			wantErr: true,
		},
	}
	beginOutput := s.begin()
	defer s.end(task.EndInput{SessionDir: beginOutput.SessionDir})
	for _, tt := range tests {
		s.Run(tt.name, func() {
			fileName := filepath.Join(beginOutput.SessionDir, tt.name)
			s.beforeTestReadFile(fileName, tt.data)
			defer s.afterTestReadFile(fileName)

			require := s.Require()
			val, err := s.env.ExecuteActivity(task.ReadFile, task.ReadFileInput{
				SessionDir: beginOutput.SessionDir,
				FileName:   tt.name,
			})
			if tt.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.True(val.HasValue())

			var output task.ReadFileOutput
			err = val.Get(&output)
			require.NoError(err)
			require.Equal(tt.data, output.Data)
		})
	}
}

func (s *ActivityTestSuite) TestCommand() {
	tests := []struct {
		name         string
		command      string
		args         map[string]string
		timeout      string
		wantErr      bool
		wantExitCode int
		withStdout   bool
		wantStdout   []byte
		withStderr   bool
		wantStderr   []byte
	}{
		{
			name:         "command not found",
			command:      "command-not-found",
			wantExitCode: 127,
		},
		{
			name:    "true",
			command: "true",
		},
		{
			name:         "false",
			command:      "false",
			wantExitCode: 1,
		},
		{
			name:    "echo Hello World without stdout",
			command: "echo Hello World",
		},
		{
			name:       "echo Hello World with stdout",
			command:    "echo Hello World",
			withStdout: true,
			wantStdout: []byte("Hello World\n"),
		},
		{
			name:       "echo Hello World through a pipeline with stdout",
			command:    "echo Hello World | tr a-z A-Z",
			withStdout: true,
			wantStdout: []byte("HELLO WORLD\n"),
		},
		{
			name:    "echo Hello World without stderr",
			command: "echo Hello World >&2",
		},
		{
			name:       "echo Hello World with stderr",
			command:    "echo Hello World >&2",
			withStderr: true,
			wantStderr: []byte("Hello World\n"),
		},
		{
			name:    "echo arguments with stdout",
			command: "echo I am $name. I am ${age} years old.",
			args: map[string]string{
				"name": "Mike",
				"age":  "18",
			},
			withStdout: true,
			wantStdout: []byte("I am Mike. I am 18 years old.\n"),
		},
		{
			name:       "binary stdout passes through",
			command:    `printf '\377'`,
			withStdout: true,
			wantStdout: []byte{0xff},
		},
		{
			// exec so the termination signal reaches the sleeping
			// process itself instead of a forking interpreter.
			name:         "timeout terminates the command",
			command:      "exec sleep 10",
			timeout:      "200ms",
			wantExitCode: -1,
		},
		{
			name:    "invalid timeout",
			command: "true",
			timeout: "soon",
			wantErr: true,
		},
		{
			name:       "stdout too large",
			command:    "head -c 524289 /dev/zero",
			withStdout: true,
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			require := s.Require()
			s.env.RegisterActivityWithOptions(BuildCommand(tt.command), activity.RegisterOptions{Name: tt.name})
			val, err := s.env.ExecuteActivity(tt.name, task.Input{
				WithStdout: tt.withStdout,
				WithStderr: tt.withStderr,
				Args:       tt.args,
				Timeout:    tt.timeout,
			})
			if tt.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.True(val.HasValue())

			var output task.Output
			err = val.Get(&output)
			require.NoError(err)
			require.Equal(tt.wantExitCode, output.ExitCode)
			require.Equal(tt.wantStdout, output.StdoutData)
			require.Equal(tt.wantStderr, output.StderrData)
		})
	}
}
