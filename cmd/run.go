package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kanzihuang/shellexec/pkg/shell"
	"github.com/spf13/cobra"
)

var (
	runInterpreter string
	runTimeout     time.Duration
	runEnv         map[string]string
	runQuiet       bool
)

// runCmd executes a command locally through the execution engine. Output
// streams live to the terminal; with --quiet only the trimmed stdout is
// printed at the end.
var runCmd = &cobra.Command{
	Use:   "run [flags] command...",
	Short: "run a command through the execution engine",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sh := shell.New(shell.Config{
			Interpreter: runInterpreter,
			Env:         runEnv,
		})
		if !runQuiet {
			sh.StdoutHandler = &shell.FileHandler{File: os.Stdout}
			sh.StderrHandler = &shell.FileHandler{File: os.Stderr}
		}

		output, err := sh.Run(strings.Join(args, " "), runTimeout)
		if err != nil {
			var exitErr *shell.ExitError
			switch {
			case errors.As(err, &exitErr):
				if runQuiet {
					fmt.Fprintln(os.Stderr, exitErr.Message)
				}
				code := exitErr.Code
				if code < 0 {
					code = 1
				}
				os.Exit(code)
			default:
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		if runQuiet {
			fmt.Println(output)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runInterpreter, "interpreter", "i", shell.DefaultInterpreter, "Interpreter the command is passed to.")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Terminate the command after this duration (0 disables).")
	runCmd.Flags().StringToStringVarP(&runEnv, "env", "e", nil, "Extra environment variables, name=value.")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Suppress live output; print the trimmed stdout once the command exits.")
}
