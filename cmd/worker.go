package cmd

import (
	"fmt"
	"os"

	"github.com/kanzihuang/shellexec/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// workerCmd starts a worker exposing the configured commands as activities.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "start worker with command activities",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := worker.Run(
			viper.GetString("address"),
			viper.GetString("namespace"),
			viper.GetString("task-queue"),
			viper.GetStringMapString("activity"),
		); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().StringToStringP("activity", "a", nil, "Mapping activity name to shell command.")

	if err := viper.BindPFlags(workerCmd.Flags()); err != nil {
		panic(fmt.Sprintf("error while binding pflags: %v", err))
	}
}
