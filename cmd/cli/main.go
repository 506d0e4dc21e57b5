package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/cmd/cli/commands"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	commands.RootCmd.AddCommand(commands.GetJobsCmd())

	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
