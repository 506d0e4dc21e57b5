package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/routes"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagActorID       = "actor-id"
	flagActorRole     = "actor-role"
)

// environment variable names
const (
	envServerAddress = "BUILDSTATE_SERVER_ADDRESS"
	envActorID       = "BUILDSTATE_ACTOR_ID"
	envActorRole     = "BUILDSTATE_ACTOR_ROLE"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// actorID and actorRole identify the caller on every request
	actorID   uint
	actorRole string
)

// initClient initializes the API client
func initClient() error {
	role, err := models.ParseUserRole(actorRole)
	if err != nil {
		return err
	}

	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.ActorID = actorID
	opts.ActorRole = role

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	// Basic defaults; PersistentPreRunE handles the env var overrides.
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the API server (env: BUILDSTATE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().UintVarP(&actorID, flagActorID, "a", 0, "User ID acting on jobs (env: BUILDSTATE_ACTOR_ID)")
	RootCmd.PersistentFlags().StringVarP(&actorRole, flagActorRole, "r", string(models.UserRoleManager), "Role of the acting user (env: BUILDSTATE_ACTOR_ROLE)")
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "buildstate",
	Short: "Buildstate CLI - A command line interface for the job API",
	Long:  `Buildstate CLI is a command line tool for managing maintenance jobs through the Buildstate API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Precedence per value: flag > env var > default
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagActorID) {
			if envID := os.Getenv(envActorID); envID != "" {
				id, err := strconv.ParseUint(envID, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid %s: %w", envActorID, err)
				}
				actorID = uint(id)
			}
		}
		if !cmd.Flags().Changed(flagActorRole) {
			if envRole := os.Getenv(envActorRole); envRole != "" {
				actorRole = envRole
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		if actorID == 0 {
			return fmt.Errorf("required flag \"%s\" not set", flagActorID)
		}

		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
