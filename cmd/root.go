package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the drivemenu application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &menuOptions{}

	cmd := &cobra.Command{
		Use:   "drivemenu",
		Short: "Browse and edit Google Drive from an interactive terminal menu",
		Long: `drivemenu is an interactive terminal menu for Google Drive. It lets you
browse folders, upload local files and folders, download, delete, and edit
files in your editor.

Credentials are read from the environment, optionally preloaded from a .env
file:
  CLIENT_ID       OAuth client ID
  CLIENT_SECRET   OAuth client secret
  REFRESH_TOKEN   long-lived refresh token with the Drive scope
  REDIRECT_URI    redirect URI registered for the client (optional)

Settings can also come from DRIVEMENU_EDITOR, DRIVEMENU_DOWNLOAD_DIR,
DRIVEMENU_LOG_LEVEL, DRIVEMENU_LOG_FORMAT and DRIVEMENU_ENV_FILE; flags win.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(`{{printf "drivemenu version %s\n" .Version}}`)
	cmd.Version = version

	opts.addFlags(cmd)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("drivemenu version %s\n", version)
		},
	}
}
