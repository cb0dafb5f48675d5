// Package cmd implements the command-line interface for drivemenu.
//
// Running drivemenu without a subcommand starts the interactive Drive menu
// at My Drive. The version subcommand prints the build version.
package cmd
