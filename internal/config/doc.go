// Package config loads the settings drivemenu needs at startup.
//
// Google credentials are read from the process environment, optionally
// preloaded from a .env file:
//
//	CLIENT_ID, CLIENT_SECRET, REFRESH_TOKEN, REDIRECT_URI
//
// Application settings (editor, download directory, logging) have
// environment defaults prefixed with DRIVEMENU_ and can be overridden by
// command-line flags.
package config
