// Package google turns pre-issued OAuth client credentials and a long-lived
// refresh token into an authenticated HTTP client for Google APIs.
//
// No interactive consent flow is involved: the refresh token is exchanged
// for access tokens at https://oauth2.googleapis.com/token whenever the
// current one expires.
package google
