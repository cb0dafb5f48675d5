package google

import drive "google.golang.org/api/drive/v3"

// DriveScopes are the OAuth scopes drivemenu requests. Full Drive access is
// needed to upload, update and delete files anywhere in the user's Drive.
// The refresh token must have been issued for at least these scopes.
var DriveScopes = []string{
	drive.DriveScope,
}
