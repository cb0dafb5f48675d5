// Package drive provides a client for the Google Drive v3 API covering the
// operations drivemenu needs:
//   - Listing the non-trashed children of a folder
//   - Uploading a new file into a folder
//   - Creating a folder
//   - Downloading file content with progress reporting
//   - Replacing the content of an existing file
//   - Deleting files and folders
//
// Every call runs inside an OpenTelemetry span, records a Drive operation
// metric, and mutating calls are written to the audit log.
//
// Example usage:
//
//	httpClient, err := auth.HTTPClient(ctx)
//	if err != nil {
//	    return err
//	}
//	client, err := drive.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	nodes, err := client.ListChildren(ctx, drive.RootFolderID)
package drive
