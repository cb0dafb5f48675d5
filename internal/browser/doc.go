// Package browser implements the interactive Drive menu.
//
// A Navigator shows the children of the current folder, folders first and
// then files, numbered from 1, followed by the fixed commands:
//
//	u  upload a local file or folder into the current folder
//	d  delete the current folder and go back
//	b  go back one level
//	q  quit
//
// Choosing a folder descends into it; choosing a file opens the file
// actions (download, delete, view/edit, back). Descent is kept as an
// explicit stack of Locations, so going back always restores the exact
// folder and path the user came from.
//
// Every Drive call goes through the Storage interface. Failures are printed
// and the menu continues; nothing a single command does can end the
// session except q or the end of input.
package browser
