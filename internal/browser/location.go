package browser

import (
	"github.com/teemow/drivemenu/internal/drive"
)

// RootPath is the display path of the Drive root.
const RootPath = "My Drive"

// pathSeparator joins display path segments.
const pathSeparator = " > "

// Location is a folder being viewed together with its display path.
type Location struct {
	FolderID string
	Path     string
}

// RootLocation returns the Location of the user's My Drive.
func RootLocation() Location {
	return Location{FolderID: drive.RootFolderID, Path: RootPath}
}

// IsRoot reports whether l is the Drive root.
func (l Location) IsRoot() bool {
	return l.FolderID == drive.RootFolderID
}

// Child returns the Location of folder inside l.
func (l Location) Child(folder *drive.Node) Location {
	return Location{FolderID: folder.ID, Path: l.Path + pathSeparator + folder.Name}
}

// MenuIndex maps the numbers shown in a listing to nodes. Folders come
// first, then files, numbered consecutively from 1.
type MenuIndex struct {
	folders []*drive.Node
	files   []*drive.Node
}

// NewMenuIndex builds the index for one listing, keeping the listing order
// within each group.
func NewMenuIndex(nodes []*drive.Node) *MenuIndex {
	idx := &MenuIndex{}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.IsFolder() {
			idx.folders = append(idx.folders, n)
		} else {
			idx.files = append(idx.files, n)
		}
	}
	return idx
}

// Len is the number of selectable entries.
func (m *MenuIndex) Len() int {
	return len(m.folders) + len(m.files)
}

// Folders returns the folder entries in display order.
func (m *MenuIndex) Folders() []*drive.Node {
	return m.folders
}

// Files returns the file entries in display order.
func (m *MenuIndex) Files() []*drive.Node {
	return m.files
}

// Lookup returns the node shown with number i.
func (m *MenuIndex) Lookup(i int) (*drive.Node, bool) {
	switch {
	case i < 1 || i > m.Len():
		return nil, false
	case i <= len(m.folders):
		return m.folders[i-1], true
	default:
		return m.files[i-1-len(m.folders)], true
	}
}
