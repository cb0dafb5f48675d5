package drive

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// RootFolderID is the alias Drive accepts for the user's My Drive root.
	RootFolderID = "root"

	// MaxPageSize is the number of children fetched per listing.
	MaxPageSize = 100
)

// Kind distinguishes folders from everything else.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node is a file or folder as returned by a listing.
type Node struct {
	// ID is the opaque Drive identifier
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// MimeType is the Drive MIME type; folders use FolderMimeType
	MimeType string `json:"mimeType"`
}

// Kind reports whether the node is a folder or a file.
func (n *Node) Kind() Kind {
	if n.MimeType == FolderMimeType {
		return KindFolder
	}
	return KindFile
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Kind() == KindFolder
}

// ProgressFunc receives the number of bytes transferred so far and the
// total, which is -1 when unknown.
type ProgressFunc func(current, total int64)
