package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/teemow/drivemenu/internal/drive"
	"github.com/teemow/drivemenu/internal/editor"
	"github.com/teemow/drivemenu/internal/instrumentation"
	"github.com/teemow/drivemenu/internal/logging"
	"github.com/teemow/drivemenu/internal/progress"
	"github.com/teemow/drivemenu/internal/terminal"
	"github.com/teemow/drivemenu/internal/uploader"
)

// Menu actions recorded in metrics.
const (
	ActionOpenFolder   = "open_folder"
	ActionOpenFile     = "open_file"
	ActionUpload       = "upload"
	ActionDeleteFolder = "delete_folder"
	ActionBack         = "back"
	ActionQuit         = "quit"
	ActionDownload     = "download"
	ActionDeleteFile   = "delete_file"
	ActionEdit         = "edit"
	ActionInvalid      = "invalid"
)

// Storage is the Drive client as seen by the menu.
type Storage interface {
	uploader.Storage
	ListChildren(ctx context.Context, folderID string) ([]*drive.Node, error)
	Download(ctx context.Context, fileID string, w io.Writer, progress drive.ProgressFunc) (int64, error)
	UpdateFile(ctx context.Context, fileID, name string, content io.Reader, progress drive.ProgressFunc) (string, error)
	Delete(ctx context.Context, fileID string) error
}

// TreeUploader uploads a local path into a Drive folder.
type TreeUploader interface {
	Upload(ctx context.Context, localPath, parentID string) uploader.Summary
}

// Config holds the collaborators of a Navigator. Storage, Prompter and
// Printer are required.
type Config struct {
	Storage  Storage
	Uploader TreeUploader
	Editor   editor.Editor
	Prompter *terminal.Prompter
	Printer  *terminal.Printer
	Screen   *terminal.Screen

	// DownloadDir is where downloaded and edited files are written.
	DownloadDir string

	// Progress creates a reporter per transfer.
	Progress func() progress.Reporter

	Metrics *instrumentation.Metrics
	Logger  logging.Logger
}

// Navigator runs the folder menu.
type Navigator struct {
	storage     Storage
	uploader    TreeUploader
	editor      editor.Editor
	prompter    *terminal.Prompter
	printer     *terminal.Printer
	screen      *terminal.Screen
	downloadDir string
	newReporter func() progress.Reporter
	metrics     *instrumentation.Metrics
	logger      logging.Logger
}

// New creates a Navigator, filling in defaults for optional collaborators.
func New(cfg Config) (*Navigator, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Prompter == nil {
		return nil, fmt.Errorf("prompter is required")
	}
	if cfg.Printer == nil {
		return nil, fmt.Errorf("printer is required")
	}

	n := &Navigator{
		storage:     cfg.Storage,
		uploader:    cfg.Uploader,
		editor:      cfg.Editor,
		prompter:    cfg.Prompter,
		printer:     cfg.Printer,
		screen:      cfg.Screen,
		downloadDir: cfg.DownloadDir,
		newReporter: cfg.Progress,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
	if n.logger == nil {
		n.logger = logging.Discard()
	}
	if n.uploader == nil {
		n.uploader = uploader.New(cfg.Storage, cfg.Printer, uploader.WithLogger(n.logger))
	}
	if n.editor == nil {
		n.editor = editor.New("")
	}
	if n.screen == nil {
		n.screen = terminal.NewScreen(cfg.Printer.Writer())
	}
	if n.downloadDir == "" {
		n.downloadDir = "."
	}
	if n.newReporter == nil {
		n.newReporter = func() progress.Reporter { return progress.NewNoOpProgress() }
	}
	return n, nil
}

// Run shows the menu starting at start until the user quits, backs out of
// start, or input ends. Only errors reading input are returned.
func (n *Navigator) Run(ctx context.Context, start Location) error {
	stack := []Location{start}

	for len(stack) > 0 {
		loc := stack[len(stack)-1]
		idx := n.render(ctx, loc)

		choice, err := n.prompter.Prompt("\nSelect an option: ")
		if err != nil {
			return n.endOfInput(ctx, err)
		}
		choice = strings.ToLower(choice)

		switch choice {
		case "q":
			n.quit(ctx)
			return nil

		case "b":
			n.record(ctx, ActionBack, nil)
			stack = stack[:len(stack)-1]

		case "u":
			path, err := n.prompter.Prompt("Enter the path of the file or folder to upload: ")
			if err != nil {
				return n.endOfInput(ctx, err)
			}
			summary := n.uploader.Upload(ctx, path, loc.FolderID)
			n.record(ctx, ActionUpload, summary.Err())

		case "d":
			if loc.IsRoot() {
				n.printer.Warn("Cannot delete the root folder.")
				n.record(ctx, ActionDeleteFolder, errRootFolder)
				continue
			}
			n.record(ctx, ActionDeleteFolder, n.delete(ctx, loc.FolderID, loc.Path))
			stack = stack[:len(stack)-1]

		default:
			i, err := parseSelection(choice, idx)
			if err != nil {
				n.invalid(ctx, err)
				continue
			}

			node, _ := idx.Lookup(i)
			if node.IsFolder() {
				n.record(ctx, ActionOpenFolder, nil)
				stack = append(stack, loc.Child(node))
				continue
			}

			n.record(ctx, ActionOpenFile, nil)
			quit, err := n.fileActions(ctx, node)
			if err != nil {
				return err
			}
			if quit {
				n.quit(ctx)
				return nil
			}
		}
	}
	return nil
}

// render lists loc and prints the menu. A failed listing is reported and
// shown as empty.
func (n *Navigator) render(ctx context.Context, loc Location) *MenuIndex {
	n.redraw()
	defer n.printer.DiscardStatus()

	n.printer.Header("\n========== Google Drive Menu ==========")
	n.printer.Printf("Current Path: %s\n\n", loc.Path)

	nodes, err := n.storage.ListChildren(ctx, loc.FolderID)
	if err != nil {
		opErr := &OperationError{Op: "list", Target: loc.Path, Err: err}
		n.logger.Debug("listing failed", logging.ParentID(loc.FolderID), logging.Err(err))
		n.printer.Error("Error listing files: %v", opErr)
		nodes = nil
	}
	idx := NewMenuIndex(nodes)

	i := 1
	n.printer.Println("Folders:")
	for _, f := range idx.Folders() {
		n.printer.Printf("  %d. %s (Folder)\n", i, f.Name)
		i++
	}
	n.printer.Println("\nFiles:")
	for _, f := range idx.Files() {
		n.printer.Printf("  %d. %s\n", i, f.Name)
		i++
	}

	n.printer.Println("\nOptions:")
	n.printer.Println("  u. Upload a file or folder")
	n.printer.Println("  d. Delete this folder")
	n.printer.Println("  b. Back")
	n.printer.Println("  q. Quit")
	return idx
}

// delete removes fileID and reports the outcome.
func (n *Navigator) delete(ctx context.Context, fileID, target string) error {
	if err := n.storage.Delete(ctx, fileID); err != nil {
		opErr := &OperationError{Op: "delete", Target: target, Err: err}
		n.logger.Debug("delete failed", logging.FileID(fileID), logging.Err(err))
		n.printer.Error("Error deleting file or folder: %v", opErr)
		return opErr
	}
	n.printer.Success("File or folder deleted successfully.")
	return nil
}

func (n *Navigator) invalid(ctx context.Context, err error) {
	n.logger.Debug("invalid menu input", logging.Err(err))
	n.record(ctx, ActionInvalid, err)
	n.printer.Warn("Invalid selection. Please try again.")
}

// redraw clears the screen before a menu is drawn and repeats the status
// lines of the last action below it.
func (n *Navigator) redraw() {
	if n.screen.Clear() {
		n.printer.ReplayStatus()
		return
	}
	n.printer.DiscardStatus()
}

func (n *Navigator) quit(ctx context.Context) {
	n.record(ctx, ActionQuit, nil)
	n.screen.Clear()
}

// endOfInput treats a closed input stream as q.
func (n *Navigator) endOfInput(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) {
		n.printer.Println()
		n.quit(ctx)
		return nil
	}
	return fmt.Errorf("failed to read input: %w", err)
}

func (n *Navigator) record(ctx context.Context, action string, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	n.metrics.RecordMenuAction(ctx, action, status)
}
