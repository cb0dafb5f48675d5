package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/teemow/drivemenu/internal/drive"
	"github.com/teemow/drivemenu/internal/logging"
	"github.com/teemow/drivemenu/internal/progress"
)

// fileActions runs the action menu for file until the user goes back or the
// file is deleted. It reports true when input ended.
func (n *Navigator) fileActions(ctx context.Context, file *drive.Node) (bool, error) {
	for {
		n.redraw()
		n.printer.Header("\n========== File Actions ==========")
		n.printer.Printf("File: %s (%s)\n\n", file.Name, file.ID)
		n.printer.Println("Options:")
		n.printer.Println("  1. Download")
		n.printer.Println("  2. Delete")
		n.printer.Println("  3. View and Edit")
		n.printer.Println("  b. Back")
		n.printer.DiscardStatus()

		choice, err := n.prompter.Prompt("\nSelect an action: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				n.printer.Println()
				return true, nil
			}
			return false, fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.ToLower(choice) {
		case "b":
			n.record(ctx, ActionBack, nil)
			return false, nil

		case "1":
			_, err := n.download(ctx, file)
			n.record(ctx, ActionDownload, err)

		case "2":
			n.record(ctx, ActionDeleteFile, n.delete(ctx, file.ID, file.Name))
			return false, nil

		case "3":
			err := n.edit(ctx, file)
			if err != nil && !errors.Is(err, errReported) {
				n.printer.Error("Error editing or re-uploading file: %v", err)
			}
			n.record(ctx, ActionEdit, err)

		default:
			n.invalid(ctx, fmt.Errorf("%w: %q", ErrInvalidSelection, choice))
		}
	}
}

// download writes the content of file to the download directory and returns
// the local path.
func (n *Navigator) download(ctx context.Context, file *drive.Node) (string, error) {
	path := filepath.Join(n.downloadDir, localName(file.Name))

	if err := n.fetch(ctx, file, path); err != nil {
		n.logger.Debug("download failed", logging.FileID(file.ID), logging.Path(path), logging.Err(err))
		n.printer.Error("Error downloading file: %v", err)
		return "", err
	}
	n.printer.Success("File downloaded to %s", path)
	return path, nil
}

func (n *Navigator) fetch(ctx context.Context, file *drive.Node, path string) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return &OperationError{Op: "create", Target: path, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &OperationError{Op: "write", Target: path, Err: cerr}
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	reporter := n.newReporter()
	if _, err := n.storage.Download(ctx, file.ID, out, progress.Callback(reporter, "Download")); err != nil {
		reporter.Error(err)
		return &OperationError{Op: "download", Target: file.Name, Err: err}
	}
	reporter.Finish()
	return nil
}

// edit downloads file, opens it in the editor and writes the edited content
// back to the same Drive file.
func (n *Navigator) edit(ctx context.Context, file *drive.Node) error {
	path, err := n.download(ctx, file)
	if err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}

	if err := n.editor.Edit(ctx, path); err != nil {
		return &OperationError{Op: "edit", Target: path, Err: err}
	}

	n.printer.Printf("Re-uploading the file '%s' to Google Drive...\n", file.Name)
	in, err := os.Open(path)
	if err != nil {
		return &OperationError{Op: "open", Target: path, Err: err}
	}
	defer in.Close()

	reporter := n.newReporter()
	id, err := n.storage.UpdateFile(ctx, file.ID, file.Name, in, progress.Callback(reporter, "Upload"))
	if err != nil {
		reporter.Error(err)
		return &OperationError{Op: "update", Target: file.Name, Err: err}
	}
	reporter.Finish()

	n.printer.Success("File '%s' updated successfully. File ID: %s", file.Name, id)
	return nil
}

// localName turns a Drive display name into a single local path element.
func localName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
