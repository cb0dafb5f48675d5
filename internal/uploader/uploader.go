// Package uploader copies a local file or directory tree into a Drive folder.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/teemow/drivemenu/internal/drive"
	"github.com/teemow/drivemenu/internal/logging"
	"github.com/teemow/drivemenu/internal/progress"
	"github.com/teemow/drivemenu/internal/terminal"
)

// ErrInvalidPath is returned for a local path that does not exist or cannot
// be inspected.
var ErrInvalidPath = errors.New("invalid path")

// Storage is the part of the Drive client the uploader needs.
type Storage interface {
	CreateFile(ctx context.Context, name, parentID string, content io.Reader, progress drive.ProgressFunc) (string, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
}

// Failure records one path that could not be uploaded.
type Failure struct {
	Path string
	Err  error
}

// Summary is the outcome of one Upload call.
type Summary struct {
	FoldersCreated int
	FilesUploaded  int
	Failures       []Failure
	// Skipped lists symlinks to directories found inside the tree. They are
	// not followed.
	Skipped []string
}

// Failed reports whether anything went wrong.
func (s Summary) Failed() bool {
	return len(s.Failures) > 0
}

// Err joins all failures, or returns nil.
func (s Summary) Err() error {
	errs := make([]error, len(s.Failures))
	for i, f := range s.Failures {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// Uploader mirrors local paths into Drive.
type Uploader struct {
	storage     Storage
	printer     *terminal.Printer
	logger      logging.Logger
	newReporter func() progress.Reporter
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(u *Uploader) { u.logger = logger }
}

// WithProgress sets the factory for per-file upload progress reporters.
func WithProgress(newReporter func() progress.Reporter) Option {
	return func(u *Uploader) { u.newReporter = newReporter }
}

// New creates an Uploader that reports to printer.
func New(storage Storage, printer *terminal.Printer, opts ...Option) *Uploader {
	u := &Uploader{
		storage:     storage,
		printer:     printer,
		logger:      logging.Discard(),
		newReporter: func() progress.Reporter { return progress.NewNoOpProgress() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload uploads localPath under parentID. A file becomes a new file named
// after its base name; a directory becomes a new folder with every entry
// uploaded into it. Failures are reported and do not stop the siblings of
// the failing entry. Symlinks inside a directory are uploaded when they
// point at a file and skipped when they point at a directory.
func (u *Uploader) Upload(ctx context.Context, localPath, parentID string) Summary {
	var s Summary
	if info, err := os.Stat(localPath); err != nil {
		u.invalid(localPath, err, &s)
	} else {
		u.upload(ctx, localPath, info, parentID, &s)
	}

	u.logger.Info("upload finished",
		logging.Path(localPath),
		logging.ParentID(parentID),
		"folders", s.FoldersCreated,
		"files", s.FilesUploaded,
		"skipped", len(s.Skipped),
		"failures", len(s.Failures))
	return s
}

func (u *Uploader) upload(ctx context.Context, localPath string, info os.FileInfo, parentID string, s *Summary) {
	switch {
	case info.Mode().IsRegular():
		u.uploadFile(ctx, localPath, info.Size(), parentID, s)
	case info.IsDir():
		u.uploadDir(ctx, localPath, parentID, s)
	default:
		u.invalid(localPath, fmt.Errorf("unsupported file mode %s", info.Mode()), s)
	}
}

func (u *Uploader) uploadFile(ctx context.Context, localPath string, size int64, parentID string, s *Summary) {
	name := filepath.Base(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		u.fail(localPath, err, s)
		return
	}
	defer f.Close()

	reporter := u.newReporter()
	reporter.Start(size, "Upload")
	id, err := u.storage.CreateFile(ctx, name, parentID, f, func(current, _ int64) {
		reporter.Update(current)
	})
	if err != nil {
		reporter.Error(err)
		u.fail(localPath, err, s)
		return
	}
	reporter.Finish()

	s.FilesUploaded++
	u.printer.Success("File '%s' uploaded successfully. File ID: %s", name, id)
}

func (u *Uploader) uploadDir(ctx context.Context, localPath, parentID string, s *Summary) {
	name := filepath.Base(localPath)

	id, err := u.storage.CreateFolder(ctx, name, parentID)
	if err != nil {
		// nothing to put the children under
		u.fail(localPath, err, s)
		return
	}
	s.FoldersCreated++
	u.printer.Success("Folder '%s' created successfully. Folder ID: %s", name, id)

	entries, err := os.ReadDir(localPath)
	if err != nil {
		u.fail(localPath, err, s)
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			u.fail(localPath, ctx.Err(), s)
			return
		}
		u.uploadEntry(ctx, filepath.Join(localPath, entry.Name()), id, s)
	}
}

// uploadEntry uploads one directory entry without following symlinks to
// directories, so a link back up the tree cannot recurse.
func (u *Uploader) uploadEntry(ctx context.Context, localPath, parentID string, s *Summary) {
	info, err := os.Lstat(localPath)
	if err != nil {
		u.invalid(localPath, err, s)
		return
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Stat(localPath)
		if err != nil {
			u.invalid(localPath, err, s)
			return
		}
		if target.IsDir() {
			s.Skipped = append(s.Skipped, localPath)
			u.logger.Debug("skipping symlinked folder", logging.Path(localPath))
			u.printer.Warn("Skipping symlinked folder '%s'", localPath)
			return
		}
		info = target
	}
	u.upload(ctx, localPath, info, parentID, s)
}

func (u *Uploader) invalid(localPath string, cause error, s *Summary) {
	err := fmt.Errorf("%w: %s: %w", ErrInvalidPath, localPath, cause)
	s.Failures = append(s.Failures, Failure{Path: localPath, Err: err})
	u.logger.Debug("invalid upload path", logging.Path(localPath), logging.Err(cause))
	u.printer.Error("Invalid path. Please provide a valid file or folder path.")
}

func (u *Uploader) fail(localPath string, err error, s *Summary) {
	s.Failures = append(s.Failures, Failure{Path: localPath, Err: err})
	u.logger.Debug("upload failed", logging.Path(localPath), logging.Err(err))
	u.printer.Error("Error uploading '%s': %v", localPath, err)
}
