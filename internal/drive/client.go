package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/drivemenu/internal/instrumentation"
	"github.com/teemow/drivemenu/internal/logging"
)

// DefaultChunkSize is the media chunk size. Files larger than this are sent
// with a resumable upload and report progress per chunk.
const DefaultChunkSize = 8 * 1024 * 1024

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	logger   *slog.Logger
	endpoint string
}

// WithMetrics records every Drive call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithAuditLogger writes mutating calls to al.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(o *clientOptions) { o.audit = al }
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithEndpoint points the client at a different API base URL. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) { o.endpoint = endpoint }
}

// NewClient creates a Drive client that sends requests through httpClient,
// which is expected to carry OAuth2 authentication.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	apiOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		apiOpts = append(apiOpts, option.WithEndpoint(o.endpoint))
	}

	driveService, err := drive.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
		metrics: o.metrics,
		audit:   o.audit,
		logger:  logging.WithService(o.logger, instrumentation.ServiceDrive),
	}, nil
}

// ListChildren lists the non-trashed immediate children of folderID, at most
// MaxPageSize of them, in the order Drive returns them.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]*Node, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}

	var nodes []*Node
	err := c.observe(ctx, instrumentation.OperationList, nil,
		instrumentation.NewSpanAttributeBuilder().WithParentID(folderID).Build(),
		func(ctx context.Context, span trace.Span) error {
			fileList, err := c.service.Files.List().
				Context(ctx).
				Q(buildChildrenQuery(folderID)).
				PageSize(MaxPageSize).
				Fields("files(id, name, mimeType)").
				Do()
			if err != nil {
				return fmt.Errorf("failed to list folder %s: %w", folderID, err)
			}

			nodes = make([]*Node, len(fileList.Files))
			for i, f := range fileList.Files {
				nodes[i] = convertToNode(f)
			}
			span.SetAttributes(attribute.Int(instrumentation.SpanAttrItemCount, len(nodes)))
			return nil
		})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// CreateFile uploads content as a new file named name inside parentID and
// returns the new file's ID.
func (c *Client) CreateFile(ctx context.Context, name, parentID string, content io.Reader, progress ProgressFunc) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is required")
	}
	if content == nil {
		return "", fmt.Errorf("file content is required")
	}

	action := instrumentation.NewDriveAction(instrumentation.ActionUpload).WithTarget("", parentID, name, "")
	var id string
	err := c.observe(ctx, instrumentation.OperationCreate, action,
		instrumentation.NewSpanAttributeBuilder().WithParentID(parentID).Build(),
		func(ctx context.Context, span trace.Span) error {
			file := &drive.File{Name: name}
			if parentID != "" {
				file.Parents = []string{parentID}
			}

			counter := &countingReader{r: content}
			call := c.service.Files.Create(file).
				Context(ctx).
				Media(counter, googleapi.ChunkSize(DefaultChunkSize)).
				Fields("id")
			if progress != nil {
				call = call.ProgressUpdater(googleapi.ProgressUpdater(progress))
			}

			driveFile, err := call.Do()
			if err != nil {
				return fmt.Errorf("failed to upload file %s: %w", name, err)
			}
			id = driveFile.Id
			action.FileID = id
			span.SetAttributes(attribute.String(instrumentation.SpanAttrFileID, id))
			c.metrics.RecordTransferBytes(ctx, instrumentation.DirectionUpload, counter.n)
			return nil
		})
	return id, err
}

// CreateFolder creates a folder named name inside parentID and returns its ID.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("folder name is required")
	}

	action := instrumentation.NewDriveAction(instrumentation.ActionCreateFolder).WithTarget("", parentID, name, "")
	var id string
	err := c.observe(ctx, instrumentation.OperationMkdir, action,
		instrumentation.NewSpanAttributeBuilder().WithParentID(parentID).Build(),
		func(ctx context.Context, span trace.Span) error {
			file := &drive.File{
				Name:     name,
				MimeType: FolderMimeType,
			}
			if parentID != "" {
				file.Parents = []string{parentID}
			}

			driveFile, err := c.service.Files.Create(file).
				Context(ctx).
				Fields("id").
				Do()
			if err != nil {
				return fmt.Errorf("failed to create folder %s: %w", name, err)
			}
			id = driveFile.Id
			action.FileID = id
			span.SetAttributes(attribute.String(instrumentation.SpanAttrFileID, id))
			return nil
		})
	return id, err
}

// Download streams the content of fileID into w and returns the number of
// bytes written. progress, if set, is called as bytes arrive.
func (c *Client) Download(ctx context.Context, fileID string, w io.Writer, progress ProgressFunc) (int64, error) {
	if fileID == "" {
		return 0, fmt.Errorf("fileID is required")
	}
	if w == nil {
		return 0, fmt.Errorf("destination writer is required")
	}

	var written int64
	err := c.observe(ctx, instrumentation.OperationDownload, nil,
		instrumentation.NewSpanAttributeBuilder().WithFileID(fileID).Build(),
		func(ctx context.Context, span trace.Span) error {
			resp, err := c.service.Files.Get(fileID).
				Context(ctx).
				Download()
			if err != nil {
				return fmt.Errorf("failed to download file %s: %w", fileID, err)
			}
			defer resp.Body.Close()

			var body io.Reader = resp.Body
			if progress != nil {
				body = &progressReader{r: resp.Body, total: resp.ContentLength, progress: progress}
			}

			written, err = io.Copy(w, body)
			c.metrics.RecordTransferBytes(ctx, instrumentation.DirectionDownload, written)
			span.SetAttributes(attribute.Int64(instrumentation.SpanAttrBytes, written))
			if err != nil {
				return fmt.Errorf("failed to read content of file %s: %w", fileID, err)
			}
			return nil
		})
	return written, err
}

// UpdateFile replaces the content of fileID with content, keeping the same
// ID, and renames it to name when name is not empty. It returns the file ID
// reported by Drive.
func (c *Client) UpdateFile(ctx context.Context, fileID, name string, content io.Reader, progress ProgressFunc) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("fileID is required")
	}
	if content == nil {
		return "", fmt.Errorf("file content is required")
	}

	action := instrumentation.NewDriveAction(instrumentation.ActionUpdate).WithTarget(fileID, "", name, "")
	var id string
	err := c.observe(ctx, instrumentation.OperationUpdate, action,
		instrumentation.NewSpanAttributeBuilder().WithFileID(fileID).Build(),
		func(ctx context.Context, span trace.Span) error {
			counter := &countingReader{r: content}
			call := c.service.Files.Update(fileID, &drive.File{Name: name}).
				Context(ctx).
				Media(counter, googleapi.ChunkSize(DefaultChunkSize)).
				Fields("id")
			if progress != nil {
				call = call.ProgressUpdater(googleapi.ProgressUpdater(progress))
			}

			driveFile, err := call.Do()
			if err != nil {
				return fmt.Errorf("failed to update file %s: %w", fileID, err)
			}
			id = driveFile.Id
			c.metrics.RecordTransferBytes(ctx, instrumentation.DirectionUpload, counter.n)
			return nil
		})
	return id, err
}

// Delete permanently deletes a file or folder. Deleting a folder removes
// everything below it.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	action := instrumentation.NewDriveAction(instrumentation.ActionDelete).WithTarget(fileID, "", "", "")
	return c.observe(ctx, instrumentation.OperationDelete, action,
		instrumentation.NewSpanAttributeBuilder().WithFileID(fileID).Build(),
		func(ctx context.Context, _ trace.Span) error {
			if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
				return fmt.Errorf("failed to delete %s: %w", fileID, err)
			}
			return nil
		})
}

// observe runs fn inside a Drive span and records its outcome as a metric,
// a debug log line and, when action is set, an audit entry.
func (c *Client) observe(ctx context.Context, operation string, action *instrumentation.DriveAction, attrs []attribute.KeyValue, fn func(context.Context, trace.Span) error) error {
	ctx, span := instrumentation.StartDriveSpan(ctx, operation, attrs...)
	defer span.End()

	start := time.Now()
	err := fn(ctx, span)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}

	c.metrics.RecordDriveOperation(ctx, operation, status, duration)
	logging.WithOperation(c.logger, operation).Debug("drive call",
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		logging.TraceID(instrumentation.GetTraceID(ctx)),
		logging.Err(err))

	if action != nil {
		c.audit.LogAction(ctx, action.WithSpanContext(ctx).Complete(err))
	}
	return err
}

// buildChildrenQuery returns the Drive query selecting the non-trashed
// children of folderID.
func buildChildrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", escapeQueryValue(folderID))
}

// escapeQueryValue escapes a value for use inside a single-quoted Drive
// query string literal.
func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// convertToNode converts a Drive API File to a Node
func convertToNode(f *drive.File) *Node {
	return &Node{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
	}
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// progressReader reports cumulative bytes read after every Read.
type progressReader struct {
	r        io.Reader
	total    int64
	current  int64
	progress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.current += int64(n)
		pr.progress(pr.current, pr.total)
	}
	return n, err
}
