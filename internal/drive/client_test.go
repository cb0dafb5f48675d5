package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/teemow/drivemenu/internal/instrumentation"
)

// fakeDriveAPI is a minimal stand-in for the Drive v3 REST endpoints.
type fakeDriveAPI struct {
	mu       sync.Mutex
	requests []*recordedRequest
	files    map[string][]byte
	listing  []*drive.File
	failAll  bool
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   []byte
}

func newFakeDriveAPI(t *testing.T) (*fakeDriveAPI, *Client) {
	t.Helper()

	api := &fakeDriveAPI{files: map[string][]byte{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), srv.Client(), WithEndpoint(srv.URL+"/drive/v3/"))
	require.NoError(t, err)
	return api, client
}

func (f *fakeDriveAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, &recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
	})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.failAll {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
		return
	}

	id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
		_ = json.NewEncoder(w).Encode(&drive.FileList{Files: f.listing})
	case r.Method == http.MethodGet && r.URL.Query().Get("alt") == "media":
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(f.files[id])
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/files"):
		_ = json.NewEncoder(w).Encode(&drive.File{Id: "new-id"})
	case r.Method == http.MethodPatch:
		_ = json.NewEncoder(w).Encode(&drive.File{Id: id})
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *fakeDriveAPI) last() *recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func TestNewClient_RequiresHTTPClient(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_ListChildren(t *testing.T) {
	api, client := newFakeDriveAPI(t)
	api.listing = []*drive.File{
		{Id: "f1", Name: "notes.txt", MimeType: "text/plain"},
		{Id: "d1", Name: "Photos", MimeType: FolderMimeType},
	}

	nodes, err := client.ListChildren(context.Background(), "folder-1")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, &Node{ID: "f1", Name: "notes.txt", MimeType: "text/plain"}, nodes[0])
	assert.True(t, nodes[1].IsFolder())

	req := api.last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "'folder-1' in parents and trashed = false", req.Query["q"][0])
	assert.Equal(t, "100", req.Query["pageSize"][0])
	assert.Equal(t, "files(id, name, mimeType)", req.Query["fields"][0])
}

func TestClient_ListChildren_Error(t *testing.T) {
	api, client := newFakeDriveAPI(t)
	api.failAll = true

	_, err := client.ListChildren(context.Background(), "missing")
	require.Error(t, err)

	var gerr *googleapi.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusNotFound, gerr.Code)
	assert.Contains(t, err.Error(), "missing")
}

func TestClient_CreateFile(t *testing.T) {
	api, client := newFakeDriveAPI(t)

	id, err := client.CreateFile(context.Background(), "hello.txt", "root", strings.NewReader("hello world"), nil)
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.True(t, strings.HasPrefix(req.Path, "/upload/"), "media uploads go to the upload endpoint, got %s", req.Path)
	assert.Contains(t, string(req.Body), `"name":"hello.txt"`)
	assert.Contains(t, string(req.Body), `"parents":["root"]`)
	assert.Contains(t, string(req.Body), "hello world")
}

func TestClient_CreateFile_Validation(t *testing.T) {
	_, client := newFakeDriveAPI(t)

	_, err := client.CreateFile(context.Background(), "", "root", strings.NewReader("x"), nil)
	assert.Error(t, err)

	_, err = client.CreateFile(context.Background(), "a.txt", "root", nil, nil)
	assert.Error(t, err)
}

func TestClient_CreateFolder(t *testing.T) {
	api, client := newFakeDriveAPI(t)

	id, err := client.CreateFolder(context.Background(), "Projects", "parent-1")
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.False(t, strings.HasPrefix(req.Path, "/upload/"))

	var meta drive.File
	require.NoError(t, json.Unmarshal(req.Body, &meta))
	assert.Equal(t, "Projects", meta.Name)
	assert.Equal(t, FolderMimeType, meta.MimeType)
	assert.Equal(t, []string{"parent-1"}, meta.Parents)
}

func TestClient_Download(t *testing.T) {
	api, client := newFakeDriveAPI(t)
	api.files["file-1"] = bytes.Repeat([]byte("x"), 4096)

	var calls int
	var last int64
	var buf bytes.Buffer
	n, err := client.Download(context.Background(), "file-1", &buf, func(current, total int64) {
		calls++
		last = current
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)
	assert.Equal(t, 4096, buf.Len())
	assert.Positive(t, calls)
	assert.Equal(t, int64(4096), last)

	req := api.last()
	assert.Equal(t, "media", req.Query["alt"][0])
	assert.True(t, strings.HasSuffix(req.Path, "/files/file-1"))
}

func TestClient_Download_Error(t *testing.T) {
	api, client := newFakeDriveAPI(t)
	api.failAll = true

	var buf bytes.Buffer
	_, err := client.Download(context.Background(), "file-1", &buf, nil)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestClient_UpdateFile(t *testing.T) {
	api, client := newFakeDriveAPI(t)

	id, err := client.UpdateFile(context.Background(), "file-7", "notes.txt", strings.NewReader("edited"), nil)
	require.NoError(t, err)
	assert.Equal(t, "file-7", id)

	req := api.last()
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/files/file-7"))
	assert.Contains(t, string(req.Body), "edited")
}

func TestClient_Delete(t *testing.T) {
	api, client := newFakeDriveAPI(t)

	require.NoError(t, client.Delete(context.Background(), "file-9"))

	req := api.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/files/file-9"))
}

func TestClient_Delete_Error(t *testing.T) {
	api, client := newFakeDriveAPI(t)
	api.failAll = true

	err := client.Delete(context.Background(), "file-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file-9")
}

func TestClient_RequiresIDs(t *testing.T) {
	_, client := newFakeDriveAPI(t)
	ctx := context.Background()

	_, err := client.ListChildren(ctx, "")
	assert.Error(t, err)
	_, err = client.Download(ctx, "", io.Discard, nil)
	assert.Error(t, err)
	_, err = client.UpdateFile(ctx, "", "x", strings.NewReader("x"), nil)
	assert.Error(t, err)
	assert.Error(t, client.Delete(ctx, ""))
	_, err = client.CreateFolder(ctx, "", "root")
	assert.Error(t, err)
}

func TestClient_WithInstrumentation(t *testing.T) {
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	require.NoError(t, err)

	api := &fakeDriveAPI{files: map[string][]byte{}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client, err := NewClient(context.Background(), srv.Client(),
		WithEndpoint(srv.URL+"/drive/v3/"),
		WithMetrics(provider.Metrics()),
		WithAuditLogger(provider.AuditLogger()),
	)
	require.NoError(t, err)

	// Should not panic with no-op instruments
	require.NoError(t, client.Delete(context.Background(), "file-1"))
}

func TestClient_DebugLog(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	api := &fakeDriveAPI{files: map[string][]byte{}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient(context.Background(), srv.Client(),
		WithEndpoint(srv.URL+"/drive/v3/"),
		WithLogger(logger),
	)
	require.NoError(t, err)

	ctx, span := tp.Tracer("test").Start(context.Background(), "menu")
	defer span.End()
	require.NoError(t, client.Delete(ctx, "file-1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "drive call", entry["msg"])
	assert.Equal(t, instrumentation.OperationDelete, entry["operation"])
	assert.Equal(t, instrumentation.ServiceDrive, entry["service"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
}

func TestConvertToNode(t *testing.T) {
	node := convertToNode(&drive.File{
		Id:       "file123",
		Name:     "test.pdf",
		MimeType: "application/pdf",
		Size:     1024,
	})

	assert.Equal(t, "file123", node.ID)
	assert.Equal(t, "test.pdf", node.Name)
	assert.Equal(t, "application/pdf", node.MimeType)
	assert.Equal(t, KindFile, node.Kind())
	assert.False(t, node.IsFolder())
}

func TestNode_Kind(t *testing.T) {
	folder := &Node{MimeType: FolderMimeType}
	assert.Equal(t, KindFolder, folder.Kind())
	assert.Equal(t, "folder", folder.Kind().String())

	doc := &Node{MimeType: "application/vnd.google-apps.document"}
	assert.Equal(t, KindFile, doc.Kind())
	assert.Equal(t, "file", doc.Kind().String())
}

func TestFolderMimeType(t *testing.T) {
	assert.Equal(t, "application/vnd.google-apps.folder", FolderMimeType)
}

func TestBuildChildrenQuery(t *testing.T) {
	tests := []struct {
		name     string
		folderID string
		expected string
	}{
		{
			name:     "root alias",
			folderID: "root",
			expected: "'root' in parents and trashed = false",
		},
		{
			name:     "opaque id",
			folderID: "1a2B3c_-XyZ",
			expected: "'1a2B3c_-XyZ' in parents and trashed = false",
		},
		{
			name:     "quote is escaped",
			folderID: "it's",
			expected: `'it\'s' in parents and trashed = false`,
		},
		{
			name:     "backslash is escaped",
			folderID: `a\b`,
			expected: `'a\\b' in parents and trashed = false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildChildrenQuery(tt.folderID)
			if result != tt.expected {
				t.Errorf("buildChildrenQuery(%q) = %q, want %q", tt.folderID, result, tt.expected)
			}
		})
	}
}
