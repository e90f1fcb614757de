package assets

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"site-edge/internal/model"
)

const indexFile = "index.html"

// sniffLen is the number of leading bytes http.DetectContentType looks at.
const sniffLen = 512

// FSStore serves files from an fs.FS: a build directory via os.DirFS or the
// embedded default site.
type FSStore struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewFSStore creates an FSStore over fsys.
func NewFSStore(fsys fs.FS, logger *slog.Logger) *FSStore {
	return &FSStore{
		fsys:   fsys,
		logger: logger.With("component", "fs_store"),
	}
}

// Fetch resolves req against the file tree. Only GET and HEAD are served.
// Directories resolve to their index.html and extension-less paths may
// resolve to "<path>.html". Missing files yield a 404 response; other file
// system faults are returned as errors.
func (s *FSStore) Fetch(req *model.AssetRequest) (*model.AssetResponse, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return methodNotAllowed(), nil
	}

	urlPath := "/"
	if req.URL != nil {
		urlPath = req.URL.Path
	}

	name, info, err := s.resolve(urlPath)
	if isNotFound(err) {
		s.logger.Debug("asset not found", "path", urlPath)
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(name)
	if isNotFound(err) {
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	header.Set("Cache-Control", cacheControl(name))
	if mod := info.ModTime(); !mod.IsZero() {
		header.Set("Last-Modified", mod.UTC().Format(http.TimeFormat))
	}

	var body io.ReadCloser = f
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		// Using io.ReadFull because a single Read may return fewer bytes.
		var buf [sniffLen]byte
		n, err := io.ReadFull(f, buf[:])
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			_ = f.Close()
			return nil, err
		}
		contentType = http.DetectContentType(buf[:n])
		body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf[:n]), f), Closer: f}
	}
	header.Set("Content-Type", contentType)

	if req.Method == http.MethodHead {
		_ = f.Close()
		body = http.NoBody
	}

	s.logger.Debug("serving asset", "path", urlPath, "file", name)

	return &model.AssetResponse{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       body,
	}, nil
}

// resolve maps a URL path to a regular file inside the tree.
func (s *FSStore) resolve(urlPath string) (string, fs.FileInfo, error) {
	// Rooting the path before cleaning keeps ".." from escaping the tree.
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(s.fsys, name)
	switch {
	case err == nil && info.IsDir():
		return s.regular(path.Join(name, indexFile))
	case err == nil:
		if !info.Mode().IsRegular() {
			return "", nil, fs.ErrNotExist
		}
		return name, info, nil
	case isNotFound(err) && path.Ext(name) == "":
		return s.regular(name + ".html")
	default:
		return "", nil, err
	}
}

func (s *FSStore) regular(name string) (string, fs.FileInfo, error) {
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		return "", nil, fs.ErrNotExist
	}
	return name, info, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid)
}

// cacheControl returns the caching policy for a served file: HTML is always
// revalidated, everything else may be cached for ten minutes.
func cacheControl(name string) string {
	if strings.HasSuffix(name, ".html") {
		return "no-cache"
	}
	return "public, max-age=600"
}

func notFound() *model.AssetResponse {
	return textResponse(http.StatusNotFound, "404 page not found\n", nil)
}

func methodNotAllowed() *model.AssetResponse {
	return textResponse(http.StatusMethodNotAllowed, "405 method not allowed\n", http.Header{
		"Allow": {"GET, HEAD"},
	})
}

func textResponse(code int, msg string, header http.Header) *model.AssetResponse {
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(len(msg)))
	header.Set("X-Content-Type-Options", "nosniff")

	return &model.AssetResponse{
		StatusCode: code,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(msg)),
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
