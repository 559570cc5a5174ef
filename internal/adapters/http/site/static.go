package site

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
)

// StaticHandler serves files from the static/ subdirectory. It expects the
// URL prefix to be stripped already. Directories and paths leaving the
// static root are 404s. Files are served under their own names, index.html
// included, with no redirects.
func (s *Site) StaticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := staticName(r.URL.Path)
		if !ok || s.static == nil {
			s.assetNotFound(w, r)
			return
		}
		f, err := s.static.Open(name)
		if err != nil {
			s.assetNotFound(w, r)
			return
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			s.assetNotFound(w, r)
			return
		}
		content, err := seekable(f)
		if err != nil {
			s.logger.Error(r.Context(), "static read failed", logger.String("file", name), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		metrics.RecordStaticFileServed()
		http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	})
}

// seekable returns f itself when it can seek, otherwise its contents in memory.
func seekable(f fs.File) (io.ReadSeeker, error) {
	if rs, ok := f.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// staticName maps a stripped URL path to an fs.FS name, refusing anything
// containing a ".." element.
func staticName(urlPath string) (string, bool) {
	for _, elem := range strings.Split(urlPath, "/") {
		if elem == ".." {
			return "", false
		}
	}
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

func (s *Site) assetNotFound(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStaticNotFound()
	s.logger.Debug(r.Context(), "static lookup failed", logger.String("path", r.URL.Path), logger.Error(ErrAssetNotFound))
	s.notFound.ServeHTTP(w, r)
}
