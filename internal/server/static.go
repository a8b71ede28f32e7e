package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// staticFileServer serves a web UI directory. Paths that match no file fall
// back to index.html.
type staticFileServer struct {
	root http.FileSystem
}

func newStaticFileServer(fsys fs.FS) *staticFileServer {
	return &staticFileServer{root: http.FS(fsys)}
}

func (s *staticFileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if strings.HasPrefix(path, "/api/") {
		http.NotFound(w, r)
		return
	}

	if path != "/" {
		if f, err := s.root.Open(path); err == nil {
			_ = f.Close()
			http.FileServer(s.root).ServeHTTP(w, r)
			return
		}
	}

	r.URL.Path = "/"
	http.FileServer(s.root).ServeHTTP(w, r)
}
