package webserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/blizzardhq/blizzard/internal/webapi"
)

// registerRoutes sets up API and static dashboard routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	webapi.RegisterRoutes(mux, cfg.Store, cfg.Environment)

	if cfg.StaticDir != "" {
		mux.Handle("/", staticHandler(cfg.StaticDir))
	}
}

// staticHandler serves dashboard files from dir. Unknown paths fall back to
// index.html so reloads of client-side routes keep working.
func staticHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			clean := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(r.URL.Path, "/")))
			if info, err := os.Stat(clean); err == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
