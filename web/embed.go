package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static/*
var staticFS embed.FS

// StaticHandler serves the embedded dashboard client. It injects basePath
// into index.html so the page can reach the API behind a reverse proxy.
func StaticHandler(basePath string) http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServerFS(sub)

	indexBytes, _ := fs.ReadFile(sub, "index.html")
	injected := injectBasePath(string(indexBytes), basePath)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(injected))
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func injectBasePath(html, basePath string) string {
	if basePath == "/" {
		basePath = ""
	}
	out := strings.Replace(html,
		"<head>",
		"<head>\n<script>window.__BASE_PATH='"+basePath+"';</script>",
		1,
	)
	if basePath != "" {
		prefix := basePath + "/"
		out = strings.ReplaceAll(out, `href="/css/`, `href="`+prefix+`css/`)
		out = strings.ReplaceAll(out, `src="/js/`, `src="`+prefix+`js/`)
	}
	return out
}
