package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticHandler_Index(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler("/").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "window.__BASE_PATH='';")
	assert.Contains(t, rec.Body.String(), `src="/js/app.js"`)
}

func TestStaticHandler_BasePath(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler("/gdpr").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "window.__BASE_PATH='/gdpr';")
	assert.Contains(t, body, `src="/gdpr/js/app.js"`)
	assert.Contains(t, body, `href="/gdpr/css/app.css"`)
}

func TestStaticHandler_Assets(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler("/").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/js/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
