package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	commenthttp "github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/http"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/llm/llmtest"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/prompt"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRegisterPage_TemplateMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, commenthttp.RegisterPage(r, "template", "roast"))

	rr := get(r, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `<script src="/static/script.js"></script>`)
	assert.Contains(t, rr.Body.String(), `id="input"`)
	assert.Contains(t, rr.Body.String(), `id="output"`)
	assert.Contains(t, rr.Body.String(), "<strong>roast</strong>")

	rr = get(r, "/static/script.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/add-comments")
	assert.Contains(t, rr.Body.String(), "getReader()")
}

func TestRegisterPage_InlineMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, commenthttp.RegisterPage(r, "inline", "meme"))

	rr := get(r, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "/static/script.js")
	assert.Contains(t, rr.Body.String(), "async function addComments()")
	assert.Contains(t, rr.Body.String(), ".editor-grid")

	assert.Equal(t, http.StatusNotFound, get(r, "/static/script.js").Code)
}

func TestRegisterPage_UnknownMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	assert.Error(t, commenthttp.RegisterPage(gin.New(), "iframe", "meme"))
}

func TestMetricsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gen := &llmtest.Generator{Fragments: []string{"a", "b"}}
	tmpl, err := prompt.ForStyle("wholesome")
	require.NoError(t, err)
	svc := service.NewCommentService(gen, tmpl)

	r := gin.New()
	commenthttp.New(svc, "").Register(r)
	r.GET("/metrics", commenthttp.MetricsHandler(svc, nil))

	postJSON(r, "/add-comments", `{"code":"x"}`)

	rr := get(r, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Generator string                  `json:"generator"`
		Style     string                  `json:"style"`
		Process   service.MetricsSnapshot `json:"process"`
		Today     any                     `json:"today"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "fake", body.Generator)
	assert.Equal(t, "wholesome", body.Style)
	assert.Equal(t, int64(1), body.Process.Requests)
	assert.Equal(t, int64(1), body.Process.Completed)
	assert.Equal(t, int64(2), body.Process.Fragments)
	assert.Nil(t, body.Today)
}
