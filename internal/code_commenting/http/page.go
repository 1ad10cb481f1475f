package http

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

const pageTitle = "Code Commenter"

type pageData struct {
	Title  string
	Style  string
	Inline bool
	CSS    template.CSS
	Script template.JS
}

// RegisterPage mounts the interactive page. In "template" mode assets are served
// from /static; in "inline" mode they are embedded in the document itself.
func RegisterPage(r *gin.Engine, mode, style string) error {
	tmpl, err := template.ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	data := pageData{Title: pageTitle, Style: style}

	switch mode {
	case "inline":
		css, err := webFS.ReadFile("web/static/style.css")
		if err != nil {
			return fmt.Errorf("read stylesheet: %w", err)
		}
		js, err := webFS.ReadFile("web/static/script.js")
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		data.Inline = true
		data.CSS = template.CSS(css)
		data.Script = template.JS(js)
	case "template":
		static, err := fs.Sub(webFS, "web/static")
		if err != nil {
			return fmt.Errorf("static assets: %w", err)
		}
		r.StaticFS("/static", http.FS(static))
	default:
		return fmt.Errorf("unsupported page mode %q", mode)
	}

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", data)
	})
	return nil
}
