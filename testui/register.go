package testui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page is the data rendered into the test page
type Page struct {
	DefaultNumTopics int
}

// RegisterRoutes renders the browser test page once and serves it at basePath
func RegisterRoutes(r gin.IRouter, basePath string, indexHTML string, page Page) error {
	if basePath == "" {
		basePath = "/"
	}

	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return fmt.Errorf("failed to parse test page: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("failed to render test page: %w", err)
	}
	body := buf.Bytes()

	r.GET(basePath, func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", body)
	})
	return nil
}
