// Package web embeds the browser client.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var files embed.FS

// Assets serves the static directory.
func Assets() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Index writes the application page.
func Index(c *gin.Context) {
	page, err := files.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "index missing")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
