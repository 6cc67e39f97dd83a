// Package views holds the html templates rendered through Fiber's html engine.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

//go:embed *.html layouts/*.html partials/*.html
var FS embed.FS

// NewEngine builds the template engine with the view helpers registered.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(FS), ".html")
	engine.AddFuncMap(viewmodel.Funcs())
	return engine
}
