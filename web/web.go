// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"fixed1":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"exact":   func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	"join":    strings.Join,
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}

// Templates parses every embedded page. Templates are addressed by file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
