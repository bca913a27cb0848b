// Package templates embeds the server-rendered pages.
package templates

import (
	"embed"
	"fmt"
	"html/template"

	"tienda.shop/app/pkg/view"
)

//go:embed partials/*.html pages/*.html
var files embed.FS

func Funcs() template.FuncMap {
	return template.FuncMap{
		"dict": dict,
		"fieldClass": func(errs view.FormErrors, field string) string {
			if errs[field] != "" {
				return "error"
			}
			return ""
		},
	}
}

// Load parses every page. Pages are addressed by file name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "partials/*.html", "pages/*.html")
}

// dict builds a map from alternating keys and values, for passing several
// values to a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
