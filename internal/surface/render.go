package surface

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("surface").Funcs(template.FuncMap{
	"linkClass": linkClass,
}).ParseFS(templateFS, "templates/*.tmpl"))

func linkClass(active bool) string {
	if active {
		return "nav-link active"
	}
	return "nav-link"
}

// Render writes the header, desktop menu and mobile panel.
func Render(w io.Writer, v View) error {
	return execute(w, "navbar", v)
}

func RenderHeader(w io.Writer, h Header) error {
	return execute(w, "header", h)
}

func RenderDesktop(w io.Writer, m DesktopMenu) error {
	return execute(w, "desktop", m)
}

func RenderMobile(w io.Writer, m MobilePanel) error {
	return execute(w, "mobile", m)
}

// Fragments is the HTML of each surface rendered separately.
type Fragments struct {
	Header  string `json:"header"`
	Desktop string `json:"desktop"`
	Mobile  string `json:"mobile"`
}

func RenderFragments(v View) (Fragments, error) {
	var header, desktop, mobile bytes.Buffer
	if err := RenderHeader(&header, v.Header); err != nil {
		return Fragments{}, err
	}
	if err := RenderDesktop(&desktop, v.Desktop); err != nil {
		return Fragments{}, err
	}
	if err := RenderMobile(&mobile, v.Mobile); err != nil {
		return Fragments{}, err
	}
	return Fragments{
		Header:  header.String(),
		Desktop: desktop.String(),
		Mobile:  mobile.String(),
	}, nil
}

func execute(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
