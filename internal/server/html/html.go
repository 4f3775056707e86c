package html

import (
	"embed"
	"io"
	"text/template"

	"github.com/promptdeck/promptdeck/internal/domain"
)

//go:embed pages/*.html
var files embed.FS

var (
	loginTemplate   = parse("pages/login.html")
	promptsTemplate = parse("pages/prompts.html")
	keysTemplate    = parse("pages/keys.html")
)

type LoginParams struct {
	Title string
	Error string
}

func LoginPage(w io.Writer, p LoginParams) error {
	p.Error = template.HTMLEscapeString(p.Error)
	return loginTemplate.Execute(w, p)
}

type PromptsParams struct {
	Title string
	Error string
	// PromptsJSON is a json array of the user's prompts, injected into a
	// script tag as the page's initial state.
	PromptsJSON string
}

func PromptsPage(w io.Writer, p PromptsParams) error {
	p.Error = template.HTMLEscapeString(p.Error)
	return promptsTemplate.Execute(w, p)
}

type KeysParams struct {
	Title  string
	Errors []string
	Keys   []domain.ApiKey
}

func KeysPage(w io.Writer, p KeysParams) error {
	escaped := make([]string, len(p.Errors))
	for i, e := range p.Errors {
		escaped[i] = template.HTMLEscapeString(e)
	}
	p.Errors = escaped
	return keysTemplate.Execute(w, p)
}

func parse(file string) *template.Template {
	return template.Must(
		template.New("layout.html").ParseFS(files, "pages/layout.html", file))
}
