package render

import (
	"embed"
	"html/template"
	"io"

	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("compliance").
		Funcs(template.FuncMap{"totalRules": totalRules}).
		ParseFS(templateFS, "templates/*.html"),
)

type pageData struct {
	SystemID string
	Error    string
	Props    domain.Props
}

// HTML writes the compliance page for one state. A Failed state renders only
// the error panel.
func HTML(w io.Writer, systemID string, st domain.State) error {
	data := pageData{SystemID: systemID}
	if props, ok := domain.BuildProps(st); ok {
		data.Props = props
	} else {
		data.Error = domain.ErrorMessage(st.(domain.Failed).Err)
	}
	return pageTemplate.ExecuteTemplate(w, "page", data)
}

func totalRules(p domain.Profile) int {
	return p.RulesPassed + p.RulesFailed
}
