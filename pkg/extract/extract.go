// Package extract renders a model as human-readable documentation. The
// same declarations that drive dispatch become a plain-text use case
// description or a YAML document, so model and documentation cannot drift
// apart.
package extract

import (
	"io"
	"strings"
	"text/template"

	"github.com/jpelkone/stride/pkg/api"
)

const textTemplate = `{{range .UseCases -}}
use case: {{.Name}}
{{range .Flows}}  flow: {{.Name}}{{with flowQualifier .}} ({{.}}){{end}}
{{range .Steps}}    {{stepLine .}}
{{end}}{{end}}{{end}}`

// Extract writes a plain-text description of the model's use cases, flows
// and steps to w.
func Extract(m *api.Model, w io.Writer) error {
	tmpl := template.Must(template.New("model").Funcs(template.FuncMap{
		"flowQualifier": flowQualifier,
		"stepLine":      stepLine,
	}).Parse(textTemplate))
	return tmpl.Execute(w, m)
}

// flowQualifier renders a flow's position and entry condition, e.g.
// "instead of S3, when name is invalid".
func flowQualifier(f *api.Flow) string {
	var parts []string
	if pos := f.Position(); pos.Kind != api.AtStart || f.Name() != api.BasicFlowName {
		parts = append(parts, pos.String())
	}
	if f.When() != nil {
		parts = append(parts, "when condition holds")
	}
	return strings.Join(parts, ", ")
}

// stepLine renders one step as a sentence, e.g.
// "S2. User reacts to enters name.".
func stepLine(s *api.Step) string {
	var b strings.Builder
	b.WriteString(s.Name())
	b.WriteString(". ")
	b.WriteString(actorNames(s))

	var clauses []string
	if name := s.EventName(); name != "" {
		clauses = append(clauses, "reacts to "+LowerCaseWords(name))
	}
	if inc := s.IncludedUseCase(); inc != nil {
		clauses = append(clauses, "includes use case \""+inc.Name()+"\"")
	}
	if kind, target := s.Continuation(); kind != api.ContinueNone {
		var verb string
		switch kind {
		case api.ContinueAt:
			verb = "continues at"
		case api.ContinueAfter:
			verb = "continues after"
		case api.ContinueWithoutAlternativeAt:
			verb = "continues without alternative at"
		}
		clauses = append(clauses, verb+" \""+target.Name()+"\"")
	}
	if len(clauses) == 0 {
		clauses = append(clauses, "reacts")
	}
	b.WriteString(" ")
	b.WriteString(strings.Join(clauses, ", "))
	if s.ReactWhile() != nil {
		b.WriteString(", as long as the condition holds")
	}
	b.WriteString(".")
	return b.String()
}

func actorNames(s *api.Step) string {
	actors := s.Actors()
	names := make([]string, len(actors))
	for i, a := range actors {
		names[i] = a.Name()
	}
	return strings.Join(names, "/")
}
