// Package explain renders query definitions as text using templates with Sprig functions
package explain

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/ethpandaops/cubeplan/pkg/dependencies"
	"github.com/ethpandaops/cubeplan/pkg/query"
)

const defaultTemplate = `
{{- if eq .kind "subplan" -}}
subplan {{ .name }}
  row anchor:    {{ .subplan.StartingLevelOnRow | default "-" }}
  column anchor: {{ .subplan.StartingLevelOnColumn | default "-" }}
{{- else -}}
plan {{ .name }} on cube {{ .plan.Cube }} ({{ .plan.ID }})
bindings:
{{- range .plan.Bindings }}
  {{ printf "%-16s" .Name }} {{ printf "%-8s" .DataType }} {{ .Expression }}
  {{- if .AggregateFunction }} [{{ .AggregateFunction }}]{{ end }}
  {{- if .AggregateOn }} on {{ join ", " .AggregateOn }}{{ end }}
{{- end }}
{{- range .edges }}
{{ .type }} edge:
{{- range .dimensions }}
  {{ .name }} ({{ .hierarchy }}): {{ join " > " .levels }}
{{- end }}
{{- end }}
{{- if .plan.Measures }}
measures:
{{- range .plan.Measures }}
  {{ .Name }}{{ if .AggregateFunction }} [{{ .AggregateFunction }}]{{ end }}
{{- end }}
{{- end }}
{{- if .plan.Filters }}
filters:
{{- range .plan.Filters }}
  {{ .Target }} {{ .Operator }} {{ .Values }}
{{- end }}
{{- end }}
{{- if .plan.Sorts }}
sorts:
{{- range .plan.Sorts }}
  {{ .Target }} by {{ .Expression }} {{ .Direction }}
{{- end }}
{{- end }}
{{- end }}
{{- with .graph }}
binding graph: {{ .TotalBindings }} bindings, depth {{ .MaxLevel }}, roots {{ .RootNodes | join ", " | default "-" }}
{{- end }}
{{- with .references }}
binding references:
{{- range . }}
  {{ .name }}
  {{- with .uses }} uses {{ join ", " . }}{{ end }}
  {{- with .indirect }} via {{ join ", " . }}{{ end }}
  {{- with .dependents }}; used by {{ join ", " . }}{{ end }}
{{- end }}
{{- end }}
`

// Renderer renders query definitions with a text template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses a custom template; an empty content selects the built-in layout
func NewRenderer(content string) (*Renderer, error) {
	if content == "" {
		content = defaultTemplate
	}

	tmpl, err := template.New("explain").Funcs(sprig.TxtFuncMap()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// LoadRenderer reads a template file; an empty path selects the built-in layout
func LoadRenderer(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer("")
	}

	content, err := os.ReadFile(path) //nolint:gosec // User-provided template path
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	return NewRenderer(string(content))
}

// Render renders a definition. The binding graph is optional.
func (r *Renderer) Render(def query.Definition, graph *dependencies.BindingGraph) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, BuildVariables(def, graph)); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// BuildVariables builds the template variables of a definition
func BuildVariables(def query.Definition, graph *dependencies.BindingGraph) map[string]interface{} {
	variables := map[string]interface{}{
		"kind": string(def.Kind()),
		"name": def.QueryName(),
	}

	if graph != nil {
		variables["graph"] = graph.GetGraphInfo()
		if references := buildReferences(graph); len(references) > 0 {
			variables["references"] = references
		}
	}

	switch d := def.(type) {
	case *query.SubPlan:
		variables["subplan"] = d
	case *query.Plan:
		variables["plan"] = d
		variables["edges"] = buildEdges(d)
	}

	return variables
}

func buildEdges(plan *query.Plan) []map[string]interface{} {
	var edges []map[string]interface{}
	for _, e := range plan.Edges {
		if e == nil {
			continue
		}

		dimensions := make([]map[string]interface{}, 0, len(e.Dimensions))
		for _, d := range e.Dimensions {
			var hierarchy string
			var levels []string
			if d.Hierarchy != nil {
				hierarchy = d.Hierarchy.Name
				for _, l := range d.Hierarchy.Levels {
					levels = append(levels, l.Name)
				}
			}

			dimensions = append(dimensions, map[string]interface{}{
				"name":      d.Name,
				"hierarchy": hierarchy,
				"levels":    levels,
			})
		}

		edges = append(edges, map[string]interface{}{
			"type":       e.Type.String(),
			"dimensions": dimensions,
		})
	}

	return edges
}

// buildReferences lists every binding that references or is referenced by another binding
func buildReferences(graph *dependencies.BindingGraph) []map[string]interface{} {
	var references []map[string]interface{}
	for _, name := range graph.Names() {
		uses := graph.GetDependencies(name)
		dependents := graph.GetDependents(name)
		if len(uses) == 0 && len(dependents) == 0 {
			continue
		}

		direct := make(map[string]bool, len(uses))
		for _, dep := range uses {
			direct[dep] = true
		}

		var indirect []string
		for _, dep := range graph.GetAllDependencies(name) {
			if !direct[dep] {
				indirect = append(indirect, dep)
			}
		}

		references = append(references, map[string]interface{}{
			"name":       name,
			"uses":       uses,
			"indirect":   indirect,
			"dependents": dependents,
		})
	}

	return references
}
