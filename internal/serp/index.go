// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package serp

import (
	"html/template"
	"io"

	"github.com/meshintel/footprint/pkg/types"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Search Results - {{.Name}}</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 24px; }
      table { border-collapse: collapse; width: 100%; }
      th, td { border: 1px solid #ccc; padding: 8px; vertical-align: top; }
      th { background: #f2f2f2; text-align: left; }
      td { font-size: 13px; }
    </style>
  </head>
  <body>
    <h1>Search Results: {{.Name}}</h1>
    <table>
      <thead>
        <tr>
          <th>Rank</th>
          <th>Title</th>
          <th>URL</th>
          <th>Local HTML</th>
          <th>Status</th>
          <th>Snippet</th>
        </tr>
      </thead>
      <tbody>
{{- range .Results}}
        <tr>
          <td>{{.Rank}}</td>
          <td>{{if .Title}}{{.Title}}{{else}}(no title){{end}}</td>
          <td><a href="{{.URL}}">{{.URL}}</a></td>
          <td>{{if .LocalFile}}<a href="{{.LocalFile}}">{{.LocalFile}}</a>{{else}}-{{end}}</td>
          <td>{{.Status}}</td>
          <td>{{.Snippet}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
  </body>
</html>
`))

// WriteIndex renders the local index.html linking each result to its
// saved snapshot.
func WriteIndex(w io.Writer, name string, results []types.SERPResult) error {
	return indexTemplate.Execute(w, struct {
		Name    string
		Results []types.SERPResult
	}{Name: name, Results: results})
}
