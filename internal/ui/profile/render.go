package profile

import (
	"bytes"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	uimeasurement "tailorshop/internal/ui/measurement"
	"tailorshop/internal/ui/shopapi"
)

// remarksMarkdown renders remarks; raw HTML in the input is escaped.
var remarksMarkdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderRemarks(md string) template.HTML {
	var buf bytes.Buffer
	if err := remarksMarkdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var listTemplate = template.Must(template.New("measurements").Funcs(template.FuncMap{
	"remarks": renderRemarks,
}).Parse(`{{- if .Loading -}}
<p>` + LoadingText + `</p>
{{- else if .Failed -}}
<p class="text-danger">` + ErrorText + `</p>
{{- else if not .Cards -}}
<p>` + EmptyText + `</p>
{{- else -}}
{{- range .Cards}}
<div class="card measurement-card" data-measurement-id="{{.MeasurementID}}">
  <div class="measurement-head">
    <h5 class="measurement-category">{{.Category}}</h5>
    <span class="badge measurement-date">{{.Date}}</span>
  </div>
  {{- if .IsScalar}}
  <div class="measurement-scalar">{{.Scalar}}</div>
  {{- else}}
  <div class="measurement-grid">
    {{- range .Cells}}
    <div class="measurement-cell"><div class="cell-key">{{.Key}}</div><div class="cell-value">{{.Value}}</div></div>
    {{- end}}
  </div>
  {{- end}}
  {{- if .Remarks}}
  <div class="measurement-remarks">{{remarks .Remarks}}</div>
  {{- end}}
  <div class="measurement-actions">
    <a class="btn btn-primary" href="{{.ReuseURL}}">Reuse</a>
    <details class="measurement-delete">
      <summary class="btn btn-outline btn-delete" title="Delete Measurement">Delete</summary>
      <form method="POST" action="{{.DeleteURL}}" data-measurement-id="{{.MeasurementID}}" data-customer-id="{{.CustomerID}}">
        {{- if $.FormToken}}
        <input type="hidden" name="` + shopapi.CSRFField + `" value="{{$.FormToken}}">
        {{- end}}
        <p class="confirm-prompt">` + uimeasurement.ConfirmPrompt + `</p>
        <button type="submit" class="btn btn-danger">Yes, delete</button>
      </form>
    </details>
  </div>
</div>
{{- end}}
{{- end}}`))

var sidebarTemplate = template.Must(template.Must(listTemplate.Clone()).New("sidebar").Parse(`<div id="profileSidebar" class="sidebar">
  <div class="sidebar-panel">
    <h3 id="profileName">{{.Name}}</h3>
    <p id="profileMobile">{{.MobileLine}}</p>
    <p>Pending: <span id="profilePending">{{.Pending}}</span></p>
    <p>Orders: <span id="profileOrdersCount">{{.OrdersCount}}</span></p>
    <a id="profileNewMeasBtn" class="btn btn-primary" href="{{.NewMeasurementURL}}">New Measurement</a>
    <div id="measurementsList">{{template "measurements" .}}</div>
  </div>
</div>`))

// RenderList writes the measurement list HTML for v.
func RenderList(w io.Writer, v View) error {
	return listTemplate.ExecuteTemplate(w, "measurements", v)
}

// Render writes the whole profile sidebar HTML for v.
func Render(w io.Writer, v View) error {
	return sidebarTemplate.ExecuteTemplate(w, "sidebar", v)
}
