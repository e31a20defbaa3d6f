// Package templates holds the HTML fragments returned to HTMX clients.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

var errorAlert = template.Must(template.New("error-alert").Parse(
	`<div class="alert alert-error" role="alert" data-code="{{.Code}}">` +
		`<p class="alert-message">{{.Message}}</p>` +
		`{{if .Action}}<p class="alert-action">{{.Action}}</p>{{end}}` +
		`<p class="alert-code">Error code: {{.Code}}</p>` +
		`</div>`,
))

// ErrorAlert renders a user-facing error with its suggested action and
// support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errorAlert.Execute(w, struct{ Message, Action, Code string }{message, action, code})
	})
}
