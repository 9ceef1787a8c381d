package httpapi

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/service"
)

//go:embed templates/ui_form.html
var uiFormTemplate string

//go:embed templates/ui_result.html
var uiResultTemplate string

// Template helper functions
var templateFuncs = template.FuncMap{
	// scoreWidth turns a 0-100 score into a CSS width, keeping a sliver visible for 0
	"scoreWidth": func(score int) string {
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		if score == 0 {
			return "1%"
		}
		return fmt.Sprintf("%d%%", score)
	},
	"statusIcon": func(s checker.Status) string {
		switch s {
		case checker.StatusPass:
			return "✓"
		case checker.StatusFail:
			return "✗"
		default:
			return "!"
		}
	},
	"upper": strings.ToUpper,
}

// resultPage is the data rendered by the result template
type resultPage struct {
	Input  string
	Result *service.AnalysisResult
	Error  string
}

// uiFormHandler serves the main UI form page
func uiFormHandler() http.HandlerFunc {
	tmpl := template.Must(template.New("form").Parse(uiFormTemplate))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, nil); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

// uiResultHandler analyzes the submitted form and renders the result page
func uiResultHandler(svc *service.Service) http.HandlerFunc {
	tmpl := template.Must(template.New("result").Funcs(templateFuncs).Parse(uiResultTemplate))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		page := resultPage{Input: strings.TrimSpace(r.PostFormValue("url"))}
		status := http.StatusOK
		if page.Input == "" {
			page.Error = "Please enter a URL"
			status = http.StatusBadRequest
		} else {
			result, err := svc.Analyze(r.Context(), page.Input)
			if err != nil {
				page.Error = invalidURLMessage(err)
				status = http.StatusBadRequest
			} else {
				page.Result = result
			}
		}

		// render fully before writing so a template error can still become a 500
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, page); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}
