package rest

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
)

const indexTemplateText = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Caller Identity</title>
  <style>
    body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; }
    input[type=text] { width: 20rem; padding: 0.4rem; }
    .error { color: #a00; }
    .hint { color: #555; }
  </style>
</head>
<body>
  <h1>Caller Identity</h1>
  <form method="post" action="/">
    <label for="number">Phone number</label>
    <input type="text" id="number" name="number" value="{{.Number}}" placeholder="+1 415 555 2671">
    <button type="submit">Look up</button>
  </form>

  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}

  {{if .Queried}}
    {{if .Found}}
      <p>Found: <strong>{{.Name}}</strong>{{if .Provider}} <span class="hint">(via {{.Provider}})</span>{{end}}</p>
    {{else if .Hint}}
      <p>No name found. What we know: <span class="hint">{{.Hint}}</span></p>
    {{else}}
      <p>No match found.</p>
      {{if .Info}}<p class="hint">{{.Info}}</p>{{end}}
    {{end}}
  {{end}}
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexTemplateText))

type indexPageData struct {
	Number   string
	Queried  bool
	Found    bool
	Name     string
	Provider string
	Hint     string
	Info     string
	Error    string
}

// handleIndex serves the lookup form (GET) and a form submission (POST).
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := indexPageData{}

	if r.Method == http.MethodPost {
		number := strings.TrimSpace(r.FormValue("number"))
		data.Number = number
		data.Queried = true

		if number == "" {
			data.Error = "Please enter a phone number."
		} else {
			svc, dirErr := h.newService("")
			outcome := svc.Resolve(r.Context(), number)
			data = pageDataFromOutcome(number, outcome)
			if dirErr != "" {
				data.Error = dirErr
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.ErrorContext(r.Context(), "rendering index page", "error", err)
	}
}

func pageDataFromOutcome(number string, outcome identity.ResolutionOutcome) indexPageData {
	data := indexPageData{
		Number:  number,
		Queried: true,
	}

	switch outcome.Kind {
	case identity.OutcomeLocalMatch:
		data.Found = true
		data.Name = outcome.Name
	case identity.OutcomeRemoteMatch:
		data.Found = true
		data.Name = outcome.Name
		data.Provider = outcome.Provider
	case identity.OutcomeHint:
		data.Hint = outcome.Hint
	case identity.OutcomeParseFailure:
		data.Error = outcome.Reason
		data.Queried = false
	case identity.OutcomeNoIdentification:
		data.Info = summarizeInfo(outcome)
	}

	return data
}

func summarizeInfo(outcome identity.ResolutionOutcome) string {
	var parts []string
	if outcome.Info.Region != "" {
		parts = append(parts, "region "+outcome.Info.Region)
	}
	if outcome.Info.Description != "" {
		parts = append(parts, outcome.Info.Description)
	}
	if outcome.Info.Carrier != "" {
		parts = append(parts, "carrier "+outcome.Info.Carrier)
	}
	if outcome.Info.LineType != "" {
		parts = append(parts, outcome.Info.LineType)
	}
	return strings.Join(parts, ", ")
}
