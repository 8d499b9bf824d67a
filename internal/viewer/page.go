package viewer

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/sweepplot/pkg/models"
)

// Page is one rendered figure handed to the viewer
type Page struct {
	Title       string
	Caption     string
	Chart       []byte
	ContentType string
	Summary     models.FigureSummary
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 24px; color: #222; }
img { max-width: 100%; border: 1px solid #ddd; }
button { margin-top: 16px; padding: 6px 18px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Caption}}<p id="caption">{{.Caption}}</p>{{end}}
<img src="/chart.png" alt="{{.Title}}">
<div><button id="close" type="button">Close</button></div>
<script>
document.getElementById("close").addEventListener("click", function () {
  fetch("/api/close", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: "{}"
  }).finally(function () {
    document.body.innerHTML = "<p>Viewer closed. You can close this tab.</p>";
    window.close();
  });
});
</script>
</body>
</html>
`))

func (p Page) serveHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, p); err != nil {
		log.Error().Err(err).Msg("Failed to write viewer page")
	}
}

func (p Page) serveChart(w http.ResponseWriter, r *http.Request) {
	contentType := p.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(p.Chart); err != nil {
		log.Error().Err(err).Msg("Failed to write chart")
	}
}
