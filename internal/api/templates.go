package api

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/lox/weatherboard/internal/models"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates parses the embedded HTML templates with the page helpers.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"day": func(t time.Time) string {
			return t.Format("2 Jan 2006")
		},
		"label": func(m models.Metric) string {
			return m.Label()
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// versionParam carries the dataset fingerprint on chart URLs so a changed
// resource produces new URLs.
const versionParam = "v"

func datasetVersion(fingerprint uint64) string {
	return strconv.FormatUint(fingerprint, 16)
}

// chartURL returns path with the dataset version and any extra query values.
func chartURL(path string, fingerprint uint64, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set(versionParam, datasetVersion(fingerprint))
	return path + "?" + q.Encode()
}

func pickerURL(metric models.Metric, kind models.ChartKind, fingerprint uint64) string {
	q := url.Values{}
	q.Set("metric", string(metric))
	q.Set("kind", string(kind))
	return chartURL("/charts/picker.png", fingerprint, q)
}
