// Package report renders pipeline outputs: per-user recommendation cards as
// a single HTML page and evaluation results as CSV plus an HTML summary.
package report

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"winereco/pkg/models"
)

// Card is one recommended item on the report page.
type Card struct {
	Wine    string
	Winery  string
	Country string
	Style   string
	Image   string
}

// UserSection groups one user's cards with their preference summary.
type UserSection struct {
	UserID      string
	Terms       string
	StylesLabel string
	K           int
	Cards       []Card
}

// Writer renders reports into a directory, one timestamped file per run.
type Writer struct {
	dir    string
	logger *logrus.Logger
}

func NewWriter(dir string, logger *logrus.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

var recoTemplate = template.Must(template.New("reco").Parse(`<!doctype html><meta charset="utf-8">
<style>
body{font-family:system-ui,Arial;margin:24px;background:#fafafa}
.user{margin:30px 0}
.title{font-size:20px;font-weight:700;margin:8px 0}
.style{font-size:16px;font-weight:600;margin:6px 0;color:#444}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:12px}
.card{background:#fff;border-radius:12px;padding:12px;box-shadow:0 2px 8px rgba(0,0,0,.06)}
.img{width:100%;height:220px;object-fit:contain;background:#fff;border:1px solid #eee;border-radius:8px}
.meta{font-size:13px;color:#333;margin-top:6px;line-height:1.35}
</style>
{{range .}}<div class="user">
<div class="title">Recommendations for {{.UserID}} (Top {{.K}}) <span style="font-weight:400;color:#666">(terms: {{.Terms}})</span></div>
<div class="style">&bull; {{.StylesLabel}}</div>
<div class="cards">
{{range .Cards}}<div class="card">
{{if .Image}}<img class="img" src="{{.Image}}" alt="label">{{end}}
<div class="meta"><b>{{.Wine}}</b><br>{{.Winery}} &mdash; {{.Country}} <span style="color:#777">({{.Style}})</span></div>
</div>
{{end}}</div>
</div>
{{end}}`))

var evalTemplate = template.Must(template.New("eval").Parse(`<!doctype html><meta charset="utf-8">
<style>
body{font-family:system-ui,Arial;margin:24px;background:#fafafa}
h1{font-size:22px}
table{border-collapse:collapse;background:#fff}
td,th{border:1px solid #ddd;padding:6px 10px;font-size:13px;text-align:right}
th{background:#f0f0f0}
td:first-child,th:first-child{text-align:left}
.summary{margin:16px 0;font-size:15px}
</style>
<h1>Evaluation report ({{.Summary.Styles}}, K={{.Summary.K}})</h1>
<div class="summary">
Users: {{.Summary.Users}} &middot;
Hit@K: {{.Summary.AvgHitAtK}} &middot;
TermsHit@K: {{.Summary.AvgTermsHit}} &middot;
CountryHit@K: {{.Summary.AvgCountryHit}} &middot;
Diversity@K: {{.Summary.AvgDiversity}}
</div>
<table>
<tr><th>user</th><th>recos</th><th>hit@k</th><th>terms_hit@k</th><th>country_hit@k</th><th>ILS@k</th><th>diversity@k</th></tr>
{{range .Rows}}<tr><td>{{.UserID}}</td><td>{{.RecoCount}}</td><td>{{.HitAtK}}</td><td>{{.TermsHitAtK}}</td><td>{{.CountryHit}}</td><td>{{.ILS}}</td><td>{{.Diversity}}</td></tr>
{{end}}</table>`))

// WriteRecommendations renders the recommendation card page and returns its
// path.
func (w *Writer) WriteRecommendations(style string, sections []UserSection, outPath string) (string, error) {
	if outPath == "" {
		ts := time.Now().Format("20060102-150405")
		outPath = filepath.Join(w.dir, fmt.Sprintf("reco_%s_%s.html", style, ts))
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("write report %s: %w", outPath, err)
	}
	defer f.Close()
	if err := recoTemplate.Execute(f, sections); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	w.logger.WithField("path", outPath).Info("Recommendation report written")
	return outPath, nil
}

// WriteEvaluation writes the metric table as CSV and an HTML summary page,
// returning both paths.
func (w *Writer) WriteEvaluation(rows []models.EvalRow, summary models.EvalSummary) (string, string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}
	ts := time.Now().Format("20060102-150405")
	csvPath := filepath.Join(w.dir, fmt.Sprintf("eval_%s.csv", ts))
	htmlPath := filepath.Join(w.dir, fmt.Sprintf("eval_%s.html", ts))

	f, err := os.Create(csvPath)
	if err != nil {
		return "", "", fmt.Errorf("write %s: %w", csvPath, err)
	}
	cw := csv.NewWriter(f)
	_ = cw.Write([]string{"user_id", "reco_count", "hit@k", "terms_hit@k", "country_hit@k", "ILS@k", "Diversity@k"})
	for _, r := range rows {
		_ = cw.Write([]string{
			r.UserID,
			strconv.Itoa(r.RecoCount),
			strconv.Itoa(r.HitAtK),
			formatFloat(r.TermsHitAtK),
			formatFloat(r.CountryHit),
			formatFloat(r.ILS),
			formatFloat(r.Diversity),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", "", fmt.Errorf("write %s: %w", csvPath, err)
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}

	hf, err := os.Create(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("write %s: %w", htmlPath, err)
	}
	defer hf.Close()
	data := struct {
		Rows    []models.EvalRow
		Summary models.EvalSummary
	}{rows, summary}
	if err := evalTemplate.Execute(hf, data); err != nil {
		return "", "", fmt.Errorf("render eval report: %w", err)
	}

	w.logger.WithFields(logrus.Fields{"csv": csvPath, "html": htmlPath}).Info("Evaluation report written")
	return csvPath, htmlPath, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
