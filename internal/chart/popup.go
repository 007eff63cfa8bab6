package chart

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/TWRT/project-gantt/internal/models"
)

const popupTimeLayout = "2006-01-02 15:04"

var popupTemplate = template.Must(template.New("popup").Parse(`<div class="details-container">
  <h5>{{.Name}}</h5>
  <p>Start: {{.Start}}</p>
  <p>End: {{.End}}</p>
  <p>Duration: {{.Duration}}</p>
  <p>Progress: {{.Progress}}%</p>
</div>`))

// RenderPopup formats a bar's details. Times are shown in UTC.
func RenderPopup(task models.ChartTask) string {
	var buf bytes.Buffer
	err := popupTemplate.Execute(&buf, struct {
		Name     string
		Start    string
		End      string
		Duration string
		Progress string
	}{
		Name:     task.Name,
		Start:    task.Start.UTC().Format(popupTimeLayout),
		End:      task.End.UTC().Format(popupTimeLayout),
		Duration: strings.TrimSpace(humanize.RelTime(task.Start, task.End, "", "")),
		Progress: humanize.FtoaWithDigits(task.Progress, 1),
	})
	if err != nil {
		return ""
	}
	return buf.String()
}
