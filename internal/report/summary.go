// Package report renders a finished result document for humans.
package report

import (
	"bytes"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/zinc-sig/ghost-allure/pkg/model"
)

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	blank      = "    "
)

// FormatDuration renders milliseconds as seconds with millisecond precision, e.g. "1.250s".
func FormatDuration(ms int64) string {
	return decimal.New(ms, -3).StringFixed(3) + "s"
}

// Summary renders the test and its step tree as a table. Attachments are
// listed under the step that owns them. With color set the table is colored
// by the test status.
func Summary(result *model.TestResult, color bool) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(result.Name)
	t.AppendHeader(table.Row{"STEP", "STATUS", "DURATION", "DETAILS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "STEP", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "DURATION", Align: text.AlignRight},
		{Name: "DETAILS", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	appendSteps(t, result.Steps, "")
	for _, a := range result.Attachments {
		t.AppendRow(table.Row{"📎 " + a.Name, "", "", a.Source})
	}

	switch {
	case !color:
		t.SetStyle(table.StyleLight)
	case result.Status.IsPassed():
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case result.Status == model.StatusFailed, result.Status == model.StatusBroken:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case result.Status == model.StatusSkipped:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleDefault)
	}
	t.Style().Format.Footer = text.FormatDefault

	t.AppendFooter(table.Row{
		"TOTAL",
		strings.ToUpper(string(result.Status)),
		FormatDuration(result.Duration()),
		message(result.StatusDetails),
	})

	t.Render()
	return buf.String()
}

func appendSteps(t table.Writer, steps []model.Step, prefix string) {
	for i := range steps {
		s := &steps[i]
		last := i == len(steps)-1

		connector, childPrefix := branch, prefix+pipe
		if last {
			connector, childPrefix = lastBranch, prefix+blank
		}

		status := strings.ToUpper(string(s.Status))
		if s.Stage == model.StageInterrupted {
			status += " (interrupted)"
		}
		t.AppendRow(table.Row{prefix + connector + s.Name, status, FormatDuration(s.Duration()), message(s.StatusDetails)})

		for _, a := range s.Attachments {
			t.AppendRow(table.Row{childPrefix + "📎 " + a.Name, "", "", a.Source})
		}
		appendSteps(t, s.Steps, childPrefix)
	}
}

func message(details *model.StatusDetails) string {
	if details == nil {
		return ""
	}
	msg, _, _ := strings.Cut(details.Message, "\n")
	return msg
}
