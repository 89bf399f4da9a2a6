package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GoSim-25-26J-441/kinfit/internal/fit"
)

// styles holds the console styles; the renderer drops colour when w is not
// a terminal
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	header  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Width(14),
		value:   r.NewStyle().Foreground(lipgloss.Color("#E5E7EB")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		header:  r.NewStyle().Bold(true).Underline(true),
	}
}

// WriteText writes a console report
func WriteText(w io.Writer, rep *Report) error {
	st := newStyles(w)
	var b strings.Builder

	title := fmt.Sprintf("%s fit", rep.Model)
	if rep.Dataset != "" {
		title += " on " + rep.Dataset
	}
	b.WriteString(st.title.Render(title) + "\n\n")

	row := func(label, value string) {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, st.label.Render(label), st.value.Render(value)) + "\n")
	}
	for _, p := range rep.Parameters {
		row(p.Name, fmt.Sprintf("%.10g", p.Value))
	}
	row("score", fmt.Sprintf("%.10g", rep.Score))
	row("r-squared", fmt.Sprintf("%.6f", rep.RSquared))
	row("mean |dev|", fmt.Sprintf("%.6f", rep.MeanAbsDev))
	row("max |dev|", fmt.Sprintf("%.6f", rep.MaxAbsDev))
	row("method", rep.Method)
	row("iterations", fmt.Sprintf("%d (%d evaluations)", rep.Iterations, rep.Evaluations))

	status := st.success.Render(rep.Termination)
	if rep.Termination != fit.TerminationConverged.String() {
		status = st.warning.Render(rep.Termination)
	}
	if rep.Reason != "" {
		status += " " + st.muted.Render("("+rep.Reason+")")
	}
	row("termination", status)

	b.WriteString("\n" + st.header.Render(fmt.Sprintf("%3s  %-8s %9s %9s %6s %12s %12s %10s", "#", "source", "x1", "x2", "T", "observed", "predicted", "deviation")) + "\n")
	for _, p := range rep.Points {
		fmt.Fprintf(&b, "%3d  %-8s %9.4f %9.4f %6.0f %12.6g %12.6g %10.4f\n",
			p.Index+1, p.Source, p.X1, p.X2, p.Temperature, p.Observed, p.Predicted, p.Deviation)
	}

	if len(rep.Groups) > 0 {
		b.WriteString("\n" + st.header.Render(fmt.Sprintf("%-10s %6s %12s %12s", "source", "points", "score", "mean |dev|")) + "\n")
		for _, g := range rep.Groups {
			fmt.Fprintf(&b, "%-10s %6d %12.6g %12.6f\n", g.Source, g.Points, g.Score, g.MeanAbsDev)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteRanking writes fits from best to worst, each compared with the best
func WriteRanking(w io.Writer, ranked []*fit.Result) error {
	st := newStyles(w)
	var b strings.Builder

	b.WriteString(st.title.Render("model ranking") + "\n\n")
	b.WriteString(st.header.Render(fmt.Sprintf("%-4s %-20s %14s %14s %8s %16s", "rank", "model", "score", "vs best", "params", "termination")) + "\n")
	for i, r := range ranked {
		diff := "-"
		if i > 0 {
			cmp, err := fit.Compare(ranked[0], r)
			if err != nil {
				return err
			}
			diff = fmt.Sprintf("%+.6g", cmp.ScoreDiff)
		}
		fmt.Fprintf(&b, "%-4d %-20s %14.8g %14s %8d %16s\n", i+1, r.Model, r.Score, diff, len(r.Params), r.Termination)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
