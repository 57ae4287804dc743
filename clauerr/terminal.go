package clauerr

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	boldRed  = color.New(color.FgRed, color.Bold)
	cyan     = color.New(color.FgCyan)
	gray     = color.New(color.FgHiBlack)
	boldText = color.New(color.Bold)
)

// FormatForTerminal renders d with ANSI colors via fatih/color: an
// error header, a "-->" location line, and a gutter-boxed source
// context with a caret underline when Context is populated.
func (d *Diagnostic) FormatForTerminal() string {
	var sb strings.Builder

	sb.WriteString(boldRed.Sprint("error"))
	sb.WriteString(fmt.Sprintf(" [%s]: %s\n", d.Kind, d.Message))
	sb.WriteString(fmt.Sprintf("  %s %d:%d\n", cyan.Sprint("-->"), d.Location.Line, d.Location.Column))

	if d.Context != nil {
		sb.WriteString(formatSourceContext(*d.Context))
	}

	return sb.String()
}

func formatSourceContext(ctx SourceContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("   %s\n", cyan.Sprint("|")))

	for i, line := range ctx.Lines {
		if i == ctx.HighlightIndex {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", cyan.Sprint("->"), cyan.Sprint("|"), line))
			sb.WriteString(fmt.Sprintf("   %s %s%s\n",
				cyan.Sprint("|"),
				strings.Repeat(" ", ctx.HighlightStart),
				boldRed.Sprint(strings.Repeat("^", highlightWidth(ctx)))))
		} else {
			sb.WriteString(fmt.Sprintf("   %s %s\n", cyan.Sprint("|"), gray.Sprint(line)))
		}
	}

	sb.WriteString(fmt.Sprintf("   %s\n", cyan.Sprint("|")))
	return sb.String()
}

func highlightWidth(ctx SourceContext) int {
	w := ctx.HighlightEnd - ctx.HighlightStart
	if w <= 0 {
		return 1
	}
	return w
}

// FormatSummary renders a one-line summary of a failed parse.
func FormatSummary(d *Diagnostic) string {
	return fmt.Sprintf("%s: %s", boldText.Sprint("parse failed"), d.Error())
}
