package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/ccview/pkg/model"
)

// ReportFileName is the name of the exported report.
const ReportFileName = "analysis_report.md"

// ReportTitle is the top-level heading of every report.
const ReportTitle = "Circular Code Analysis Report"

// SectionLabel names the report section for result idx out of total.
func SectionLabel(idx, total int) string {
	if total > 1 {
		return fmt.Sprintf("Code Block %d", idx+1)
	}
	return "Analysis Result"
}

// GenerateMarkdown renders results as the analysis report. Results with an
// attached GraphImage get an embedded image; everything else is text only.
func GenerateMarkdown(results []model.AnalysisResult, source string, now time.Time) string {
	var sb strings.Builder

	if source == "" {
		source = "Unknown Source"
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", ReportTitle))
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", now.Format(time.RFC1123)))
	sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", source))
	sb.WriteString(fmt.Sprintf("This document summarizes the analysis of %d code block(s).\n\n", len(results)))

	for idx, res := range results {
		label := SectionLabel(idx, len(results))
		sb.WriteString(fmt.Sprintf("## %s\n\n", label))
		if res.Error != "" {
			sb.WriteString(fmt.Sprintf("**Error:** %s\n\n", res.Error))
		}
		sb.WriteString("```text\n")
		sb.WriteString(res.Summary)
		sb.WriteString("\n```\n\n")

		if res.GraphImage != "" {
			sb.WriteString("### Graph\n\n")
			sb.WriteString(fmt.Sprintf("![Graph for %s](%s)\n\n", label, res.GraphImage))
		}
	}

	return sb.String()
}
