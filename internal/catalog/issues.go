package catalog

import (
	"context"

	"github.com/narwhalmedia/moviebrowser/internal/metrics"
	"github.com/narwhalmedia/moviebrowser/internal/normalize"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
)

// ReportIssues logs and counts the data-quality issues normalization found
// while serving op.
func ReportIssues(ctx context.Context, log interfaces.Logger, op string, report *normalize.Report) {
	if report.Empty() {
		return
	}
	log = log.WithContext(ctx)
	for _, issue := range report.Issues {
		metrics.NormalizationIssues.WithLabelValues(string(issue.Source), issue.Field).Inc()
		log.Warn("normalization issue",
			interfaces.String("op", op),
			interfaces.String("issue", issue.String()))
	}
}
