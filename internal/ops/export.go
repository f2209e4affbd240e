package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/lexi/internal/errors"
)

// ExportFormat selects the Export output encoding.
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
	FormatHTML     ExportFormat = "html"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	UserID string
	Format ExportFormat
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Format      ExportFormat `json:"format"`
	ContentType string       `json:"content_type"`
	Content     string       `json:"content"`
}

// Export renders the learner's analytics for backup or analysis.
// JSON emits the raw aggregates; markdown emits a progress report;
// html is the markdown report rendered through goldmark. Any other
// format is a typed failure.
func (e *Engine) Export(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	analytics, err := e.Analytics(ctx, AnalyticsInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	switch input.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(analytics, "", "  ")
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		return &ExportOutput{
			Format:      FormatJSON,
			ContentType: "application/json",
			Content:     string(data),
		}, nil

	case FormatMarkdown:
		return &ExportOutput{
			Format:      FormatMarkdown,
			ContentType: "text/markdown",
			Content:     markdownReport(analytics),
		}, nil

	case FormatHTML:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(markdownReport(analytics)), &buf); err != nil {
			return nil, errors.NewInternal(err)
		}
		return &ExportOutput{
			Format:      FormatHTML,
			ContentType: "text/html",
			Content:     buf.String(),
		}, nil

	default:
		return nil, errors.NewUnsupportedFormat(string(input.Format))
	}
}

// markdownReport renders analytics as a markdown progress report.
func markdownReport(a *AnalyticsOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Progress report: %s\n\n", a.UserState.UserID)

	fmt.Fprintf(&b, "## Learner\n\n")
	fmt.Fprintf(&b, "- Ability: %.2f\n", a.UserState.AbilityTheta)
	fmt.Fprintf(&b, "- Sessions: %d\n", a.UserState.SessionsCount)
	fmt.Fprintf(&b, "- Study time: %.1f minutes\n", a.UserState.TotalStudyTime)
	fmt.Fprintf(&b, "- Rolling accuracy: %.0f%%\n\n", a.UserState.AvgSessionAccuracy*100)

	fmt.Fprintf(&b, "## Vocabulary\n\n")
	s := a.WordStatistics
	fmt.Fprintf(&b, "| State | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| New | %d |\n", s.NewWords)
	fmt.Fprintf(&b, "| Learning | %d |\n", s.LearningWords)
	fmt.Fprintf(&b, "| Mature | %d |\n", s.MatureWords)
	fmt.Fprintf(&b, "| Total | %d |\n\n", s.TotalWords)
	fmt.Fprintf(&b, "Average difficulty %.1f, stability %.1f days, accuracy %.0f%%.\n\n",
		s.AvgDifficulty, s.AvgStability, s.AvgAccuracy*100)

	if len(a.RecentSessions) > 0 {
		fmt.Fprintf(&b, "## Recent sessions\n\n")
		for _, sess := range a.RecentSessions {
			fmt.Fprintf(&b, "- %s: %.0f%% accuracy\n", sess.Date, sess.Accuracy*100)
		}
		b.WriteString("\n")
	}

	if len(a.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	return b.String()
}
