package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/saasradar/saasradar/internal/scoring"
)

var csvHeader = []string{
	"id",
	"found_at",
	"post_url",
	"author",
	"monthly_revenue",
	"revenue_kind",
	"revenue_confidence",
	"product_name",
	"product_url",
	"score",
	"grade",
	"complexity",
	"category",
	"replicability",
	"favorite",
	"note",
}

// WriteIdeasCSV streams the ideas as a CSV document.
func WriteIdeasCSV(w io.Writer, ideas []*scoring.Idea) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, idea := range ideas {
		record := []string{
			idea.ID.String(),
			idea.FoundAt.Format(time.RFC3339),
			idea.PostURL,
			idea.AuthorUsername,
			fmt.Sprintf("%.0f", idea.MonthlyRevenue),
			string(idea.RevenueKind),
			fmt.Sprintf("%.2f", idea.RevenueConfidence),
			idea.ProductName,
			idea.ProductURL,
			fmt.Sprintf("%d", idea.TotalScore()),
			gradeOf(idea),
			string(idea.Complexity),
			idea.Category,
			string(idea.Replicability),
			fmt.Sprintf("%t", idea.Favorite),
			idea.Note,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func gradeOf(idea *scoring.Idea) string {
	if idea.Score == nil {
		return ""
	}
	return idea.Score.Grade()
}
