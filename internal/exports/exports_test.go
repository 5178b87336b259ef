package exports

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"

	"github.com/saasradar/saasradar/internal/scoring"
)

func TestWriteIdeasCSV(t *testing.T) {
	ideas := []*scoring.Idea{
		{
			ID:             uuid.New(),
			PostURL:        "https://twitter.com/builder/status/1",
			AuthorUsername: "builder",
			MonthlyRevenue: 10000,
			ProductName:    "Widget",
			Note:           "worth a, closer look",
			Score:          &scoring.Result{Total: 82},
		},
	}

	var buf bytes.Buffer
	if err := WriteIdeasCSV(&buf, ideas); err != nil {
		t.Fatalf("WriteIdeasCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header plus one", len(records))
	}
	if len(records[0]) != len(records[1]) {
		t.Errorf("column mismatch: header %d, row %d", len(records[0]), len(records[1]))
	}

	row := records[1]
	if row[3] != "builder" || row[4] != "10000" || row[10] != "A" {
		t.Errorf("row = %v", row)
	}
	if row[15] != "worth a, closer look" {
		t.Errorf("note with comma mangled: %q", row[15])
	}
}
