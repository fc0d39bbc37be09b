package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/pkg/export"
)

func TestRenderCSVOrdersColumnsByHeader(t *testing.T) {
	stamp := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	data, err := export.RenderCSV(export.Dataset{
		Headers: []string{"id", "name", "due_date"},
		Rows: []map[string]interface{}{
			{"name": "Worksheet 1", "id": 1, "due_date": stamp},
			{"name": "Worksheet 2", "id": 2, "due_date": nil},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, []string{
		"id,name,due_date",
		"1,Worksheet 1,2026-09-01T12:00:00Z",
		"2,Worksheet 2,",
	}, lines)
}

func TestRenderCSVRequiresHeaders(t *testing.T) {
	_, err := export.RenderCSV(export.Dataset{})
	require.Error(t, err)
}

func TestParseCSVTreatsEmptyCellsAsNull(t *testing.T) {
	payload := []byte("id,name,email\n1,Ana,ana@example.com\n2,Ben,\n")

	dataset, err := export.ParseCSV(payload)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "email"}, dataset.Headers)
	require.Len(t, dataset.Rows, 2)

	require.Equal(t, "ana@example.com", dataset.Rows[0]["email"])
	require.Nil(t, dataset.Rows[1]["email"])
}

func TestParseCSVRejectsRaggedRecords(t *testing.T) {
	_, err := export.ParseCSV([]byte("id,name\n1\n"))
	require.Error(t, err)
}

func TestParseCSVRejectsEmptyInput(t *testing.T) {
	_, err := export.ParseCSV(nil)
	require.Error(t, err)
}
