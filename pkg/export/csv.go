package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]interface{}
}

// RenderCSV produces CSV bytes for the dataset: one header record followed by
// one record per row, columns in header order.
func RenderCSV(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = stringify(row[header])
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseCSV reads CSV bytes produced by RenderCSV back into rows keyed by the
// file's own header record. Empty cells become nil so they insert as NULL.
func ParseCSV(data []byte) (Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	records, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return Dataset{}, fmt.Errorf("csv file has no header record")
	}

	headers := records[0]
	rows := make([]map[string]interface{}, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(headers) {
			return Dataset{}, fmt.Errorf("csv record has %d fields, expected %d", len(record), len(headers))
		}

		row := make(map[string]interface{}, len(headers))
		for i, header := range headers {
			if record[i] == "" {
				row[header] = nil
				continue
			}
			row[header] = record[i]
		}
		rows = append(rows, row)
	}

	return Dataset{Headers: headers, Rows: rows}, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
