package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"servenet/pkg/types"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(v string) (Format, error) {
	switch Format(v) {
	case FormatJSON, FormatCSV:
		return Format(v), nil
	default:
		return "", fmt.Errorf("%q: %w", v, types.ErrUnknownFormat)
	}
}

type DatasetRow struct {
	NodeID      string         `json:"id"`
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Location    string         `json:"location"`
	SubmittedAt string         `json:"submittedAt"`
	Sensors     SensorReadings `json:"sensorData"`
}

// SelectVerified returns the verified records whose id is in ids, in store
// order. Pending and rejected ids are skipped.
func SelectVerified(records []types.Submission, ids []string) []types.Submission {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	out := make([]types.Submission, 0, len(ids))
	for _, record := range records {
		if record.Status == types.SubmissionStatusVerified && wanted[record.ID] {
			out = append(out, record)
		}
	}
	return out
}

// Dataset bundles the selected verified nodes for download.
func Dataset(records []types.Submission, ids []string, format Format) ([]byte, error) {
	selected := SelectVerified(records, ids)
	if len(selected) == 0 {
		return nil, types.ErrMissingSelection
	}

	rows := make([]DatasetRow, 0, len(selected))
	for _, sub := range selected {
		rows = append(rows, DatasetRow{
			NodeID:      sub.ID,
			Title:       sub.Title,
			Category:    sub.Category,
			Location:    sub.Location,
			SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC3339),
			Sensors:     Readings(sub),
		})
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal dataset: %w", err)
		}
		return data, nil
	case FormatCSV:
		return datasetCSV(rows)
	default:
		return nil, fmt.Errorf("%q: %w", format, types.ErrUnknownFormat)
	}
}

func DatasetFilename(format Format) string {
	return "serve-dataset." + string(format)
}

func datasetCSV(rows []DatasetRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "title", "category", "location", "submitted_at", "temperature", "humidity", "soil_moisture"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write dataset header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.NodeID,
			row.Title,
			row.Category,
			row.Location,
			row.SubmittedAt,
			formatReading(row.Sensors.Temperature),
			formatReading(row.Sensors.Humidity),
			formatReading(row.Sensors.SoilMoisture),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write dataset row %s: %w", row.NodeID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush dataset: %w", err)
	}
	return buf.Bytes(), nil
}

func formatReading(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
