package ultralytics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// resultsFileName is the per-run metrics file the trainer appends to
// after every epoch.
const resultsFileName = "results.csv"

// parseResults reads a results file into per-epoch metrics. Column
// names are library-defined and carried through unexamined; columns
// that do not parse as numbers are skipped.
func parseResults(path string) ([]domain.EpochMetrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	// The trainer may be mid-write; tolerate a ragged final row.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	epochCol := -1
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
		if header[i] == "epoch" {
			epochCol = i
		}
	}
	if epochCol == -1 {
		return nil, fmt.Errorf("results missing epoch column: %s", path)
	}

	var rows []domain.EpochMetrics
	for _, record := range records[1:] {
		if epochCol >= len(record) {
			continue
		}
		epoch, err := strconv.ParseFloat(strings.TrimSpace(record[epochCol]), 64)
		if err != nil {
			continue
		}

		values := make(map[string]float64, len(record)-1)
		for i, field := range record {
			if i == epochCol || i >= len(header) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				continue
			}
			values[header[i]] = v
		}

		rows = append(rows, domain.EpochMetrics{
			Epoch:  int(epoch),
			Values: values,
		})
	}

	return rows, nil
}
