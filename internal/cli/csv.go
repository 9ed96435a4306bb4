package cli

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/prg-tools/dispatch-backend/internal/domain/normalizer"
)

// ReadCSVDataset loads a CSV file as a raw dataset: first row is the header,
// the rest are data rows. Rows may be ragged; the normalizer treats missing
// cells as empty.
func ReadCSVDataset(path string) (normalizer.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return normalizer.Dataset{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return normalizer.Dataset{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return normalizer.Dataset{}, fmt.Errorf("%s: empty file, expected a header row", path)
	}

	return normalizer.Dataset{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
