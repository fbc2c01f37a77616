// Package loader reads the legacy export document. A missing or corrupt
// document is a load fault and aborts the run before any record is
// processed.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/farhadk/rms/internal/migration/models"
)

// Load reads the JSON export at path into the ordered record list. Records
// without a legacy identifier make the whole document invalid; that is the
// only invariant the input carries.
func Load(path string) ([]models.LegacyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy export: %w", err)
	}

	var records []models.LegacyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse legacy export: %w", err)
	}

	for i := range records {
		if records[i].RecordID == 0 {
			return nil, fmt.Errorf("legacy export entry %d has no recordId", i)
		}
	}
	return records, nil
}
