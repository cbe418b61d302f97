package report

import (
	"encoding/json"
	"fmt"
	"os"
)

func WriteJSON(r *Record, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
