package parse

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// Unmarshal decodes data into dst like json.Unmarshal, but when strict
// decoding fails it repairs the input with jsonrepair and retries once.
// The error returned on a failed retry is the original strict-decoding
// error, which points at the real defect rather than at whatever the
// repair pass produced.
func Unmarshal(data []byte, dst any) error {
	strictErr := json.Unmarshal(data, dst)
	if strictErr == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return fmt.Errorf("failed to decode payload: %w", strictErr)
	}

	if err := json.Unmarshal([]byte(repaired), dst); err != nil {
		return fmt.Errorf("failed to decode payload: %w", strictErr)
	}
	return nil
}
