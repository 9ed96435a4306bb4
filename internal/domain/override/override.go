// Package override applies human adjustments to computed allocation records.
//
// An override replaces a single line's to-give quantity, clamped to the line's
// requested quantity. It deliberately does not re-check the product-level
// stock cap: a human is allowed to promise more than the stock tally, and the
// audit table surfaces the resulting deficit instead of the engine refusing
// the edit.
package override

import (
	"fmt"

	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
)

// Apply sets the to-give quantity for the record identified by lineID,
// clamping newQty to [0, requested], and recomputes that line's satisfaction.
// The updated record is patched in place and returned. Applying the same
// override twice yields the same result. An unknown lineID is the only error.
func Apply(records []dispatch.Record, lineID string, newQty int) (dispatch.Record, error) {
	for i := range records {
		if records[i].Line.ID != lineID {
			continue
		}
		if newQty < 0 {
			newQty = 0
		}
		if newQty > records[i].Line.Requested {
			newQty = records[i].Line.Requested
		}
		records[i].ToGive = newQty
		records[i].Satisfaction = dispatch.Satisfaction(newQty, records[i].Line.Requested)
		return records[i], nil
	}
	return dispatch.Record{}, fmt.Errorf("override: no order line with id %q", lineID)
}
