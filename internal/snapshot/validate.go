package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
)

type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every offending transaction of an import payload.
// It matches ErrMalformedSnapshot with errors.Is.
type ValidationError struct {
	Rows []RowError `json:"rows"`
}

func (e *ValidationError) Error() string {
	if len(e.Rows) == 0 {
		return ErrMalformedSnapshot.Error()
	}
	parts := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		parts = append(parts, fmt.Sprintf("row %d %s: %s", r.Row, r.Field, r.Message))
	}
	return fmt.Sprintf("%s: %s", ErrMalformedSnapshot.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMalformedSnapshot
}

// Validate type-checks each raw transaction and decodes the valid set.
// Nothing is returned unless every row passes.
func Validate(raw []json.RawMessage) ([]models.Transaction, error) {
	verr := &ValidationError{}
	for i, item := range raw {
		verr.Rows = append(verr.Rows, validateRow(i, item)...)
	}
	if len(verr.Rows) > 0 {
		return nil, verr
	}

	transactions := make([]models.Transaction, 0, len(raw))
	for i, item := range raw {
		var tx models.Transaction
		if err := json.Unmarshal(item, &tx); err != nil {
			verr.Rows = append(verr.Rows, RowError{Row: i, Field: "transaction", Message: err.Error()})
			continue
		}
		transactions = append(transactions, tx)
	}
	if len(verr.Rows) > 0 {
		return nil, verr
	}
	return transactions, nil
}

func validateRow(row int, item json.RawMessage) []RowError {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return []RowError{{Row: row, Field: "transaction", Message: "must be an object"}}
	}

	var errs []RowError
	fail := func(field, msg string) {
		errs = append(errs, RowError{Row: row, Field: field, Message: msg})
	}

	for _, field := range []string{"id", "symbol", "symbolName", "date"} {
		if s, ok := fields[field].(string); !ok || s == "" {
			fail(field, "must be a non-empty string")
		}
	}
	for _, field := range []string{"quantity", "price"} {
		if _, ok := fields[field].(float64); !ok {
			fail(field, "must be a number")
		}
	}
	if s, ok := fields["type"].(string); !ok || !models.TradeType(s).Valid() {
		fail("type", "must be buy or sell")
	}
	if s, ok := fields["assetType"].(string); !ok || !models.AssetType(s).Valid() {
		fail("assetType", "unknown asset type")
	}
	if v, ok := fields["createdAt"]; ok && v != nil {
		if _, isString := v.(string); !isString {
			fail("createdAt", "must be a timestamp string")
		}
	}
	return errs
}
