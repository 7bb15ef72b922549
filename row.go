package sqlrow

import (
	"database/sql"
	"strings"
)

// Row is the abstract accessor a record is built from: a value lookup by
// column identifier. The second return reports whether the column is present
// in the result set at all; a present column may still hold a nil value
// (SQL NULL).
type Row interface {
	Get(column string) (value any, ok bool)
}

// MapRow is a map-backed Row. Lookup tries an exact match first, then a
// case-insensitive fold, so drivers that lowercase column names still match
// fields declared with exported-name columns.
type MapRow map[string]any

// Get implements Row.
func (m MapRow) Get(column string) (any, bool) {
	if v, ok := m[column]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, column) {
			return v, true
		}
	}
	return nil, false
}

var _ Row = MapRow{}

// ScanRow reads the current row of rows into a MapRow. The caller owns
// rows.Next/rows.Err; ScanRow only consumes the positioned row.
func ScanRow(rows *sql.Rows) (MapRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(MapRow, len(columns))
	for i, col := range columns {
		// Drivers may reuse []byte buffers between rows; copy to keep the
		// Row valid after the cursor advances.
		if b, ok := values[i].([]byte); ok {
			row[col] = append([]byte(nil), b...)
			continue
		}
		row[col] = values[i]
	}
	return row, nil
}
