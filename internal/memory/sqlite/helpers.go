package sqlite

import (
	"database/sql"
)

// ============================================================================
// Row Scanning Helpers
// ============================================================================

// cell holds one (key, value) row of region_cells
type cell struct {
	key   []byte
	value []byte
}

// scanCells drains rows into memory and closes them.
// Column order must be (key, value).
func scanCells(rows *sql.Rows) ([]cell, error) {
	defer rows.Close()

	var cells []cell
	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.key, &c.value); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cells, nil
}
