package postgres

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var errEmptyUpdate = errors.New("no fields to update")

// buildPartialUpdate assembles an UPDATE statement from a sparse field map.
// Keys of data are API field names; columns maps each one to its SQL column.
// Fields are emitted in sorted order so statements are deterministic, and the
// key lands in the final ordinal placeholder. Callers append RETURNING.
func buildPartialUpdate(table string, data map[string]any, columns map[string]string, keyColumn string, keyValue any) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, errEmptyUpdate
	}

	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	assignments := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, field := range fields {
		column, ok := columns[field]
		if !ok {
			return "", nil, fmt.Errorf("field %q cannot be updated", field)
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, data[field])
	}
	args = append(args, keyValue)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		table,
		strings.Join(assignments, ", "),
		keyColumn,
		len(args),
	)
	return sql, args, nil
}
