package metamodel

import (
	"fmt"
	"strconv"
	"time"
)

// Row-scanning helpers used by generated Scan functions. Each helper looks up
// a column in a column-keyed row (as returned by store.QueryRows), converts
// the driver value to the target Go type and returns the zero value for SQL
// NULL. A missing key is an error: it means the query did not select the
// column the generated mapper expects.

func lookup(row map[string]any, column string) (any, error) {
	v, ok := row[column]
	if !ok {
		return nil, fmt.Errorf("metamodel: column %q not present in row", column)
	}
	return v, nil
}

// StringField reads a text column.
func StringField(row map[string]any, column string) (string, error) {
	v, err := lookup(row, column)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return "", convErr(column, v, "string")
	}
}

// Int64Field reads an integer column.
func Int64Field(row map[string]any, column string) (int64, error) {
	v, err := lookup(row, column)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	default:
		return 0, convErr(column, v, "int64")
	}
}

// IntField reads an integer column into an int.
func IntField(row map[string]any, column string) (int, error) {
	v, err := Int64Field(row, column)
	return int(v), err
}

// Float64Field reads a floating-point column.
func Float64Field(row map[string]any, column string) (float64, error) {
	v, err := lookup(row, column)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	default:
		return 0, convErr(column, v, "float64")
	}
}

// BoolField reads a boolean column. SQLite stores booleans as integers, so
// numeric values are accepted with 0 as false.
func BoolField(row map[string]any, column string) (bool, error) {
	v, err := lookup(row, column)
	if err != nil {
		return false, err
	}
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case int64:
		return val != 0, nil
	default:
		return false, convErr(column, v, "bool")
	}
}

// TimeField reads a temporal column. Text values are parsed as RFC 3339 and
// as the SQLite datetime format.
func TimeField(row map[string]any, column string) (time.Time, error) {
	v, err := lookup(row, column)
	if err != nil {
		return time.Time{}, err
	}
	switch val := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return val, nil
	case string:
		return parseTime(column, val)
	case []byte:
		return parseTime(column, string(val))
	case int64:
		return time.Unix(val, 0).UTC(), nil
	default:
		return time.Time{}, convErr(column, v, "time.Time")
	}
}

// BytesField reads a blob column.
func BytesField(row map[string]any, column string) ([]byte, error) {
	v, err := lookup(row, column)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	default:
		return nil, convErr(column, v, "[]byte")
	}
}

func parseTime(column, value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("metamodel: column %q: cannot parse %q as time", column, value)
}

func convErr(column string, value any, target string) error {
	return fmt.Errorf("metamodel: column %q: cannot convert %T to %s", column, value, target)
}
