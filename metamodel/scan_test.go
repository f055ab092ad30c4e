package metamodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringField(t *testing.T) {
	row := map[string]any{"s": "text", "b": []byte("bytes"), "n": nil}

	v, err := StringField(row, "s")
	require.NoError(t, err)
	assert.Equal(t, "text", v)

	v, err = StringField(row, "b")
	require.NoError(t, err)
	assert.Equal(t, "bytes", v)

	v, err = StringField(row, "n")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestStringField_MissingColumn(t *testing.T) {
	_, err := StringField(map[string]any{}, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestInt64Field(t *testing.T) {
	row := map[string]any{"i64": int64(42), "i": 7, "f": 3.0, "n": nil, "bad": "x"}

	v, err := Int64Field(row, "i64")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = Int64Field(row, "i")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = Int64Field(row, "f")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = Int64Field(row, "n")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Int64Field(row, "bad")
	assert.Error(t, err)
}

func TestIntField(t *testing.T) {
	v, err := IntField(map[string]any{"i": int64(9)}, "i")
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestFloat64Field(t *testing.T) {
	row := map[string]any{"f": 1.5, "i": int64(2), "n": nil}

	v, err := Float64Field(row, "f")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = Float64Field(row, "i")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = Float64Field(row, "n")
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestBoolField(t *testing.T) {
	row := map[string]any{"t": true, "one": int64(1), "zero": int64(0), "n": nil}

	v, err := BoolField(row, "t")
	require.NoError(t, err)
	assert.True(t, v)

	// SQLite stores booleans as integers.
	v, err = BoolField(row, "one")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = BoolField(row, "zero")
	require.NoError(t, err)
	assert.False(t, v)

	v, err = BoolField(row, "n")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestTimeField(t *testing.T) {
	instant := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	row := map[string]any{
		"t":     instant,
		"rfc":   "2024-06-01T12:30:00Z",
		"dt":    "2024-06-01 12:30:00",
		"date":  "2024-06-01",
		"bytes": []byte("2024-06-01T12:30:00Z"),
		"unix":  instant.Unix(),
		"n":     nil,
		"bad":   "not a time",
	}

	for _, column := range []string{"t", "rfc", "bytes", "unix"} {
		v, err := TimeField(row, column)
		require.NoError(t, err, column)
		assert.True(t, v.Equal(instant), column)
	}

	v, err := TimeField(row, "dt")
	require.NoError(t, err)
	assert.Equal(t, instant, v.UTC())

	v, err = TimeField(row, "date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), v.UTC())

	v, err = TimeField(row, "n")
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = TimeField(row, "bad")
	assert.Error(t, err)
}

func TestBytesField(t *testing.T) {
	row := map[string]any{"b": []byte{1, 2}, "s": "abc", "n": nil}

	v, err := BytesField(row, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)

	v, err = BytesField(row, "s")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)

	v, err = BytesField(row, "n")
	require.NoError(t, err)
	assert.Nil(t, v)
}
