package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader_ParsesHeaderAndRows(t *testing.T) {
	input := "Order ID,Total,Currency\n1001,123.45,INR\n1002,67.80,INR\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Order ID", "Total", "Currency"}, r.Headers())

	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1001", rows[0].Get("Order ID"))
	assert.Equal(t, "67.80", rows[1].Get("Total"))
	assert.Equal(t, 2, rows[0].Line)
}

func TestNewReader_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBFId,Name\n1,foo\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Name"}, r.Headers())
}

func TestNewReader_EmptyFile(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestNewReader_InvalidEncoding(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0xff, 0xfe, 0x41, 0x42}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestReader_ShortRowsMapToEmpty(t *testing.T) {
	input := "a,b,c\n1,2\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Get("c"))
}

func TestReadAll_SkipsEmptyRows(t *testing.T) {
	input := "a,b\n1,2\n,\n3,4\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, []string{"id", "total"})
	require.NoError(t, err)

	require.NoError(t, w.Write(map[string]string{"id": "1001", "total": "12.00"}))
	require.NoError(t, w.Write(map[string]string{"id": "1002"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, 2, w.Rows())
	assert.Equal(t, "id,total\n1001,12.00\n1002,\n", buf.String())
}
