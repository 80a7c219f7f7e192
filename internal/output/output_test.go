package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitumame/mamegen/internal/ir"
)

func TestResolveFormatPrefersPathExtension(t *testing.T) {
	assert.Equal(t, FormatJSON, Resolve("out.json", ir.OutputCSV))
	assert.Equal(t, FormatCSV, Resolve("out.csv", ir.OutputJSON))
	assert.Equal(t, FormatJSON, Resolve("out.dat", ir.OutputJSON))
	assert.Equal(t, FormatCSV, Resolve("out.dat", ir.OutputCSV))
}

func sampleRows() ([]string, [][]ir.Cell) {
	header := []string{"id", "name"}
	rows := [][]ir.Cell{
		{ir.IntCell(1), ir.StringCell("alice")},
		{ir.IntCell(2), ir.NullCell()},
	}
	return header, rows
}

func TestEncodeCSVWithHeader(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatCSV, Options{WithHeader: true})
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alice\n2,\n", buf.String())
}

func TestEncodeCSVWithoutHeader(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatCSV, Options{WithHeader: false})
	require.NoError(t, err)
	assert.Equal(t, "1,alice\n2,\n", buf.String())
}

func TestEncodeCSVQuoteStrings(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatCSV, Options{WithHeader: true, QuoteStrings: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"alice"`)
	assert.Contains(t, buf.String(), "1,")
}

func TestEncodeJSONWithHeaderProducesObjects(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatJSON, Options{WithHeader: true})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(1), decoded[0]["id"])
	assert.Equal(t, "alice", decoded[0]["name"])
	assert.Nil(t, decoded[1]["name"])
}

func TestEncodeJSONWithoutHeaderProducesArrays(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatJSON, Options{WithHeader: false})
	require.NoError(t, err)

	var decoded [][]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(1), decoded[0][0])
	assert.Equal(t, "alice", decoded[0][1])
}

func TestEncodeUnknownEncodingIsError(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatCSV, Options{WithHeader: true, Encoding: "not-a-real-encoding"})
	require.Error(t, err)
}

func TestEncodeUTF8EncodingIsNoOp(t *testing.T) {
	header, rows := sampleRows()
	var buf bytes.Buffer
	err := Encode(&buf, header, rows, FormatCSV, Options{WithHeader: true, Encoding: "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alice\n2,\n", buf.String())
}
