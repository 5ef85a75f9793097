package saver

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitas-chart/internal/model"
)

var sample = []model.AggBar{
	{Bar: model.Bar{Timestamp: 1705284000000, Open: 10, High: 12.5, Low: 9.75, Close: 11, Volume: 1200}, Count: 60, Complete: true},
	{Bar: model.Bar{Timestamp: 1705287600000, Open: 11, High: 11.5, Low: 10, Close: 10.25, Volume: 300}, Count: 12},
}

func TestNewSeriesSaver(t *testing.T) {
	assert.Equal(t, "csv", NewSeriesSaver(" CSV ").Extension())
	assert.Equal(t, "parquet", NewSeriesSaver("parquet").Extension())
	assert.Equal(t, "json", NewSeriesSaver("json").Extension())
	assert.Nil(t, NewSeriesSaver("xlsx"))
}

func TestCSVSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, CSVSaver{}.Save(sample, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"t", "o", "h", "l", "c", "v", "n", "complete"}, records[0])
	assert.Equal(t, []string{"1705284000000", "10", "12.5", "9.75", "11", "1200", "60", "true"}, records[1])
	assert.Equal(t, "false", records[2][7])
}

func TestJSONSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, JSONSaver{}.Save(sample, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []model.AggBar
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sample, got)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, JSONSaver{}.Save(nil, empty))
	data, err = os.ReadFile(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestParquetSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ParquetSaver{}.Save(sample, path))

	rows, err := parquet.ReadFile[ParquetRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1705284000000), rows[0].Timestamp)
	assert.Equal(t, int64(60), rows[0].Count)
	assert.True(t, rows[0].Complete)
	assert.Equal(t, 10.25, rows[1].Close)
}

func TestSaveIntoMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.csv")
	assert.Error(t, CSVSaver{}.Save(sample, path))
}
