package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:  "Attendance",
		Header: []string{"Name", "Email", "Date", "Status"},
		Rows: [][]string{
			{"Ayu", "ayu@example.com", "2024-03-11", "Present"},
			{},
			{"Present", "1"},
			{"Absent", "0"},
			{"Leave", "0"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	// encoding/csv skips empty lines on read, so the separator disappears here.
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Name", "Email", "Date", "Status"}, records[0])
	assert.Equal(t, []string{"Present", "1"}, records[2])
}

func TestWriteCSVKeepsSeparatorLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))
	assert.Contains(t, buf.String(), "Present\n\nPresent,1\n")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Email", rows[0][1])
	assert.Empty(t, rows[2])
	assert.Equal(t, []string{"Leave", "0"}, rows[5])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Len(t, []rune(sheetName("A very long attendance report title for March")), 31)
}
