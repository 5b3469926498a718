package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, cell))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRowsXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"name", "sr no", "1"},
		{"John Doe", "T1", "WFO-M"},
	})

	rows, err := ReadRows("roster.xlsx", buf)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "WFO-M", rows[1][2])
}

func TestReadRowsEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ReadRows("empty.xlsx", buf)
	assert.Error(t, err)
}

func TestReadRowsGarbageBytes(t *testing.T) {
	_, err := ReadRows("roster.xlsx", strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
