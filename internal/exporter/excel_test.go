package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleTable()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Incidents"}, f.GetSheetList())

	rows, err := f.GetRows("Incidents")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"incident_type", "domain", "share_2021", "share_2023", "moe_2021", "moe_2023"}, rows[0])
	assert.Equal(t, "Unavailability of services", rows[1][0])
	assert.Equal(t, "Västra Götaland", rows[1][1])
	assert.Equal(t, "27.5", rows[1][2])

	// Missing shares come out as empty cells.
	assert.Equal(t, "Destruction of data", rows[2][0])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "4", rows[2][3])
}
