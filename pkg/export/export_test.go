package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:    "Register • Maths A",
		Subtitle: "Mon 16 Feb 2026 • 19:00",
		Headers:  []string{"Student", "Payment", "Attendance"},
		Rows: []map[string]string{
			{"Student": "Ada", "Payment": "Paid", "Attendance": "Present"},
			{"Student": "Grace", "Payment": "Pending"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Payment,Attendance", lines[0])
	assert.Equal(t, "Grace,Pending,", lines[2])
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Student", "Note"},
		Rows: []map[string]string{
			{"Student": "=HYPERLINK(\"http://x\")", "Note": "@home"},
			{"Student": "Ben", "Note": "left early"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"'=HYPERLINK(""http://x"")",'@home`, lines[1])
	assert.Equal(t, "Ben,left early", lines[2])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 5)
	assert.Equal(t, "Register • Maths A", rows[0][0])
	assert.Equal(t, []string{"Student", "Payment", "Attendance"}, rows[3])
	assert.Equal(t, "Ada", rows[4][0])
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewXLSXExporter().Render(Dataset{})
	assert.Error(t, err)
}
