package visitorlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRecordCreatesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.csv")
	rec := NewCSV(path)

	entry := Entry{
		Time:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		IP:        "203.0.113.7",
		UserAgent: chromeUA,
		FullName:  "Jane Doe",
		Email:     "jane.doe@example.com",
		Phone:     "5551234567",
		Condition: "Diabetes",
		Location:  "Boston",
		Consent:   true,
	}
	require.NoError(t, rec.Record(entry))
	require.NoError(t, rec.Record(entry))

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])

	row := rows[1]
	assert.Equal(t, "2026-03-01T12:00:00Z", row[0])
	assert.Equal(t, "203.0.113.7", row[1])
	assert.Contains(t, row[2], "Chrome")
	assert.Equal(t, "Windows 10", row[3])
	assert.Equal(t, "jane.doe@example.com", row[6])
	assert.Equal(t, "true", row[10])
}

func TestRecordUnknownUserAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.csv")
	rec := NewCSV(path)

	require.NoError(t, rec.Record(Entry{Time: time.Now(), Email: "x@example.com"}))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "unknown", rows[1][2])
	assert.Equal(t, "unknown", rows[1][3])
}

func TestRecordFieldsWithCommasAreQuoted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.csv")
	rec := NewCSV(path)

	require.NoError(t, rec.Record(Entry{
		Time:     time.Now(),
		Location: "Boston, MA",
		Email:    "x@example.com",
	}))

	rows := readRows(t, path)
	assert.Equal(t, "Boston, MA", rows[1][9])
}

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, NopRecorder{}.Record(Entry{}))
}
