// Package visitorlog appends one CSV row per registration attempt. Writes are
// best-effort; a failed append is logged by the caller and never fails a
// request.
package visitorlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mssola/useragent"
)

// Entry is one visitor log row.
type Entry struct {
	Time      time.Time
	IP        string
	UserAgent string
	FullName  string
	Email     string
	Phone     string
	Condition string
	Location  string
	Consent   bool
}

// Recorder is the visitor logging contract.
type Recorder interface {
	Record(entry Entry) error
}

var header = []string{
	"timestamp", "ip", "browser", "os", "userAgent",
	"fullName", "email", "phone", "condition", "location", "consent",
}

// CSVRecorder appends entries to a CSV file, writing the header row when the
// file is created. The mutex serializes appends from concurrent requests.
type CSVRecorder struct {
	mu   sync.Mutex
	path string
}

// NewCSV builds a recorder writing to path.
func NewCSV(path string) *CSVRecorder {
	return &CSVRecorder{path: path}
}

func (r *CSVRecorder) Record(entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, statErr := os.Stat(r.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open visitor log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write visitor log header: %w", err)
		}
	}

	browser, osName := parseUserAgent(entry.UserAgent)
	row := []string{
		entry.Time.UTC().Format(time.RFC3339),
		entry.IP,
		browser,
		osName,
		entry.UserAgent,
		entry.FullName,
		entry.Email,
		entry.Phone,
		entry.Condition,
		entry.Location,
		strconv.FormatBool(entry.Consent),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write visitor log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush visitor log: %w", err)
	}
	return nil
}

func parseUserAgent(raw string) (browser, osName string) {
	if raw == "" {
		return "unknown", "unknown"
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		name = "unknown"
	} else if version != "" {
		name = name + " " + version
	}
	osName = ua.OS()
	if osName == "" {
		osName = "unknown"
	}
	return name, osName
}

// NopRecorder discards entries; used when visitor logging is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(Entry) error {
	return nil
}
