package output

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/muurk/devscan/internal/fingerprint"
	"github.com/muurk/devscan/internal/scanner"
)

// Record is the JSON form of a found device, shared by the JSON export,
// published messages and the control server.
type Record struct {
	Address    string    `json:"address"`
	Device     string    `json:"device"`
	Category   string    `json:"category"`
	Identified bool      `json:"identified"`
	Title      string    `json:"title,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Hostname   string    `json:"hostname,omitempty"`
	MAC        string    `json:"mac,omitempty"`
	Vendor     string    `json:"vendor,omitempty"`
	FoundAt    time.Time `json:"found_at"`
}

// NewRecord converts d to a Record stamped with the given time.
func NewRecord(d scanner.Device, at time.Time) Record {
	return Record{
		Address:    d.Address,
		Device:     d.Variant.String(),
		Category:   fingerprint.Category(d.Variant),
		Identified: fingerprint.Identified(d.Variant),
		Title:      d.Title,
		StatusCode: d.StatusCode,
		Hostname:   d.Hostname,
		MAC:        d.MAC,
		Vendor:     d.Vendor,
		FoundAt:    at.UTC(),
	}
}

// Records converts devices to Records stamped with the current time.
func Records(devices []scanner.Device) []Record {
	now := time.Now()
	records := make([]Record, 0, len(devices))
	for _, d := range devices {
		records = append(records, NewRecord(d, now))
	}
	return records
}

// MarshalRecord encodes a single record.
func MarshalRecord(r Record) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(r)
}

// WriteJSON writes records to path as an indented JSON array.
func WriteJSON(path string, records []Record) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return WriteAtomic(path, append(data, '\n'))
}
