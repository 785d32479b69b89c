package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"guitarlots/internal/model"
)

// WriteJSONL writes one JSON object per record, newline terminated.
func WriteJSONL(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, r.LotURL, err)
		}
	}
	return nil
}

// SaveJSONL writes records to path, replacing any existing file.
func SaveJSONL(path string, records []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := WriteJSONL(bw, records); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSONL reads records written by WriteJSONL. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4<<20)
	for line := 1; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec model.Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, sc.Err()
}

// LoadJSONL reads the records saved at path.
func LoadJSONL(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSONL(f)
}
