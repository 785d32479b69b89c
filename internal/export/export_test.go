package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"guitarlots/internal/model"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleRecord() model.Record {
	return model.Record{
		LotURL: "https://www.guitar-auctions.co.uk/lot/1",
		LotParsed: model.LotParsed{
			EstimateLow:      intPtr(3500),
			EstimateHigh:     intPtr(5000),
			FullDescription:  "1974 Gibson Les Paul; body: spruce * with case",
			Notes:            []string{"with case", "refret"},
			Year:             "1974",
			Title:            "Gibson Les Paul",
			Brand:            "Gibson",
			Model:            "Les Paul",
			Type:             "hollow body electric",
			Body:             "spruce",
			Weight:           floatPtr(4.2),
			OverallCondition: "good",
		},
		Valuation: model.Valuation{
			ValueEstimateLow:  intPtr(4000),
			ValueEstimateHigh: intPtr(6000),
			Rationale:         "sought after",
		},
	}
}

func TestJSONL_RoundTrip(t *testing.T) {
	records := []model.Record{sampleRecord(), {LotURL: "https://x/lot/2", LotParsed: model.LotParsed{Notes: []string{}}}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, records))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	got, err := ReadJSONL(strings.NewReader(buf.String() + "\n\n"))
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestJSONL_FlatKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, []model.Record{sampleRecord()}))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	for _, k := range []string{"lot_url", "estimate_low", "estimate_high", "full_description", "notes", "year",
		"title", "brand", "model", "type", "body", "weight", "overall condition",
		"value_estimate_low", "value_estimate_high", "rationale"} {
		assert.Contains(t, m, k)
	}
	assert.NotContains(t, m, "neck")
	assert.NotContains(t, m, "made_in")
}

func TestJSONL_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lots.jsonl")
	require.NoError(t, SaveJSONL(path, []model.Record{sampleRecord()}))

	got, err := LoadJSONL(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gibson Les Paul", got[0].Title)

	_, err = LoadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestReadJSONL_BadLine(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"lot_url\":\"a\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRows(t *testing.T) {
	rows := Rows([]model.Record{sampleRecord(), {LotURL: "https://x/lot/2"}})
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], len(Header))
	assert.Equal(t, "Lot URL", rows[0][0])

	full := rows[1]
	require.Len(t, full, len(Header))
	assert.Equal(t, "Hollow Body Electric", full[1])
	assert.Equal(t, 4.2, full[7])
	assert.Equal(t, 3500, full[9])
	assert.Equal(t, 6000, full[12])
	assert.Equal(t, 750.0, full[14])
	assert.Equal(t, "with case; refret", full[22])
	assert.Equal(t, "1974 Gibson Les Paul; body: spruce * with case", full[23])

	empty := rows[2]
	require.Len(t, empty, len(Header))
	for i := 1; i < len(empty); i++ {
		assert.Equal(t, "", empty[i], Header[i])
	}
}

func TestSheetWriter_Write(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
		updated  struct {
			Values [][]any `json:"values"`
		}
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &updated))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	defer ts.Close()

	ctx := context.Background()
	sw, err := NewSheetWriter(ctx, "", "sheet123", "lots",
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)

	require.NoError(t, sw.Write(ctx, []model.Record{sampleRecord()}))

	require.Len(t, requests, 2)
	assert.Equal(t, "POST /v4/spreadsheets/sheet123/values/lots:clear", requests[0])
	assert.Equal(t, "PUT /v4/spreadsheets/sheet123/values/lots!A1", requests[1])
	require.Len(t, updated.Values, 2)
	assert.Equal(t, "Lot URL", updated.Values[0][0])
}

func TestNewSheetWriter_RequiresID(t *testing.T) {
	_, err := NewSheetWriter(context.Background(), "", "", "lots")
	assert.Error(t, err)
}
