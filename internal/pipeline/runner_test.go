package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guitarlots/internal/lotparser"
	"guitarlots/internal/model"
)

type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, url string) (string, error) {
	page, ok := m[url]
	if !ok {
		return "", fmt.Errorf("status 404 for %s", url)
	}
	return page, nil
}

type stubValuer struct {
	err   error
	calls []string
}

func (s *stubValuer) Value(_ context.Context, description string) (model.Valuation, error) {
	s.calls = append(s.calls, description)
	if s.err != nil {
		return model.Valuation{}, s.err
	}
	low, high := 4000, 6000
	return model.Valuation{ValueEstimateLow: &low, ValueEstimateHigh: &high, Rationale: "fair"}, nil
}

type memStore struct {
	saved []model.Record
	err   error
}

func (m *memStore) Save(_ context.Context, rec model.Record) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, rec)
	return nil
}

func lotPage(description, estimate string) string {
	return fmt.Sprintf(`<html><body><div class="cell large-7 medium-3 small-12">%s<p>Estimate: %s</p></div></body></html>`,
		description, estimate)
}

func TestRunner_Run(t *testing.T) {
	fetcher := mapFetcher{
		"u1": lotPage("1974 Gibson Les Paul; body: mahogany * with case", "£3500-5000"),
		"u3": lotPage("Fender Precision Bass; includes gig bag", "POA"),
	}
	valuer := &stubValuer{}
	store := &memStore{}
	r := &Runner{Fetcher: fetcher, Parser: lotparser.New(nil, nil), Valuer: valuer, Store: store}

	records, err := r.Run(context.Background(), []string{"u1", "u2", "u3"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "u1", first.LotURL)
	assert.Equal(t, "1974", first.Year)
	assert.Equal(t, "mahogany", first.Body)
	assert.Equal(t, []string{"with case"}, first.Notes)
	assert.Equal(t, 3500, *first.EstimateLow)
	assert.Equal(t, 4000, *first.ValueEstimateLow)
	assert.Equal(t, "fair", first.Rationale)

	second := records[1]
	assert.Equal(t, "u3", second.LotURL)
	assert.Nil(t, second.EstimateLow)
	assert.Equal(t, []string{"includes gig bag"}, second.Notes)

	assert.Equal(t, []string{"1974 Gibson Les Paul; body: mahogany * with case", "Fender Precision Bass; includes gig bag"}, valuer.calls)
	assert.Len(t, store.saved, 2)
}

func TestRunner_ValuationFailureKeepsLot(t *testing.T) {
	r := &Runner{
		Fetcher: mapFetcher{"u1": lotPage("Gibson SG", "£1-2")},
		Parser:  lotparser.New(nil, nil),
		Valuer:  &stubValuer{err: errors.New("timeout")},
	}

	records, err := r.Run(context.Background(), []string{"u1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gibson SG", records[0].Title)
	assert.Nil(t, records[0].ValueEstimateLow)
}

func TestRunner_StoreFailureKeepsLot(t *testing.T) {
	r := &Runner{
		Fetcher: mapFetcher{"u1": lotPage("Gibson SG", "£1-2")},
		Parser:  lotparser.New(nil, nil),
		Store:   &memStore{err: errors.New("db down")},
	}

	records, err := r.Run(context.Background(), []string{"u1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunner_EmptyDescriptionSkipsValuation(t *testing.T) {
	valuer := &stubValuer{}
	r := &Runner{
		Fetcher: mapFetcher{"u1": `<html><body><p>withdrawn</p></body></html>`},
		Parser:  lotparser.New(nil, nil),
		Valuer:  valuer,
	}

	records, err := r.Run(context.Background(), []string{"u1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, valuer.calls)
	assert.Equal(t, "u1", records[0].LotURL)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Fetcher: mapFetcher{}, Parser: lotparser.New(nil, nil)}
	records, err := r.Run(ctx, []string{"u1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}
