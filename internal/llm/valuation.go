package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"guitarlots/internal/model"
)

const (
	valuationTemperature = 0.25
	maxRationale         = 250
)

// Valuer asks the LLM for an independent UK market valuation of a lot.
type Valuer struct {
	LLM *Client
}

// valuationResponse tolerates numbers sent as floats or strings ("£1,200").
type valuationResponse struct {
	Low       json.RawMessage `json:"value_estimate_low"`
	High      json.RawMessage `json:"value_estimate_high"`
	Rationale string          `json:"rationale"`
}

func (v *Valuer) Value(ctx context.Context, description string) (model.Valuation, error) {
	var resp valuationResponse
	if err := v.LLM.CallJSON(ctx, "valuation", valuationSystem, valuationPrompt(description), valuationTemperature, &resp); err != nil {
		return model.Valuation{}, err
	}

	low, err := pounds(resp.Low)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("valuation: value_estimate_low: %w", err)
	}
	high, err := pounds(resp.High)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("valuation: value_estimate_high: %w", err)
	}

	return model.Valuation{
		ValueEstimateLow:  low,
		ValueEstimateHigh: high,
		Rationale:         strings.TrimSpace(resp.Rationale),
	}, nil
}

// pounds decodes a JSON number or numeric string into whole pounds. A missing
// or null value is nil.
func pounds(raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if serr := json.Unmarshal(raw, &s); serr != nil {
			return nil, fmt.Errorf("not a number: %s", raw)
		}
		s = strings.NewReplacer("£", "", ",", "", " ", "").Replace(s)
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("not a number: %q", s)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("out of range: %s", raw)
	}
	n := int(math.Round(f))
	return &n, nil
}
