package model

import "strings"

// LotRaw is the text scraped from a lot detail page.
type LotRaw struct {
	Description string
	Estimate    string
}

// Known part fields, in export order. Keys are the normalised (lower-case)
// labels used in lot descriptions, e.g. "Body: spruce".
const (
	PartBody             = "body"
	PartNeck             = "neck"
	PartFretboard        = "fretboard"
	PartFrets            = "frets"
	PartElectrics        = "electrics"
	PartHardware         = "hardware"
	PartCase             = "case"
	PartWeight           = "weight"
	PartOverallCondition = "overall condition"
)

var PartKeys = []string{
	PartBody, PartNeck, PartFretboard, PartFrets, PartElectrics,
	PartHardware, PartCase, PartWeight, PartOverallCondition,
}

// IsPartKey reports whether key is one of PartKeys.
func IsPartKey(key string) bool {
	for _, k := range PartKeys {
		if k == key {
			return true
		}
	}
	return false
}

// LotParsed is the structured form of a lot description. Optional fields are
// left at their zero value (and omitted from JSON) when the description does
// not carry them. Notes is never nil once produced by the parser.
type LotParsed struct {
	EstimateLow     *int     `json:"estimate_low,omitempty"`
	EstimateHigh    *int     `json:"estimate_high,omitempty"`
	FullDescription string   `json:"full_description"`
	Notes           []string `json:"notes"`

	Year   string `json:"year,omitempty"`
	Title  string `json:"title,omitempty"`
	MadeIn string `json:"made_in,omitempty"`

	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Type  string `json:"type,omitempty"`

	Body             string   `json:"body,omitempty"`
	Neck             string   `json:"neck,omitempty"`
	Fretboard        string   `json:"fretboard,omitempty"`
	Frets            string   `json:"frets,omitempty"`
	Electrics        string   `json:"electrics,omitempty"`
	Hardware         string   `json:"hardware,omitempty"`
	Case             string   `json:"case,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	OverallCondition string   `json:"overall condition,omitempty"`
}

// SetPart stores value under a string part key. Weight is numeric and has
// to go through SetWeight; SetPart returns false for it and for unknown keys.
func (p *LotParsed) SetPart(key, value string) bool {
	field := p.partField(key)
	if field == nil {
		return false
	}
	*field = value
	return true
}

// Part returns the string value of a part key, "" when absent or unknown.
func (p *LotParsed) Part(key string) string {
	if field := p.partField(key); field != nil {
		return *field
	}
	return ""
}

// SetWeight stores the weight in kilograms.
func (p *LotParsed) SetWeight(kg float64) {
	p.Weight = &kg
}

func (p *LotParsed) partField(key string) *string {
	switch key {
	case PartBody:
		return &p.Body
	case PartNeck:
		return &p.Neck
	case PartFretboard:
		return &p.Fretboard
	case PartFrets:
		return &p.Frets
	case PartElectrics:
		return &p.Electrics
	case PartHardware:
		return &p.Hardware
	case PartCase:
		return &p.Case
	case PartOverallCondition:
		return &p.OverallCondition
	}
	return nil
}

// Merge applies a title classification. Non-empty classifier values win over
// whatever the record already holds.
func (p *LotParsed) Merge(c Classification) {
	if c.Brand != "" {
		p.Brand = c.Brand
	}
	if c.Model != "" {
		p.Model = c.Model
	}
	if c.Type != "" {
		p.Type = c.Type
	}
}

// Classification is the brand/model/type breakdown of a lot title.
type Classification struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Type  string `json:"type"`
}

// Guitar types a classification may carry.
const (
	TypeElectric           = "electric"
	TypeAcoustic           = "acoustic"
	TypeHollowBodyElectric = "hollow body electric"
	TypeBass               = "bass"
	TypeOther              = "other"
)

// NormalizeType maps free text onto the fixed type set, "other" otherwise.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case TypeElectric, TypeAcoustic, TypeHollowBodyElectric, TypeBass:
		return t
	}
	return TypeOther
}

// Valuation is an independent (LLM) price range for a lot, in pounds.
type Valuation struct {
	ValueEstimateLow  *int   `json:"value_estimate_low,omitempty"`
	ValueEstimateHigh *int   `json:"value_estimate_high,omitempty"`
	Rationale         string `json:"rationale,omitempty"`
}

// Record is one exported lot: the parsed description merged with its
// valuation. Both embedded structs flatten into a single JSON object.
type Record struct {
	LotURL string `json:"lot_url"`
	LotParsed
	Valuation
}

// Difference is the LLM mean minus the house mean. ok is false when any of
// the four bounds is missing.
func (r Record) Difference() (diff float64, ok bool) {
	if r.EstimateLow == nil || r.EstimateHigh == nil ||
		r.ValueEstimateLow == nil || r.ValueEstimateHigh == nil {
		return 0, false
	}
	house := float64(*r.EstimateLow+*r.EstimateHigh) / 2
	llm := float64(*r.ValueEstimateLow+*r.ValueEstimateHigh) / 2
	return llm - house, true
}
