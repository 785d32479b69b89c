package export

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"guitarlots/internal/model"
)

// Header is the fixed column order of the spreadsheet export.
var Header = []string{
	"Lot URL",
	"Type",
	"Title",
	"Brand",
	"Model",
	"Year",
	"Made In",
	"Weight (kg)",
	"Overall Condition",
	"House Estimated Price (low)",
	"House Estimated Price (high)",
	"LLM Estimated Price (low)",
	"LLM Estimated Price (high)",
	"LLM Valuation Rationale",
	"LLM vs House Difference",
	"Body",
	"Neck",
	"Fretboard",
	"Frets",
	"Electrics",
	"Hardware",
	"Case",
	"Notes",
	"Full Description",
}

const notesSep = "; "

// Rows returns the header followed by one row per record. Numbers stay
// numeric so the sheet can sort and sum them; missing values are "".
func Rows(records []model.Record) [][]any {
	rows := make([][]any, 0, len(records)+1)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	rows = append(rows, header)
	for _, r := range records {
		rows = append(rows, Row(r))
	}
	return rows
}

// Row is one record in Header order.
func Row(r model.Record) []any {
	var diff any = ""
	if d, ok := r.Difference(); ok {
		diff = d
	}
	var weight any = ""
	if r.Weight != nil {
		weight = *r.Weight
	}

	return []any{
		r.LotURL,
		titleCase(r.Type),
		r.Title,
		r.Brand,
		r.Model,
		r.Year,
		r.MadeIn,
		weight,
		r.OverallCondition,
		optInt(r.EstimateLow),
		optInt(r.EstimateHigh),
		optInt(r.ValueEstimateLow),
		optInt(r.ValueEstimateHigh),
		r.Rationale,
		diff,
		r.Body,
		r.Neck,
		r.Fretboard,
		r.Frets,
		r.Electrics,
		r.Hardware,
		r.Case,
		strings.Join(r.Notes, notesSep),
		r.FullDescription,
	}
}

func optInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

// titleCase upper-cases the first letter of each word ("hollow body
// electric" -> "Hollow Body Electric").
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
