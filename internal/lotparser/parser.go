// Package lotparser turns the free-text description and estimate of an
// auction lot into a model.LotParsed.
//
// A description looks like
//
//	1974 Gibson Les Paul, made in USA; Body: mahogany; Weight: 4.2kg * shipped with case
//
// The part before the first asterisk is split on semicolons: the first
// segment is the summary (optional year, then the title), the rest are
// "key: value" fields. Everything after an asterisk is a note.
package lotparser

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"guitarlots/internal/model"
)

var (
	estimateRe = regexp.MustCompile(`[£$€](?P<low>\d+)-(?P<high>\d+)`)
	summaryRe  = regexp.MustCompile(`^(?P<year>\d{4})[\s\p{Zs}]+(?P<title>.+)$`)
	madeInRe   = regexp.MustCompile(`(?i)made in[\s\p{Zs}]+(?P<origin>[^,;]+)`)
	fieldRe    = regexp.MustCompile(`(?s)^(?P<key>[^:]*):(?P<value>.*)$`)
)

const (
	noteSep  = "*"
	fieldSep = ";"
)

// Classifier breaks a lot title into brand, model and type.
type Classifier interface {
	Classify(ctx context.Context, title string) (model.Classification, error)
}

// Parser holds the collaborators used while parsing. It keeps no per-call
// state and may be shared between goroutines.
type Parser struct {
	Classifier Classifier
	Logger     *zap.Logger
}

// New returns a Parser. c may be nil, in which case titles are not enriched.
func New(c Classifier, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{Classifier: c, Logger: log}
}

// Parse never fails: anything it cannot recognise is either left out or kept
// in Notes.
func (p *Parser) Parse(ctx context.Context, raw model.LotRaw) model.LotParsed {
	res := model.LotParsed{
		FullDescription: raw.Description,
		Notes:           []string{},
	}

	res.EstimateLow, res.EstimateHigh = parseEstimate(raw.Estimate)

	body, notes, _ := strings.Cut(raw.Description, noteSep)
	if notes != "" {
		for _, n := range strings.Split(notes, noteSep) {
			if n = strings.TrimSpace(n); n != "" {
				res.Notes = append(res.Notes, n)
			}
		}
	}

	segments := splitSegments(body)
	if len(segments) == 0 {
		return res
	}

	summary := segments[0]
	p.parseSummary(ctx, summary, &res)

	for _, seg := range segments[1:] {
		p.parseField(seg, &res)
	}
	return res
}

func parseEstimate(s string) (low, high *int) {
	m := estimateRe.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	l, err := strconv.Atoi(m[estimateRe.SubexpIndex("low")])
	if err != nil {
		return nil, nil
	}
	h, err := strconv.Atoi(m[estimateRe.SubexpIndex("high")])
	if err != nil {
		return nil, nil
	}
	return &l, &h
}

func splitSegments(body string) []string {
	var out []string
	for _, s := range strings.Split(body, fieldSep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *Parser) parseSummary(ctx context.Context, summary string, res *model.LotParsed) {
	if m := summaryRe.FindStringSubmatch(summary); m != nil {
		res.Year = m[summaryRe.SubexpIndex("year")]
		res.Title = m[summaryRe.SubexpIndex("title")]
	} else {
		res.Title = summary
	}

	if p.Classifier != nil {
		c, err := p.Classifier.Classify(ctx, res.Title)
		if err != nil {
			p.logger().Warn("title classification failed",
				zap.String("title", res.Title), zap.Error(err))
		} else {
			res.Merge(c)
		}
	}

	if m := madeInRe.FindStringSubmatch(summary); m != nil {
		res.MadeIn = strings.TrimSpace(m[madeInRe.SubexpIndex("origin")])
	}
}

// parseField handles one "key: value" segment. Segments that are not a known
// field are kept verbatim as notes.
func (p *Parser) parseField(seg string, res *model.LotParsed) {
	m := fieldRe.FindStringSubmatch(seg)
	if m == nil {
		res.Notes = append(res.Notes, seg)
		return
	}
	key := strings.ToLower(strings.TrimSpace(m[fieldRe.SubexpIndex("key")]))
	value := strings.TrimSpace(m[fieldRe.SubexpIndex("value")])

	if key == model.PartWeight {
		kg, err := parseWeight(value)
		if err != nil {
			p.logger().Debug("unparseable weight kept as note",
				zap.String("segment", seg), zap.Error(err))
			res.Notes = append(res.Notes, seg)
			return
		}
		res.SetWeight(kg)
		return
	}

	if !res.SetPart(key, value) {
		res.Notes = append(res.Notes, seg)
	}
}

// parseWeight accepts finite numbers only; NaN and Inf cannot be encoded as
// JSON.
func parseWeight(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, "kg", "")), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("weight %q is not finite", v)
	}
	return f, nil
}

func (p *Parser) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
