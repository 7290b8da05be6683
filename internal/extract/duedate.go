// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"sort"
	"time"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/dateparse"
)

// DueDateExtractor scores every date in the document against due-date
// evidence: keywords, spatial adjacency, page position and plausibility of
// the day offset from today. Overdue invoices are a primary use case, so
// the recent past earns a mild bonus, not a penalty.
type DueDateExtractor struct {
	weights DueDateWeights
	parser  *dateparse.Parser
}

// NewDueDateExtractor builds the extractor around a date parser carrying
// the document's language hint.
func NewDueDateExtractor(w DueDateWeights, parser *dateparse.Parser) *DueDateExtractor {
	return &DueDateExtractor{weights: w, parser: parser}
}

type scoredDate struct {
	candidate Candidate
	date      time.Time
}

// Extract returns ranked due-date candidates; values are ISO-formatted
// resolved dates.
func (e *DueDateExtractor) Extract(doc *Document) FieldExtraction {
	dueAnchor, hasDueAnchor := doc.Anchors.Best(anchor.TypeDueDate)

	var scored []scoredDate
	for i, line := range doc.Lines {
		for _, parsed := range e.parser.Parse(line.Text) {
			score := parsed.Confidence * 50 // parser certainty seeds the score

			if e.anchorAtLine(doc, anchor.TypeDueDate, i) {
				score += e.weights.KeywordSameLine
			} else if e.adjacentToDueKeyword(doc, i) {
				score += e.weights.KeywordAdjacent
			}
			if e.anchorAtLine(doc, anchor.TypeDate, i) {
				score += e.weights.IssueDatePenalty
			}

			if doc.HasGeometry {
				cy := line.Box.CenterY()
				if cy > 0.6 {
					score += e.weights.BottomPageBonus
				} else if cy < 0.3 {
					score += e.weights.TopPagePenalty
				}
			}

			score += e.offsetBonus(doc.Now(), parsed.Date)

			if hasDueAnchor && e.nearAnchor(doc, dueAnchor, i) {
				score += e.weights.AnchorProximity
			}

			confidence := score / e.weights.ScoreScale
			if confidence < e.weights.MinConfidence {
				confidence = e.weights.MinConfidence
			}
			if confidence > e.weights.MaxConfidence {
				confidence = e.weights.MaxConfidence
			}

			scored = append(scored, scoredDate{
				date: parsed.Date,
				candidate: Candidate{
					Value:         parsed.Date.Format("2006-01-02"),
					Confidence:    doc.scale(confidence),
					Box:           line.Box,
					Method:        MethodDirectScan,
					MatchedPhrase: parsed.Format,
					SourceLine:    line.Text,
					Score:         score,
					LineIndex:     i,
				},
			})
		}
	}

	// Dedupe by resolved date, keeping the maximum score.
	best := make(map[time.Time]scoredDate)
	for _, s := range scored {
		if existing, seen := best[s.date]; !seen || s.candidate.Score > existing.candidate.Score {
			best[s.date] = s
		}
	}
	candidates := make([]Candidate, 0, len(best))
	for _, s := range best {
		candidates = append(candidates, s.candidate)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return FieldExtraction{Field: FieldDueDate, Candidates: candidates}
}

func (e *DueDateExtractor) anchorAtLine(doc *Document, t anchor.Type, lineIdx int) bool {
	for _, a := range doc.Anchors.OfType(t) {
		if a.LineIndex == lineIdx {
			return true
		}
	}
	return false
}

// adjacentToDueKeyword reports whether the line sits directly below (in a
// small Y band) or to the right of a line carrying a due-date keyword.
func (e *DueDateExtractor) adjacentToDueKeyword(doc *Document, lineIdx int) bool {
	line := doc.Lines[lineIdx]
	for _, a := range doc.Anchors.OfType(anchor.TypeDueDate) {
		if a.LineIndex == lineIdx {
			continue
		}
		if !doc.HasGeometry {
			if lineIdx == a.LineIndex+1 {
				return true
			}
			continue
		}
		dy := line.Box.Y - a.Line.Box.MaxY()
		if dy >= 0 && dy <= e.weights.AdjacentMaxDY && doc.Layout.SameColumn(a.Line, line) {
			return true
		}
		if doc.Layout.SameRow(a.Line, line) && line.Box.X >= a.Line.Box.MaxX() {
			return true
		}
	}
	return false
}

func (e *DueDateExtractor) nearAnchor(doc *Document, a anchor.Detected, lineIdx int) bool {
	if a.LineIndex == lineIdx {
		return true
	}
	if !doc.HasGeometry {
		return lineIdx == a.LineIndex+1
	}
	line := doc.Lines[lineIdx]
	dy := line.Box.Y - a.Line.Box.MaxY()
	return (dy >= 0 && dy <= e.weights.AdjacentMaxDY) ||
		(doc.Layout.SameRow(a.Line, line) && line.Box.X >= a.Line.Box.MaxX())
}

// offsetBonus is the day-offset curve: payment terms land 0–90 days out,
// overdue invoices up to two months back are normal, anything else is
// suspicious.
func (e *DueDateExtractor) offsetBonus(now, date time.Time) float64 {
	days := int(date.Sub(now).Hours() / 24)
	w := e.weights
	switch {
	case days >= 0 && days <= w.NearFutureDays:
		return w.NearFutureBonus
	case days > w.NearFutureDays && days <= w.FarFutureDays:
		return w.FarFutureBonus
	case days > w.FarFutureDays:
		return w.BeyondFuturePenalty
	case days >= -w.RecentPastDays:
		return w.RecentPastBonus
	default:
		return w.DistantPastPenalty
	}
}
