package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/wordgauge/internal/model"
)

// Coverage thresholds for the reading levels
const (
	IndependentCoverage   = 0.98
	InstructionalCoverage = 0.95
)

// Scorer calculates the comprehension index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate derives the comprehension score from a document's aggregates.
// unknowns is the frequency-ordered list of unknown words to report, usually
// already cut to the configured top N.
func (s *Scorer) Calculate(size, known, maybe int, unknowns []model.TokenStats) model.Score {
	if size <= 0 {
		return model.Score{
			Level: model.LevelEmpty,
			Signals: []model.Signal{{
				Type:        model.SignalEmptyDocument,
				Severity:    model.SeverityWarning,
				Description: "No words to classify",
				Data:        map[string]interface{}{"size": 0},
			}},
		}
	}

	var signals []model.Signal

	// 1. Known coverage, drives index and level
	coverage, coverageSignal := s.calculateCoverage(size, known)
	signals = append(signals, coverageSignal)

	// 2. Coverage if every maybe word turns out to be known
	assisted, assistedSignal := s.calculateAssisted(size, known, maybe)
	signals = append(signals, assistedSignal)

	// 3. Which unknown words would help most
	if len(unknowns) > 0 {
		signals = append(signals, s.frequentUnknowns(size, unknowns))
	}

	return model.Score{
		Index:    int(math.Round(coverage * 100)),
		Coverage: coverage,
		Assisted: assisted,
		Level:    s.determineLevel(coverage),
		Signals:  signals,
	}
}

// calculateCoverage calculates the share of Known word tokens
func (s *Scorer) calculateCoverage(size, known int) (float64, model.Signal) {
	ratio := float64(known) / float64(size)

	return ratio, model.Signal{
		Type:        model.SignalCoverage,
		Severity:    severityFor(ratio),
		Description: fmt.Sprintf("Known coverage: %d/%d (%.1f%%)", known, size, ratio*100),
		Data: map[string]interface{}{
			"size":    size,
			"known":   known,
			"ratio":   ratio,
			"formula": "known / size",
		},
	}
}

// calculateAssisted calculates the share of Known or Maybe word tokens
func (s *Scorer) calculateAssisted(size, known, maybe int) (float64, model.Signal) {
	ratio := float64(known+maybe) / float64(size)

	return ratio, model.Signal{
		Type:        model.SignalAssistedCoverage,
		Severity:    severityFor(ratio),
		Description: fmt.Sprintf("Coverage with likely forms: %d/%d (%.1f%%)", known+maybe, size, ratio*100),
		Data: map[string]interface{}{
			"size":    size,
			"known":   known,
			"maybe":   maybe,
			"ratio":   ratio,
			"formula": "(known + maybe) / size",
		},
	}
}

// frequentUnknowns reports the listed unknown words and their share of the text
func (s *Scorer) frequentUnknowns(size int, unknowns []model.TokenStats) model.Signal {
	words := make([]string, len(unknowns))
	occurrences := 0
	for i, u := range unknowns {
		words[i] = u.Word
		occurrences += u.Count
	}
	share := float64(occurrences) / float64(size)

	// Learning these words alone would move the reader up a band
	severity := model.SeverityInfo
	if share >= 0.05 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalFrequentUnknowns,
		Severity:    severity,
		Description: fmt.Sprintf("%d frequent unknown words cover %.1f%% of the text", len(words), share*100),
		Data: map[string]interface{}{
			"words":       words,
			"occurrences": occurrences,
			"share":       share,
		},
	}
}

// determineLevel buckets coverage into a reading level
func (s *Scorer) determineLevel(coverage float64) model.ReadingLevel {
	if coverage >= IndependentCoverage {
		return model.LevelIndependent
	} else if coverage >= InstructionalCoverage {
		return model.LevelInstructional
	}
	return model.LevelFrustration
}

func severityFor(ratio float64) model.SignalSeverity {
	switch {
	case ratio >= IndependentCoverage:
		return model.SeverityInfo
	case ratio >= InstructionalCoverage:
		return model.SeverityWarning
	default:
		return model.SeverityCritical
	}
}
