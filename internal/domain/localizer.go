package domain

import (
	"context"
	"math"

	m "genfix.dev/pkg/genfix/internal/model"
)

// Localizer scores how likely each source line is to hold the defect.
type Localizer interface {
	Score(ctx context.Context, c *Candidate) (m.Suspiciousness, error)
}

type spectrumFormula func(ef, nf, ep, totalFailed, totalPassed int) float64

type spectrumLocalizer struct {
	formula spectrumFormula
}

// NewLocalizer returns the localizer named by kind. Unknown names fall back
// to Ochiai.
func NewLocalizer(kind string) Localizer {
	if kind == m.LocalizerTarantula {
		return NewTarantulaLocalizer()
	}

	return NewOchiaiLocalizer()
}

// NewOchiaiLocalizer scores ef / sqrt((ef+nf) * (ef+ep)).
func NewOchiaiLocalizer() Localizer {
	return &spectrumLocalizer{formula: ochiai}
}

// NewTarantulaLocalizer scores (ef/F) / (ef/F + ep/P).
func NewTarantulaLocalizer() Localizer {
	return &spectrumLocalizer{formula: tarantula}
}

// Score evaluates c and scores every line executed by at least one failing
// test. A candidate that does not build yields an empty map.
func (l *spectrumLocalizer) Score(ctx context.Context, c *Candidate) (m.Suspiciousness, error) {
	scores := m.Suspiciousness{}

	status, err := c.Evaluate(ctx)
	if err != nil {
		return scores, err
	}

	if status != m.EvalSuccess {
		return scores, nil
	}

	spectrum := c.Spectrum()
	totalFailed := len(c.Failing())
	totalPassed := len(c.Passing())

	for line := 1; line <= len(c.Lines()); line++ {
		ef := spectrum.ExecutedFailing[line]
		if ef == 0 {
			continue
		}

		score := l.formula(ef, spectrum.NotExecutedFailing[line], spectrum.ExecutedPassing[line], totalFailed, totalPassed)
		if score > 0 && !math.IsNaN(score) {
			scores[line] = score
		}
	}

	return scores, nil
}

func ochiai(ef, nf, ep, _, _ int) float64 {
	denominator := math.Sqrt(float64((ef + nf) * (ef + ep)))
	if denominator == 0 {
		return 0
	}

	return float64(ef) / denominator
}

func tarantula(ef, _, ep, totalFailed, totalPassed int) float64 {
	if totalFailed == 0 {
		return 0
	}

	failedRatio := float64(ef) / float64(totalFailed)

	passedRatio := 0.0
	if totalPassed > 0 {
		passedRatio = float64(ep) / float64(totalPassed)
	}

	if failedRatio+passedRatio == 0 {
		return 0
	}

	return failedRatio / (failedRatio + passedRatio)
}
