package eval

import "slices"

// Config controls how predicted sentence ends are matched to gold ones.
type Config struct {
	// Tolerance is how many non-space runes a predicted sentence end may sit
	// from a gold one and still count. 0 requires the exact offset.
	Tolerance int

	// PrecisionWeight and RecallWeight weight WeightedScore.
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig requires exact sentence ends and weights precision and
// recall equally.
func DefaultConfig() Config {
	return Config{
		Tolerance:       0,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics scores the sentences a tagger produced against a gold corpus.
// A true positive is a tagged sentence that ends where a gold sentence
// ends; a false positive ends anywhere else; a false negative is a gold
// sentence end the tagger missed.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64
}

// Evaluate matches the tagged sentence ends against the gold ones, both as
// offsets from Boundaries and GoldBoundaries. The offsets are walked in
// order and each gold end is matched at most once.
func Evaluate(tagged, gold []int, cfg Config) Metrics {
	tagged = slices.Sorted(slices.Values(tagged))
	gold = slices.Sorted(slices.Values(gold))

	tp := 0
	for i, j := 0, 0; i < len(tagged) && j < len(gold); {
		switch d := tagged[i] - gold[j]; {
		case d >= -cfg.Tolerance && d <= cfg.Tolerance:
			tp++
			i++
			j++
		case d < 0:
			i++
		default:
			j++
		}
	}

	return Score(tp, len(tagged)-tp, len(gold)-tp, cfg)
}

// Score derives precision, recall and F1 from counts. Run uses it to
// micro-average a corpus.
func Score(tp, fp, fn int, cfg Config) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	if w := cfg.PrecisionWeight + cfg.RecallWeight; w > 0 {
		m.WeightedScore = (cfg.PrecisionWeight*m.Precision + cfg.RecallWeight*m.Recall) / w
	}

	return m
}
