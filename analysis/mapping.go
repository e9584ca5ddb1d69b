package analysis

import "strings"

// The cloud API reports coarse per-utterance sentiment (label + confidence)
// while the local pipeline produces a category emotion vector. This table is
// the single place that converts one into the other; it is what keeps the two
// backends schema-compatible, so keep it data, not conditionals.
//
// Each weight is multiplied by the label's confidence c. When remainder is
// set, the neutral category additionally receives 1-c.
type emotionWeights struct {
	happy, sad, angry, neutral float64
	remainder                  bool
}

var sentimentTable = map[string]emotionWeights{
	"POSITIVE": {happy: 1, remainder: true},
	"NEGATIVE": {sad: 0.6, angry: 0.4, remainder: true},
	"NEUTRAL":  {neutral: 1},
}

// EmotionFromSentiment converts a cloud sentiment label and its confidence
// into the shared emotion schema. It is a pure function of its inputs.
// Unknown labels return a MappingError.
func EmotionFromSentiment(label string, confidence float64) (EmotionScore, error) {
	w, ok := sentimentTable[strings.ToUpper(label)]
	if !ok {
		return nil, &MappingError{Label: label}
	}
	e := ZeroEmotion()
	e["happy"] = w.happy * confidence
	e["sad"] = w.sad * confidence
	e["angry"] = w.angry * confidence
	e["neutral"] = w.neutral * confidence
	if w.remainder {
		e["neutral"] += 1 - confidence
	}
	return e, nil
}
