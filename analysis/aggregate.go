package analysis

// Aggregate computes the run-level summary scores as plain means over the
// timeline. An empty timeline yields the neutral fallback rather than zeros
// so a silent video still produces a well-formed result.
func Aggregate(points []TimelinePoint) (SentimentScore, EmotionScore) {
	if len(points) == 0 {
		return SentimentScore{Positive: 0.5, Negative: 0.5}, NeutralEmotion()
	}

	var sent SentimentScore
	emo := ZeroEmotion()
	for _, pt := range points {
		sent.Positive += pt.Sentiment.Positive
		sent.Negative += pt.Sentiment.Negative
		for _, c := range Categories {
			emo[c] += pt.Emotion[c]
		}
	}
	n := float64(len(points))
	sent.Positive /= n
	sent.Negative /= n
	for _, c := range Categories {
		emo[c] /= n
	}
	return sent, emo
}
