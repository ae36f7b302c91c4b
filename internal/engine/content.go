package engine

// Fixed user-visible response content. These strings are product copy and
// must not be reworded without a content review.
const (
	// FallbackAnswer is returned whenever no candidate clears the acceptance
	// threshold, and whenever the pipeline fails unexpectedly.
	FallbackAnswer = "عذراً، لم أتمكن من العثور على إجابة لسؤالك. يمكنك تصفح الأسئلة الشائعة أو التواصل مع فريق الدعم وسنسعد بمساعدتك."

	// FallbackCategory tags fallback turns in the message log.
	FallbackCategory = "unanswered"
)
