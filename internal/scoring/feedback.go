package scoring

type bandFeedback struct {
	feedback     string
	strengths    []string
	improvements []string
}

var (
	excellentFeedback = bandFeedback{
		feedback: "Excellent answer: detailed, well structured and clearly grounded in experience.",
		strengths: []string{
			"Thorough and detailed explanation",
			"Clear structure that is easy to follow",
		},
		improvements: []string{
			"Quantify the impact of your work where possible",
		},
	}
	goodFeedback = bandFeedback{
		feedback: "Good answer that covers the main points; a concrete example would make it stronger.",
		strengths: []string{
			"Covers the key points of the question",
			"Reasonably clear explanation",
		},
		improvements: []string{
			"Add a specific example from a real project",
			"Mention the trade-offs you considered",
		},
	}
	adequateFeedback = bandFeedback{
		feedback: "Adequate but shallow: the answer touches the topic without enough depth.",
		strengths: []string{
			"Addresses the question directly",
		},
		improvements: []string{
			"Go deeper into the technical details",
			"Support your points with concrete examples",
		},
	}
	shortFeedback = bandFeedback{
		feedback: "The answer is too short to demonstrate your experience.",
		strengths: []string{
			"Attempted to answer the question",
		},
		improvements: []string{
			"Expand the answer with more detail",
			"Explain your reasoning step by step",
		},
	}
	insufficientFeedback = bandFeedback{
		feedback:  "Insufficient answer: there is not enough content to evaluate.",
		strengths: []string{},
		improvements: []string{
			"Write a complete answer that addresses the question",
			"Describe relevant experience, tools and outcomes",
		},
	}
)

func feedbackFor(score int) bandFeedback {
	switch {
	case score >= 8:
		return excellentFeedback
	case score >= 6:
		return goodFeedback
	case score >= 4:
		return adequateFeedback
	case score >= 2:
		return shortFeedback
	default:
		return insufficientFeedback
	}
}
