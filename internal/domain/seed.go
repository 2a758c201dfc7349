package domain

// DefaultQuestions returns the built-in question set loaded into an empty store.
func DefaultQuestions() []QuestionInput {
	return []QuestionInput{
		{
			Text:          "What is the capital of France?",
			Options:       []string{"London", "Berlin", "Paris", "Madrid"},
			CorrectAnswer: "Paris",
			Category:      "Geography",
		},
		{
			Text:          "Which planet is known as the Red Planet?",
			Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
			CorrectAnswer: "Mars",
			Category:      "Science",
		},
		{
			Text:          "Who painted the Mona Lisa?",
			Options:       []string{"Van Gogh", "Picasso", "Da Vinci", "Rembrandt"},
			CorrectAnswer: "Da Vinci",
			Category:      "Art",
		},
		{
			Text:          "What is the largest ocean on Earth?",
			Options:       []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			CorrectAnswer: "Pacific",
			Category:      "Geography",
		},
		{
			Text:          "In which year did World War II end?",
			Options:       []string{"1944", "1945", "1946", "1947"},
			CorrectAnswer: "1945",
			Category:      "History",
		},
	}
}
