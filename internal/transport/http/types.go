package http

import "quiz-service/internal/domain"

// completedAtLayout renders leaderboard timestamps as YYYY-MM-DD HH:MM.
const completedAtLayout = "2006-01-02 15:04"

type questionResponse struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

type checkAnswerRequest struct {
	QuestionID *int64 `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

type checkAnswerResponse struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type saveScoreRequest struct {
	Username *string `json:"username"`
	Score    *int    `json:"score" validate:"omitempty,gte=0"`
	Total    *int    `json:"total" validate:"omitempty,gte=0"`
}

func (r saveScoreRequest) toInput() domain.ScoreInput {
	in := domain.ScoreInput{}
	if r.Username != nil {
		in.Username = *r.Username
	}
	if r.Score != nil {
		in.Score = *r.Score
	}
	if r.Total != nil {
		in.TotalQuestions = *r.Total
	}
	return in
}

type saveScoreResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type leaderboardEntryResponse struct {
	Username    string `json:"username"`
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	CompletedAt string `json:"completed_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// questionView omits the correct answer so clients cannot read it ahead of checking.
func questionView(q domain.Question) questionResponse {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return questionResponse{
		ID:       q.ID,
		Question: q.Text,
		Options:  options,
		Category: q.Category,
	}
}

func leaderboardView(scores []domain.Score) []leaderboardEntryResponse {
	entries := make([]leaderboardEntryResponse, 0, len(scores))
	for _, s := range scores {
		entries = append(entries, leaderboardEntryResponse{
			Username:    s.Username,
			Score:       s.Score,
			Total:       s.TotalQuestions,
			CompletedAt: s.CompletedAt.UTC().Format(completedAtLayout),
		})
	}
	return entries
}
