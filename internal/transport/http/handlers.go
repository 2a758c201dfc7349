package http

import (
	"net/http"

	"go.uber.org/zap"
)

func (a *API) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := a.service.ListQuestions(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	response := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		response = append(response, questionView(q))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleRandomQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := a.service.RandomQuestion(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionView(question))
}

func (a *API) HandleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	var request checkAnswerRequest
	if !a.decodeJSON(w, r, &request) {
		return
	}

	result, err := a.service.CheckAnswer(r.Context(), *request.QuestionID, request.Answer)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.metrics.observeAnswer(result.Correct)

	writeJSON(w, http.StatusOK, checkAnswerResponse{
		Correct:       result.Correct,
		CorrectAnswer: result.CorrectAnswer,
		Explanation:   result.Explanation,
	})
}

func (a *API) HandleSaveScore(w http.ResponseWriter, r *http.Request) {
	var request saveScoreRequest
	if !a.decodeJSON(w, r, &request) {
		return
	}

	score, err := a.service.SaveScore(r.Context(), request.toInput())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.logger.Info("score saved",
		zap.Int64("id", score.ID),
		zap.String("username", score.Username),
		zap.Int("score", score.Score),
		zap.Int("total", score.TotalQuestions),
	)

	writeJSON(w, http.StatusOK, saveScoreResponse{
		Message: "Score saved successfully",
		ID:      score.ID,
	})
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := a.service.Leaderboard(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardView(scores))
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.service.Categories(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}
