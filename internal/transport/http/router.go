package http

import (
	"net/http"

	"go.uber.org/zap"
)

// NewRouter mounts the JSON API, the leaderboard websocket, health and metrics endpoints.
func NewRouter(api *API, ws *WSHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/questions", api.HandleListQuestions)
	mux.HandleFunc("GET /api/question/random", api.HandleRandomQuestion)
	mux.HandleFunc("POST /api/check-answer", api.HandleCheckAnswer)
	mux.HandleFunc("POST /api/save-score", api.HandleSaveScore)
	mux.HandleFunc("GET /api/leaderboard", api.HandleLeaderboard)
	mux.HandleFunc("GET /api/categories", api.HandleCategories)
	if ws != nil {
		mux.HandleFunc("GET /ws/leaderboard", ws.ServeLeaderboard)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", api.metrics.Handler())

	return instrument(mux, api.metrics, api.logger.With(zap.String("component", "http")))
}
