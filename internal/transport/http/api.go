package http

import (
	"reflect"
	"strings"

	"quiz-service/internal/app"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// API exposes the quiz use cases as JSON endpoints.
type API struct {
	service  *app.QuizService
	logger   *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
}

func NewAPI(service *app.QuizService, logger *zap.Logger, metrics *Metrics) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &API{
		service:  service,
		logger:   logger,
		metrics:  metrics,
		validate: validate,
	}
}
