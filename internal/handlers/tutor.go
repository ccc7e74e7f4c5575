package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"mathtutor-backend/internal/config"
	"mathtutor-backend/internal/metrics"
	"mathtutor-backend/internal/middleware"
	"mathtutor-backend/internal/models"
	"mathtutor-backend/internal/services"
)

const (
	msgEmptyHistory = "對話歷史不可為空"
	msgModelFailure = "無法從 AI 模型獲取回覆"
)

var errMissingAPIKey = errors.New("model API key is not configured")

// ModelClient is the hosted generative model the tutor talks to.
type ModelClient interface {
	GenerateReply(ctx context.Context, contents []models.Turn) (string, error)
}

type TutorHandler struct {
	cfg    *config.Config
	client ModelClient
	log    *logrus.Logger
}

func NewTutorHandler(cfg *config.Config, client ModelClient, log *logrus.Logger) *TutorHandler {
	return &TutorHandler{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

// ServeHTTP answers one student message. It is mounted for every method so
// that non-POST requests get the plain-text 405 from here.
func (h *TutorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		metrics.ObserveOutcome(metrics.OutcomeMethodRejected)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	entry := h.log.WithField("request_id", middleware.GetRequestID(r.Context()))

	if h.cfg == nil || h.cfg.APIKey() == "" || h.client == nil {
		metrics.ObserveOutcome(metrics.OutcomeConfigMissing)
		entry.WithError(errMissingAPIKey).Error("tutor request rejected")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: msgModelFailure})
		return
	}

	var req models.TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.History) == 0 {
		metrics.ObserveOutcome(metrics.OutcomePayloadInvalid)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgEmptyHistory})
		return
	}

	contents := services.BuildContents(req.History)

	start := time.Now()
	answer, err := h.client.GenerateReply(r.Context(), contents)
	metrics.ObserveModelCall(time.Since(start).Seconds(), err)
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeModelCallFailed)
		entry.WithError(err).WithField("turns", len(req.History)).Error("model call failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: msgModelFailure})
		return
	}

	metrics.ObserveOutcome(metrics.OutcomeCompleted)
	writeJSON(w, http.StatusOK, models.TutorResponse{Answer: answer})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
