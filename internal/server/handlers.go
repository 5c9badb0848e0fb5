package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/report"
)

// Error messages returned in the "erro" field.
const (
	msgMissingText  = "Requisição inválida. O campo 'texto' é obrigatório."
	msgInvalidBody  = "Requisição inválida. O corpo deve ser um JSON válido."
	msgBodyTooLarge = "Requisição inválida. O texto excede o tamanho máximo permitido."
	msgInternal     = "Erro interno durante a análise: "
)

// AnalyzeRequest is the body of POST /analisar.
type AnalyzeRequest struct {
	Texto   string `json:"texto" validate:"notblank"`
	Formato string `json:"formato,omitempty" validate:"omitempty,oneof=texto html"`
}

// AnalyzeResponse is the success body of POST /analisar.
type AnalyzeResponse struct {
	Status     string         `json:"status"`
	ID         string         `json:"id"`
	Resultados []report.Entry `json:"resultados"`
	Total      int            `json:"total_palavras_repetidas"`
	Degradado  bool           `json:"degradado,omitempty"`
}

// AnalyzeHandler serves text analysis requests.
type AnalyzeHandler struct {
	analyzer     Analyzer
	logger       *zap.Logger
	validate     *validator.Validate
	maxBodyBytes int64
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer Analyzer, logger *zap.Logger, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:     analyzer,
		logger:       logger,
		validate:     newValidator(),
		maxBodyBytes: maxBodyBytes,
	}
}

// Analyze handles POST /analisar
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, h.logger, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		respondError(w, h.logger, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, validationMessage(err))
		return
	}

	rep, err := h.analyzer.Report(r.Context(), synsys.Request{Text: req.Texto, Format: req.Formato})
	if err != nil {
		if errors.Is(err, internalerr.ErrInvalidInput) {
			respondError(w, h.logger, http.StatusBadRequest, "Requisição inválida. "+err.Error())
			return
		}
		h.logger.Error("Analysis failed",
			zap.Error(err),
			zap.String("requestID", middleware.GetReqID(r.Context())),
		)
		respondError(w, h.logger, http.StatusInternalServerError, msgInternal+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, AnalyzeResponse{
		Status:     "sucesso",
		ID:         rep.ID,
		Resultados: rep.Entries,
		Total:      rep.Total(),
		Degradado:  rep.Degraded,
	})
}

// Helper methods

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"erro": message})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidBody
	}
	for _, e := range verrs {
		if e.Field() == "Texto" {
			return msgMissingText
		}
	}
	e := verrs[0]
	if e.Tag() == "oneof" {
		return "Requisição inválida. O campo '" + strings.ToLower(e.Field()) + "' deve ser um de: " + e.Param() + "."
	}
	return "Requisição inválida. O campo '" + strings.ToLower(e.Field()) + "' é inválido."
}
