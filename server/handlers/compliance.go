package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"compliance/database"
	"compliance/lightrag"
	"compliance/normalization"
	"compliance/screening"
	apperrors "compliance/server/errors"
	"compliance/server/middleware"
)

// Screener конвейер проверки сделок
type Screener interface {
	Check(ctx context.Context, req screening.Request) (*screening.Result, error)
	Preview(data any) screening.Preview
	Variants(name string, kind normalization.EntityKind) []string
}

// ResultStore чтение журнала проверок
type ResultStore interface {
	GetResult(ctx context.Context, requestID string) (*database.ScreeningRecord, error)
	ListRecent(ctx context.Context, limit int) ([]database.ScreeningRecord, error)
	Stats(ctx context.Context) (*database.JournalStats, error)
}

// CheckRequest тело запроса на проверку
type CheckRequest struct {
	Data        any    `json:"data"`
	RequestID   string `json:"request_id,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// VariantsRequest тело запроса вариантов названия
type VariantsRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// VariantsResponse варианты названия
type VariantsResponse struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Variants []string `json:"variants"`
}

// ResultsResponse последние записи журнала со сводкой
type ResultsResponse struct {
	Results []database.ScreeningRecord `json:"results"`
	Stats   *database.JournalStats     `json:"stats"`
}

// ComplianceHandler обработчики /compliance
type ComplianceHandler struct {
	svc    Screener
	store  ResultStore
	logger *slog.Logger
}

// NewComplianceHandler создает обработчик; store может быть nil, если журнал отключен
func NewComplianceHandler(svc Screener, store ResultStore, logger *slog.Logger) *ComplianceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComplianceHandler{svc: svc, store: store, logger: logger}
}

// RegisterRoutes регистрирует маршруты в группе
func (h *ComplianceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/check", h.HandleCheck)
	rg.POST("/preview", h.HandlePreview)
	rg.POST("/variants", h.HandleVariants)
	rg.GET("/results", h.HandleListResults)
	rg.GET("/results/:request_id", h.HandleGetResult)
}

// HandleCheck проверяет сделку
// @Summary Проверить сделку
// @Description Проверяет стороны, банки и товар сделки по санкционным спискам. Решение flag выставляется, если ответ базы знаний не удалось разобрать.
// @Tags compliance
// @Accept json
// @Produce json
// @Param request body CheckRequest true "Данные сделки"
// @Success 200 {object} screening.Result "Решение"
// @Failure 400 {object} middleware.ErrorResponse "Некорректный JSON"
// @Failure 502 {object} middleware.ErrorResponse "База знаний недоступна"
// @Router /compliance/check [post]
func (h *ComplianceHandler) HandleCheck(c *gin.Context) {
	var req CheckRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid JSON body", err))
		return
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = middleware.GetRequestIDFromGin(c)
	}

	result, err := h.svc.Check(c.Request.Context(), screening.Request{
		Data:        req.Data,
		RequestID:   requestID,
		CallbackURL: strings.TrimSpace(req.CallbackURL),
	})
	if err != nil {
		if errors.Is(err, lightrag.ErrUnavailable) {
			_ = c.Error(apperrors.NewBadGatewayError("knowledge base unavailable", err).WithContext("check " + requestID))
			return
		}
		_ = c.Error(apperrors.NewInternalError("screening failed", err).WithContext("check " + requestID))
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandlePreview возвращает нормализованные данные и текст запроса без обращения к базе знаний
// @Summary Предпросмотр запроса
// @Tags compliance
// @Accept json
// @Produce json
// @Param request body CheckRequest true "Данные сделки"
// @Success 200 {object} screening.Preview
// @Failure 400 {object} middleware.ErrorResponse
// @Router /compliance/preview [post]
func (h *ComplianceHandler) HandlePreview(c *gin.Context) {
	var req CheckRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid JSON body", err))
		return
	}
	c.JSON(http.StatusOK, h.svc.Preview(req.Data))
}

// HandleVariants возвращает варианты написания названия
// @Summary Варианты названия
// @Tags compliance
// @Accept json
// @Produce json
// @Param request body VariantsRequest true "Название и тип (entity или bank)"
// @Success 200 {object} VariantsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /compliance/variants [post]
func (h *ComplianceHandler) HandleVariants(c *gin.Context) {
	var req VariantsRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid JSON body", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		_ = c.Error(apperrors.NewValidationError("name is required", nil))
		return
	}

	kind := normalization.EntityKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	switch kind {
	case "":
		kind = normalization.KindEntity
	case normalization.KindEntity, normalization.KindBank:
	default:
		_ = c.Error(apperrors.NewValidationError("kind must be entity or bank", nil).WithContext("kind=" + req.Kind))
		return
	}

	c.JSON(http.StatusOK, VariantsResponse{
		Name:     req.Name,
		Kind:     string(kind),
		Variants: h.svc.Variants(req.Name, kind),
	})
}

// HandleGetResult возвращает запись журнала
// @Summary Результат проверки
// @Tags compliance
// @Produce json
// @Param request_id path string true "Идентификатор запроса"
// @Success 200 {object} database.ScreeningRecord
// @Failure 404 {object} middleware.ErrorResponse "Запись не найдена"
// @Failure 503 {object} middleware.ErrorResponse "Журнал отключен"
// @Router /compliance/results/{request_id} [get]
func (h *ComplianceHandler) HandleGetResult(c *gin.Context) {
	if h.store == nil {
		_ = c.Error(apperrors.NewServiceUnavailableError("journal is disabled", nil))
		return
	}

	id := c.Param("request_id")
	rec, err := h.store.GetResult(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		_ = c.Error(apperrors.NewNotFoundError("result not found", err).WithContext("result " + id))
		return
	}
	if err != nil {
		_ = c.Error(apperrors.NewInternalError("failed to load result", err).WithContext("result " + id))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleListResults возвращает последние записи журнала
// @Summary Последние проверки
// @Tags compliance
// @Produce json
// @Param limit query int false "Количество записей" default(100)
// @Success 200 {object} ResultsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Журнал отключен"
// @Router /compliance/results [get]
func (h *ComplianceHandler) HandleListResults(c *gin.Context) {
	if h.store == nil {
		_ = c.Error(apperrors.NewServiceUnavailableError("journal is disabled", nil))
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			_ = c.Error(apperrors.NewValidationError("limit must be a positive integer", err).WithContext("limit=" + raw))
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	records, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		_ = c.Error(apperrors.NewInternalError("failed to list results", err))
		return
	}
	stats, err := h.store.Stats(ctx)
	if err != nil {
		_ = c.Error(apperrors.NewInternalError("failed to load stats", err))
		return
	}

	c.JSON(http.StatusOK, ResultsResponse{Results: records, Stats: stats})
}

// HandleHealth проверка живости
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// decodeJSON читает тело с UseNumber, чтобы суммы не теряли точность
func decodeJSON(c *gin.Context, dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}
