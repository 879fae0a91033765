package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jskelly/legisync/internal/domain"
	"github.com/jskelly/legisync/internal/logger"
	"github.com/jskelly/legisync/internal/repository"
	"github.com/jskelly/legisync/internal/service"
)

// ImportHandler handles import trigger and status endpoints.
type ImportHandler struct {
	importService  *service.ImportService
	legislatorRepo *repository.LegislatorRepository
	lockRepo       *repository.LockRepository
	logger         *logger.Logger

	// Defaults applied when the trigger request omits the range
	defaultStartCongress int
	defaultEndCongress   int
}

// NewImportHandler creates a new import handler.
// Parameters:
//   - importService: import orchestrator.
//   - legislatorRepo: legislator store, for status reporting.
//   - lockRepo: lock store, for status reporting.
//   - log: logger instance.
//   - defaultStart: default startCongress when absent from the request.
//   - defaultEnd: default endCongress when absent from the request.
//
// Returns:
//   - *ImportHandler: initialized handler.
func NewImportHandler(
	importService *service.ImportService,
	legislatorRepo *repository.LegislatorRepository,
	lockRepo *repository.LockRepository,
	log *logger.Logger,
	defaultStart, defaultEnd int,
) *ImportHandler {
	return &ImportHandler{
		importService:        importService,
		legislatorRepo:       legislatorRepo,
		lockRepo:             lockRepo,
		logger:               log,
		defaultStartCongress: defaultStart,
		defaultEndCongress:   defaultEnd,
	}
}

// StatusResponse reports whether an import for the default range is running.
type StatusResponse struct {
	Locked      bool   `json:"locked"`
	LockKey     string `json:"lock_key"`
	Legislators int64  `json:"legislators"`
}

// ImportLegislators triggers one synchronous import run across the requested
// congress range. Handled outcomes, including "locked" and a run that ended
// in "error", return HTTP 200 with the result body; only an unhandled panic
// escapes to the recovery middleware's 500.
func (h *ImportHandler) ImportLegislators(c *gin.Context) {
	startCongress, err := h.queryInt(c, "startCongress", h.defaultStartCongress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "startCongress must be an integer",
		})
		return
	}

	endCongress, err := h.queryInt(c, "endCongress", h.defaultEndCongress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "endCongress must be an integer",
		})
		return
	}

	// Sessions are enumerated descending; a reverse range is undefined
	if startCongress < endCongress {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "startCongress must be greater than or equal to endCongress",
		})
		return
	}

	result := h.importService.Run(c.Request.Context(), startCongress, endCongress)
	c.JSON(http.StatusOK, result)
}

// Status reports whether the default-range import lock is currently held,
// plus the stored legislator count. Read-only.
func (h *ImportHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	lockKey := service.LockKey(h.defaultStartCongress, h.defaultEndCongress)

	held, err := h.lockRepo.IsHeld(ctx, lockKey)
	if err != nil {
		logger.CtxError(ctx, "Failed to check lock status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  string(domain.ImportStatusError),
			"message": "failed to check lock status",
		})
		return
	}

	count, err := h.legislatorRepo.Count(ctx)
	if err != nil {
		logger.CtxError(ctx, "Failed to count legislators: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  string(domain.ImportStatusError),
			"message": "failed to count legislators",
		})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Locked:      held,
		LockKey:     lockKey,
		Legislators: count,
	})
}

func (h *ImportHandler) queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
