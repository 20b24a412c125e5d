package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"basegraph.app/rollcall/internal/http/dto"
	"basegraph.app/rollcall/internal/store"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 200
)

// CommandRunHandler exposes the command run log to operators.
type CommandRunHandler struct {
	runs store.CommandRunStore
}

func NewCommandRunHandler(runs store.CommandRunStore) *CommandRunHandler {
	return &CommandRunHandler{runs: runs}
}

func (h *CommandRunHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get command run", "error", err, "run_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCommandRunResponse(run))
}

// ListByGuild returns the newest runs of a guild. ?limit defaults to 50 and
// is capped at 200.
func (h *CommandRunHandler) ListByGuild(c *gin.Context) {
	ctx := c.Request.Context()
	guildID := c.Param("guild_id")

	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.runs.ListByGuild(ctx, guildID, int32(limit))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list command runs", "error", err, "guild_id", guildID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	resp := dto.ListCommandRunsResponse{
		Runs: make([]dto.CommandRunResponse, len(runs)),
	}
	for i := range runs {
		resp.Runs[i] = dto.ToCommandRunResponse(&runs[i])
	}

	c.JSON(http.StatusOK, resp)
}
