package admin

import (
	"strconv"
	"strings"

	"github.com/karlion-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats 获取后台订单统计
func (h *Handler) GetDashboardStats(c *gin.Context) {
	forceRefresh := false
	if raw := strings.TrimSpace(c.Query("force_refresh")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		forceRefresh = parsed
	}

	stats, err := h.DashboardService.GetOrderStats(c.Request.Context(), forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_fetch_failed", err)
		return
	}

	response.Success(c, stats)
}
