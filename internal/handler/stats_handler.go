package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/service"
	"github.com/sevasetu/backend/pkg/cache"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
)

const statsCacheKey = cache.PrefixStats + "dashboard"

// StatsHandler serves the staff dashboard counters
type StatsHandler struct {
	members   service.MemberService
	donations service.DonationService
	cache     cache.Service
	log       zerolog.Logger
}

// NewStatsHandler creates a new StatsHandler. The cache is optional;
// without redis the stats are computed on every request.
func NewStatsHandler(members service.MemberService, donations service.DonationService, cacheSvc cache.Service) *StatsHandler {
	return &StatsHandler{
		members:   members,
		donations: donations,
		cache:     cacheSvc,
		log:       pkglogger.WithComponent("stats-handler"),
	}
}

// GetStats godoc
// @Summary      Dashboard statistics
// @Description  Member counts by status, donation counts and the approved
// @Description  donation total. Cached for one minute.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached map[string]interface{}
		if err := h.cache.Get(ctx, statsCacheKey, &cached); err == nil {
			common.SuccessResponse(c, cached, nil)
			return
		}
	}

	memberCounts, err := h.members.CountByStatus()
	if err != nil {
		common.MapError(c, err)
		return
	}
	donationStats, err := h.donations.Stats()
	if err != nil {
		common.MapError(c, err)
		return
	}

	stats := map[string]interface{}{
		"members":   memberCounts,
		"donations": donationStats,
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, statsCacheKey, stats, cache.TTLStats); err != nil {
			h.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}

	common.SuccessResponse(c, stats, nil)
}
