package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"p2p_exchange_back/models"
)

func (h *Handler) GetPools(c *gin.Context) {
	pools, err := h.service.Treasury.GetPools()
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"pools": pools,
	})
}

// История снапшотов. Фильтры ?source_id=&currency=&limit= необязательны.
func (h *Handler) GetSnapshots(c *gin.Context) {
	var filter models.SnapshotFilter

	if raw := c.Query("source_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "invalid source_id")
			return
		}
		filter.SourceID = &id
	}
	filter.Currency = c.Query("currency")
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	snapshots, err := h.service.Treasury.GetSnapshots(filter)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"snapshots": snapshots,
	})
}
