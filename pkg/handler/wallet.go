package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"p2p_exchange_back/models"
	"p2p_exchange_back/pkg/service"
)

// Регистрация нового кошелька. Тело: {address, blockchain, currency, label}
func (h *Handler) CreateWallet(c *gin.Context) {
	var input models.CreateWalletInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.Wallet.CreateWallet(input)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"id": id,
	})
}

func (h *Handler) GetWallets(c *gin.Context) {
	wallets, err := h.service.Wallet.GetWallets()
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"wallets": wallets,
	})
}

func (h *Handler) GetWallet(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}

	wallet, err := h.service.Wallet.GetWallet(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			newErrorResponse(c, http.StatusNotFound, "wallet not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"wallet": wallet,
	})
}

// Триггер синхронизации. Ошибка провайдера -> 502, сеть без API -> 200
// с пустым балансом и пояснением.
func (h *Handler) SyncWallet(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}

	result, err := h.service.Sync.SyncWallet(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			newErrorResponse(c, http.StatusNotFound, "wallet not found")
		case errors.Is(err, service.ErrProviderFetch):
			newErrorResponse(c, http.StatusBadGateway, err.Error())
		default:
			newErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetTransactions(c *gin.Context) {
	id, ok := walletID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	txs, err := h.service.Wallet.GetTransactions(id, limit)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"transactions": txs,
	})
}

func walletID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid wallet id")
		return 0, false
	}
	return id, true
}
