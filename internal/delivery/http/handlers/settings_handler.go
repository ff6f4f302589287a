package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunamarket/settlement-service/internal/domain"
	settingsusecase "github.com/lunamarket/settlement-service/internal/usecase/settings"
)

type SettingsHandler struct {
	settingsUsecase settingsusecase.SettingsUsecase
}

func NewSettingsHandler(settingsUsecase settingsusecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{settingsUsecase: settingsUsecase}
}

// GetSettings handles GET /admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	snapshot, err := h.settingsUsecase.Snapshot(c.Request.Context())
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"commission_rate_bps": snapshot.CommissionRateBps,
		"payout_delay_days":   snapshot.PayoutDelayDays,
		"max_downloads":       snapshot.MaxDownloads,
	})
}

type updateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

var allowedSettingKeys = map[string]struct{}{
	domain.SettingCommissionRateBps: {},
	domain.SettingPayoutDelayDays:   {},
	domain.SettingMaxDownloads:      {},
}

// UpdateSetting handles PUT /admin/settings. New values apply to orders
// created after the write; existing orders keep their frozen amounts.
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := allowedSettingKeys[req.Key]; !ok {
		ErrorResponse(c, http.StatusBadRequest, "unknown setting key")
		return
	}

	if err := h.settingsUsecase.UpdateSetting(c.Request.Context(), req.Key, req.Value); err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}
