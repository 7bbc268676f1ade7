package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"workerbull/internal/config"
	"workerbull/internal/logger"
	"workerbull/internal/utils"
)

type Handler struct {
	Config config.AdminConfig
	Logger *logger.Logger
}

func NewHandler(cfg config.AdminConfig, log *logger.Logger) *Handler {
	return &Handler{Config: cfg, Logger: log}
}

// Login handles POST /api/admin/login, exchanging the admin password for a
// short-lived JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.Config.Password == "" {
		h.Logger.Error("AUTH", "admin password is not configured, refusing login")
		utils.WriteError(w, http.StatusServiceUnavailable, "Admin login is not configured")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Config.Password)) != 1 {
		h.Logger.Warn("AUTH", "admin login rejected: wrong password")
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := IssueAdminToken(h.Config.TokenSecret, h.Config.TokenTTL)
	if err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("failed to issue admin token: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresIn": int(h.Config.TokenTTL.Seconds()),
	})
}
