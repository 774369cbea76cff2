package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"cardle/internal/config"
	"cardle/internal/security"
	"cardle/internal/service"
)

// AuthHandler serves admin authentication and the backup endpoints
type AuthHandler struct {
	cfg     *config.Config
	backups *service.BackupService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, backups *service.BackupService) *AuthHandler {
	return &AuthHandler{cfg: cfg, backups: backups}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/v1/admin/login. The single admin account is
// configured through the environment; there are no player accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	if h.cfg.AdminUser == "" || h.cfg.AdminPasswordHash == "" {
		respondWithError(w, http.StatusForbidden, "Admin login not configured", "", nil)
		return
	}

	if req.Username != h.cfg.AdminUser || !security.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		log.Printf("Failed admin login attempt for %q from %s", req.Username, security.GetClientIP(r))
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	token, err := security.GenerateAdminToken(req.Username, h.cfg.JWTSecret, h.cfg.TokenDuration)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to issue admin token", err)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Token: token})
}

// ExportBackup handles GET /api/v1/admin/backup
func (h *AuthHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="cardle-backup.json"`)
	if err := h.backups.ExportToWriter(w); err != nil {
		log.Printf("Backup export failed: %v", err)
	}
}

// ImportBackup handles POST /api/v1/admin/restore
func (h *AuthHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.backups.ImportFromReader(r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Restore failed", "Backup import failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
