package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"account-api/internal/logger"
	"account-api/internal/pkg/errors"
	"account-api/internal/services"
)

const signatureHeader = "X-Webhook-Signature"

// WebhookHandler receives identity-provider events and synchronizes users.
// Requests are authenticated by an HMAC-SHA256 signature over the raw body.
type WebhookHandler struct {
	identityService services.IdentityService
	secret          []byte
}

func NewWebhookHandler(identityService services.IdentityService, secret string) *WebhookHandler {
	return &WebhookHandler{
		identityService: identityService,
		secret:          []byte(secret),
	}
}

type webhookPayload struct {
	Type string                 `json:"type"`
	Data services.IdentityEvent `json:"data"`
}

func (h *WebhookHandler) Identity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.verifySignature(body, r.Header.Get(signatureHeader)) {
		writeError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if err := h.identityService.HandleEvent(r.Context(), payload.Type, payload.Data); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"event_type": payload.Type,
			"error":      err,
		}).Error("Failed to process identity event")

		switch err {
		case errors.ErrInvalidInput, errors.ErrAlreadyExists:
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.ErrNotFound:
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Detail: "ok"})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if len(h.secret) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
