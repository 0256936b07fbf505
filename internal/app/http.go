package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/auth"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/payments"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/session"
)

const maxPhotoBytes = 10 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signup" {
		var body struct {
			Email       string `json:"email"`
			Password    string `json:"password"`
			DisplayName string `json:"displayName"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		sess, err := s.service.SignUp(r.Context(), body.Email, body.Password, body.DisplayName)
		if err != nil {
			writeError(w, http.StatusBadRequest, "SIGNUP_FAILED", err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusCreated, sessionPayload(sess))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		sess, err := s.service.SignIn(r.Context(), body.Email, body.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionPayload(sess))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/refresh" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		sess, err := s.service.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionPayload(sess))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Logout(r.Context(), body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	// Payment provider webhook: authenticated by signature, not session.
	if r.Method == http.MethodPost && r.URL.Path == "/api/payments/webhook" {
		s.handlePaymentWebhook(w, r)
		return
	}

	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	parts := splitPath(r.URL.Path)

	if r.Method == http.MethodGet && r.URL.Path == "/api/checklist" {
		overview, err := s.service.ChecklistOverview(r.Context(), sess.UserID)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": overview})
		return
	}

	// /api/checklist/{slug}/...
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "checklist" {
		slug := parts[2]

		if r.Method == http.MethodGet && len(parts) == 4 && parts[3] == "items" {
			items, err := s.service.ListChecklistItems(r.Context(), slug)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			payload := make([]map[string]any, 0, len(items))
			for _, item := range items {
				payload = append(payload, itemPayload(item))
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": payload})
			return
		}

		if r.Method == http.MethodGet && len(parts) == 4 && parts[3] == "progress" {
			progress, found, err := s.service.GetProgress(r.Context(), sess.UserID, slug)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			if !found {
				writeJSON(w, http.StatusOK, map[string]any{"progress": nil})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"progress": progressPayload(progress)})
			return
		}

		if r.Method == http.MethodGet && len(parts) == 5 && parts[3] == "step" {
			step, err := strconv.Atoi(parts[4])
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "step must be an integer", nil)
				return
			}
			resolution, err := s.service.ResolveStep(r.Context(), sess.UserID, slug, step)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			if resolution.RedirectTo != 0 {
				writeJSON(w, http.StatusOK, map[string]any{"redirectTo": resolution.RedirectTo})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"item": itemPayload(resolution.Item)})
			return
		}

		if r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "advance" {
			var body struct {
				Step     int  `json:"step"`
				Complete bool `json:"complete"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			progress, err := s.service.Advance(r.Context(), sess.UserID, slug, body.Step, body.Complete)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"progress": progressPayload(progress)})
			return
		}
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/lists" {
		lists, err := s.service.ListSnagLists(r.Context(), sess.UserID)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		payload := make([]map[string]any, 0, len(lists))
		for _, list := range lists {
			payload = append(payload, snagListPayload(list))
		}
		writeJSON(w, http.StatusOK, map[string]any{"lists": payload})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/lists" {
		var body struct {
			Name string `json:"name"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		list, err := s.service.StartNewList(r.Context(), sess.UserID, body.Name)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"list": snagListPayload(list)})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/lists/active" {
		list, found, err := s.service.GetActive(r.Context(), sess.UserID)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"list": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"list": snagListPayload(list)})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/lists/ensure-active" {
		list, found, err := s.service.EnsureActiveForCompletedChecklists(r.Context(), sess.UserID)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"list": nil, "reason": "checklists not complete"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"list": snagListPayload(list)})
		return
	}

	// /api/lists/{id}/...
	if len(parts) == 4 && parts[0] == "api" && parts[1] == "lists" {
		listID := parts[2]

		if r.Method == http.MethodPost && parts[3] == "activate" {
			list, err := s.service.SetActive(r.Context(), sess.UserID, listID)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"list": snagListPayload(list)})
			return
		}

		if r.Method == http.MethodGet && parts[3] == "snags" {
			snags, err := s.service.ListSnags(r.Context(), sess.UserID, listID)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			payload := make([]map[string]any, 0, len(snags))
			for _, snag := range snags {
				payload = append(payload, snagPayload(snag))
			}
			writeJSON(w, http.StatusOK, map[string]any{"snags": payload})
			return
		}
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/snags" {
		var body struct {
			ChecklistItemID string `json:"checklistItemId"`
			Note            string `json:"note"`
			PhotoURL        string `json:"photoUrl"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		snag, err := s.service.CaptureSnag(r.Context(), sess.UserID, body.ChecklistItemID, body.Note, body.PhotoURL)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"snag": snagPayload(snag)})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/photos" {
		s.handlePhotoUpload(w, r, sess)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/shares" {
		var body struct {
			BuilderName  string `json:"builderName"`
			BuilderEmail string `json:"builderEmail"`
			Address      string `json:"address"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		share, err := s.service.CreateShareRequest(r.Context(), sess.UserID, body.BuilderName, body.BuilderEmail, body.Address)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"share": sharePayload(share)})
		return
	}

	// /api/shares/{id}/...
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "shares" {
		shareID := parts[2]

		if r.Method == http.MethodGet && len(parts) == 3 {
			share, err := s.service.GetShareRequest(r.Context(), sess.UserID, shareID)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"share": sharePayload(share)})
			return
		}

		if r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "checkout" {
			redirectURL, err := s.service.BeginCheckout(r.Context(), sess.UserID, shareID)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"redirectUrl": redirectURL})
			return
		}

		if r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "confirm" {
			var body struct {
				SessionID string `json:"sessionId"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			if strings.TrimSpace(body.SessionID) == "" {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "sessionId is required", nil)
				return
			}
			list, err := s.service.ConfirmFromSession(r.Context(), sess.UserID, shareID, body.SessionID)
			if err != nil {
				s.writeMapped(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"list": snagListPayload(list)})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "could not read body", nil)
		return
	}
	defer r.Body.Close()

	signature := strings.TrimSpace(r.Header.Get("X-Snagged-Signature"))
	if signature == "" || !payments.VerifySignature(s.service.WebhookSecret(), body, signature) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid webhook signature", nil)
		return
	}

	var event payments.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}

	if err := s.service.HandleWebhookEvent(r.Context(), event); err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

func (s *HTTPServer) handlePhotoUpload(w http.ResponseWriter, r *http.Request, sess Session) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "expected multipart form with a photo field", nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "photo field is required", nil)
		return
	}
	defer file.Close()

	if header.Size > maxPhotoBytes {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "photo exceeds the 10MB limit", nil)
		return
	}

	url, err := s.service.UploadPhoto(r.Context(), sess.UserID, file, header.Size, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"url": url})
}

func (s *HTTPServer) writeMapped(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	sess, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return Session{}, false
		}
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Session lookup failed", nil)
		return Session{}, false
	}
	return sess, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, session.ErrNotFound) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "STORE_ERROR", "Storage temporarily unavailable, retry the request", nil
}

func sessionPayload(sess Session) map[string]any {
	return map[string]any{
		"token":        sess.Token,
		"refreshToken": sess.RefreshToken,
		"userId":       sess.UserID,
		"userName":     sess.UserName,
		"expiresAt":    sess.ExpiresAt.Unix(),
	}
}
