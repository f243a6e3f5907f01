package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/store"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, r, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user := models.User{
		Id:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := s.issuer.Issue(user.Id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	zap.L().Info("User registered", zap.String("user_id", user.Id))

	respondJSON(w, r, http.StatusOK, models.AuthResponse{
		Id:    user.Id,
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		respondMessage(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondMessage(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondError(w, r, err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondMessage(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.issuer.Issue(user.Id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.AuthResponse{
		Id:    user.Id,
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	})
}

// Tokens are stateless, so logout has nothing to revoke. The endpoint exists
// for clients that expect it.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserById(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.UserResponse{
		Id:    user.Id,
		Email: user.Email,
		Name:  user.Name,
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		respondMessage(w, r, http.StatusBadRequest, "Email is required")
		return
	}

	// Respond identically whether or not the email exists.
	accepted := map[string]string{"message": "If the email is registered, a reset token has been issued"}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondJSON(w, r, http.StatusOK, accepted)
			return
		}
		respondError(w, r, err)
		return
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		respondError(w, r, err)
		return
	}

	reset := models.ResetToken{
		Token:     token,
		UserId:    user.Id,
		ExpiresAt: time.Now().UTC().Add(s.resetTokenTTL),
	}
	if err := s.store.StoreResetToken(r.Context(), reset); err != nil {
		respondError(w, r, err)
		return
	}

	// There is no mail delivery; the token surfaces in the server log for
	// the operator to hand over out of band.
	zap.L().Info("Password reset token issued",
		zap.String("user_id", user.Id),
		zap.String("token", token))

	respondJSON(w, r, http.StatusOK, accepted)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		respondMessage(w, r, http.StatusBadRequest, "Token and new password are required")
		return
	}

	reset, err := s.store.GetResetToken(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			respondMessage(w, r, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		respondError(w, r, err)
		return
	}
	if time.Now().UTC().After(reset.ExpiresAt) {
		respondMessage(w, r, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), reset.UserId, passwordHash); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteResetToken(r.Context(), req.Token); err != nil {
		zap.L().Warn("Failed to delete consumed reset token", zap.Error(err))
	}

	zap.L().Info("Password reset completed", zap.String("user_id", reset.UserId))

	respondJSON(w, r, http.StatusOK, map[string]string{"message": "Password updated"})
}
