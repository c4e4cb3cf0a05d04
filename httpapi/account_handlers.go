package httpapi

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type resetPasswordRequest struct {
	Username  string `json:"username"`
	NewSecret string `json:"newSecret"`
}

// sessionResponse is returned by signup and login: the sanitized
// account plus a session token.
type sessionResponse struct {
	User  domain.SafeAccount `json:"user"`
	Token string             `json:"token"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: malformed body", errors.ErrValidation))
		return
	}

	account, err := s.accountService.Register(req.Username, req.Secret)
	if err != nil {
		s.respondError(w, err)
		return
	}

	token, err := s.tokens.Generate(account.Username)
	if err != nil {
		s.respondError(w, errors.ErrTokenGeneration)
		return
	}

	s.respondJSON(w, http.StatusCreated, sessionResponse{User: account, Token: token})
}

// login collapses unknown-username and wrong-secret into one generic
// 401 so the response never reveals which part was wrong.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: malformed body", errors.ErrValidation))
		return
	}

	account, err := s.accountService.Authenticate(req.Username, req.Secret)
	if err != nil {
		s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication failed"})
		return
	}

	token, err := s.tokens.Generate(account.Username)
	if err != nil {
		s.respondError(w, errors.ErrTokenGeneration)
		return
	}

	s.respondJSON(w, http.StatusOK, sessionResponse{User: account, Token: token})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: malformed body", errors.ErrValidation))
		return
	}

	account, err := s.accountService.ResetSecret(req.Username, req.NewSecret)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, account)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	account, err := s.accountService.Lookup(username)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, account)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	account, err := s.accountService.Remove(username)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, account)
}
