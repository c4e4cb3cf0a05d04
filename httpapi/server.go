// Package httpapi exposes the account and messaging services over
// HTTP/JSON, plus a server-sent-events stream for real-time delivery.
package httpapi

import (
	"chat-hub/auth"
	"chat-hub/broadcast"
	"chat-hub/errors"
	"chat-hub/services"
	"chat-hub/workers"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

type Server struct {
	log            *slog.Logger
	accountService services.IAccountService
	messageService services.IMessageService
	broadcaster    *broadcast.Broadcaster
	tokens         *auth.TokenIssuer
	health         *workers.HealthMonitor
}

func NewServer(
	log *slog.Logger,
	accountService services.IAccountService,
	messageService services.IMessageService,
	broadcaster *broadcast.Broadcaster,
	tokens *auth.TokenIssuer,
	health *workers.HealthMonitor,
) *Server {
	return &Server{
		log:            log,
		accountService: accountService,
		messageService: messageService,
		broadcaster:    broadcaster,
		tokens:         tokens,
		health:         health,
	}
}

// Router builds the full route table. Account deletion requires a
// session token matching the target username; password reset stays open
// because it backs the forgot-password flow.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recovery(s.log))
	r.Use(Logging(s.log))

	r.HandleFunc("/user/signup", s.signup).Methods(http.MethodPost)
	r.HandleFunc("/user/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/user/resetPassword", s.resetPassword).Methods(http.MethodPatch)
	r.HandleFunc("/user/getUser/{username}", s.getUser).Methods(http.MethodGet)
	r.Handle("/user/deleteUser/{username}",
		RequireMatchingUser(s.tokens, s.log, http.HandlerFunc(s.deleteUser))).
		Methods(http.MethodDelete)

	r.HandleFunc("/messaging/addMessage", s.addMessage).Methods(http.MethodPost)
	r.HandleFunc("/messaging/getMessages", s.getMessages).Methods(http.MethodGet)
	r.HandleFunc("/messaging/stream", s.streamMessages).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("response encoding failed", "error", err)
	}
}

// respondError renders a domain error with its mapped status and a
// stable client-facing message. The underlying error stays in the logs.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := errors.MapToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
		s.respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	s.log.Debug("request rejected", "error", err, "status", status)
	s.respondJSON(w, status, errorResponse{Error: err.Error()})
}
