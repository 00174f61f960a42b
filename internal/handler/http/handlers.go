package httpx

import (
	"context"
	"errors"
	"net/http"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/pkg/response"

	"github.com/charmbracelet/log"
)

type Messages interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, text string) (string, error)
}

type Users interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, name string) (domain.User, error)
}

type Handler struct {
	mux      *http.ServeMux
	messages Messages
	users    Users
	logger   *log.Logger
}

func New(messages Messages, users Users, logger *log.Logger) http.Handler {
	h := &Handler{
		mux:      http.NewServeMux(),
		messages: messages,
		users:    users,
		logger:   logger,
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	h.mux.HandleFunc("GET /healthz", h.health)
	h.mux.HandleFunc("GET /api/hello", h.hello)
	h.mux.HandleFunc("POST /api/hello", h.setHello)
	h.mux.HandleFunc("PATCH /api/hello", h.setHello)
	h.mux.HandleFunc("GET /api/users", h.listUsers)
	h.mux.HandleFunc("POST /api/users", h.createUser)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type messageBody struct {
	Message string `json:"message"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) hello(w http.ResponseWriter, r *http.Request) {
	text, err := h.messages.Get(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, messageBody{Message: text})
}

// setHello backs both POST and PATCH; the two are interchangeable.
func (h *Handler) setHello(w http.ResponseWriter, r *http.Request) {
	text, err := decodeString(w, r, "message")
	if err != nil {
		h.requestError(w, err)
		return
	}
	text, err = h.messages.Set(r.Context(), text)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, messageBody{Message: text})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	name, err := decodeString(w, r, "name")
	if err != nil {
		h.requestError(w, err)
		return
	}
	user, err := h.users.Create(r.Context(), name)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

func (h *Handler) requestError(w http.ResponseWriter, err error) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		response.JSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": verr.details})
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		writeError(w, http.StatusBadRequest, "invalid request body")
	}
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("store failure", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	response.JSON(w, code, map[string]string{"detail": msg})
}
