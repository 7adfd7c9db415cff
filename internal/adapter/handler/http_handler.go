package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/adapter/auth"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/port"
)

// HTTPHandler translates the JSON API into core operations and core
// errors into status codes. It performs no business logic of its own.
type HTTPHandler struct {
	products *service.ProductService
	auth     *auth.Authenticator
	logger   *zap.Logger
}

func NewHTTPHandler(products *service.ProductService, authenticator *auth.Authenticator, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{products: products, auth: authenticator, logger: logger}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /api/login", h.Login)

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("POST /api/products", h.CreateProduct)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)

	mux.HandleFunc("POST /api/products/{id}/colors", h.AddColor)
	mux.HandleFunc("DELETE /api/products/{id}/colors/{color}", h.RemoveColor)
	mux.HandleFunc("PUT /api/products/{id}/colors/{color}/sizes/{size}", h.SetSize)
	mux.HandleFunc("DELETE /api/products/{id}/colors/{color}/sizes/{size}", h.RemoveSize)

	mux.HandleFunc("POST /api/products/{id}/dispatch", h.Dispatch)
	mux.HandleFunc("POST /api/products/{id}/status", h.TransitionStatus)

	mux.HandleFunc("DELETE /api/products/{id}/history/{entryId}", h.DeleteHistoryEntry)
	mux.HandleFunc("POST /api/products/{id}/history/undo", h.UndoHistoryDelete)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, role, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: role})
}

type createProductRequest struct {
	Name   string                    `json:"name"`
	Image  string                    `json:"image"`
	Colors map[string]domain.SizeMap `json:"colors"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.products.CreateProduct(r.Context(), req.Name, req.Image, req.Colors)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// productListItem is the listing shape used by the sales and
// manufacturing views; totals come from the mirrored summary.
type productListItem struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Image     string        `json:"image,omitempty"`
	Status    domain.Status `json:"status"`
	Total     int           `json:"total"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := port.ProductFilter{
		NameContains: r.URL.Query().Get("q"),
		Status:       domain.Status(r.URL.Query().Get("status")),
	}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]productListItem, 0, len(products))
	for _, p := range products {
		items = append(items, productListItem{
			ID:        p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Status:    p.Status,
			Total:     h.products.StockTotal(r.Context(), p),
			UpdatedAt: p.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updateProductRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.products.UpdateDetails(r.Context(), r.PathValue("id"), req.Name, req.Image)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type addColorRequest struct {
	Color string `json:"color"`
}

func (h *HTTPHandler) AddColor(w http.ResponseWriter, r *http.Request) {
	var req addColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Color == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "color is required"})
		return
	}

	p, err := h.products.AddColor(r.Context(), r.PathValue("id"), req.Color)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) RemoveColor(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.RemoveColor(r.Context(), r.PathValue("id"), r.PathValue("color"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type setSizeRequest struct {
	Qty int `json:"qty"`
}

func (h *HTTPHandler) SetSize(w http.ResponseWriter, r *http.Request) {
	var req setSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.products.SetSize(r.Context(), r.PathValue("id"), r.PathValue("color"), r.PathValue("size"), req.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) RemoveSize(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.RemoveSize(r.Context(), r.PathValue("id"), r.PathValue("color"), r.PathValue("size"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type dispatchRequest struct {
	RequestID string         `json:"request_id"`
	Color     string         `json:"color"`
	Sizes     map[string]int `json:"sizes"`
}

type dispatchResponse struct {
	Entries []domain.HistoryEntry `json:"entries"`
	Product *domain.Product       `json:"product"`
}

func (h *HTTPHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.RequestID == "" || req.Color == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request_id and color are required"})
		return
	}

	entries, p, err := h.products.Dispatch(r.Context(), req.RequestID, r.PathValue("id"), req.Color, req.Sizes)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispatchResponse{Entries: entries, Product: p})
}

type transitionRequest struct {
	Status domain.Status `json:"status"`
}

func (h *HTTPHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.products.Transition(r.Context(), r.PathValue("id"), req.Status, claims.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.DeleteHistoryEntry(r.Context(), r.PathValue("id"), r.PathValue("entryId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) UndoHistoryDelete(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.UndoHistoryDelete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorize resolves the bearer token; it writes the 401 itself.
func (h *HTTPHandler) authorize(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return nil, false
	}

	claims, err := h.auth.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
		return nil, false
	}
	return claims, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		status = http.StatusConflict
		message = insufficient.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrDuplicateColor),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, port.ErrVersionConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyDispatch),
		errors.Is(err, service.ErrInvalidName):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	default:
		h.logger.Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
