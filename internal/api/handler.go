package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"fitai/internal/auth"
	"fitai/internal/config"
	"fitai/internal/ingest"
	"fitai/internal/llm"
	"fitai/internal/observability"
	"fitai/internal/queue"
	"fitai/internal/rag"
	"fitai/internal/store"
)

// SearchRunner is the slice of the pipeline the handler needs.
type SearchRunner interface {
	Run(ctx context.Context, turn rag.Turn) (rag.Outcome, error)
}

// JobQueue enqueues ingestion work for the background worker.
type JobQueue interface {
	PushIngestJob(ctx context.Context, job queue.IngestJob) error
}

type Handler struct {
	Config   config.Config
	Store    *store.Store
	Auth     *auth.Service
	Pipeline SearchRunner
	Queue    JobQueue
	Outcomes *observability.OutcomeObserver
}

func NewHandler(cfg config.Config, st *store.Store, authSvc *auth.Service, pipeline SearchRunner, jobs JobQueue) *Handler {
	return &Handler{
		Config:   cfg,
		Store:    st,
		Auth:     authSvc,
		Pipeline: pipeline,
		Queue:    jobs,
		Outcomes: observability.NewOutcomeObserver(nil),
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/users", h.handleCreateUser)
	mux.HandleFunc("/v1/sessions", h.handleLogin)
	mux.HandleFunc("/v1/users/me", h.handleMe)
	mux.HandleFunc("/v1/search", h.handleSearch)
	mux.HandleFunc("/v1/feedback", h.handleFeedback)
	mux.HandleFunc("/v1/documents", h.handleUpload)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "valid email is required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "could not hash password", http.StatusInternalServerError)
		return
	}
	id, err := h.Store.CreateUser(r.Context(), store.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
	})
	if err != nil {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "email": req.Email})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	user, err := h.Store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, err := h.Auth.IssueToken(user.ID, user.Email)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	principal, ok := h.requireAuth(w, r)
	if !ok {
		return
	}
	user, err := h.Store.GetUser(r.Context(), principal.UserID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"current_weight": user.CurrentWeight,
		"current_height": user.CurrentHeight,
		"goal_weight":    user.GoalWeight,
	})
}

// searchRequest mirrors the conversational contract: prompt mode needs
// text, form mode needs the full preference fields.
type searchRequest struct {
	Prompt          bool       `json:"prompt"`
	Text            *string    `json:"text"`
	CurrentWeight   *float64   `json:"current_weight"`
	CurrentHeight   *float64   `json:"current_height"`
	GoalWeight      *float64   `json:"goal_weight"`
	MealRestriction []string   `json:"meal_restriction"`
	DietImprovement []string   `json:"diet_improvement"`
	Allergies       []string   `json:"allergies"`
	FoodAroundMe    []string   `json:"food_arround_me"`
	History         []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"history"`
}

func (req *searchRequest) validate() error {
	if req.Prompt {
		if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
			return errors.New("text is required when prompt is true")
		}
		return nil
	}
	if req.CurrentWeight == nil || req.CurrentHeight == nil || req.GoalWeight == nil ||
		req.MealRestriction == nil || req.DietImprovement == nil || req.Allergies == nil {
		return errors.New("required fields for non-prompt search are current_weight, current_height, goal_weight, allergies, meal_restriction, and diet_improvement")
	}
	return nil
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	outcome, err := h.Pipeline.Run(r.Context(), req.toTurn())
	if err != nil {
		if errors.Is(err, rag.ErrMissingText) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("search pipeline failed: %v", err)
		http.Error(w, "an error occurred while processing the request", http.StatusInternalServerError)
		return
	}

	elapsed := time.Since(start).Seconds()
	h.Outcomes.Record(string(outcome.Kind), elapsed)

	result := outcome.Object
	if result == nil {
		result = map[string]any{"message_res": rag.RandomNoResult()}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":                result,
		"time_taken_in_seconds": fmt.Sprintf("%.4f", elapsed),
	})
}

func (req *searchRequest) toTurn() rag.Turn {
	turn := rag.Turn{
		Prompt:          req.Prompt,
		MealRestriction: req.MealRestriction,
		DietImprovement: req.DietImprovement,
		Allergies:       req.Allergies,
		FoodAroundMe:    req.FoodAroundMe,
	}
	if req.Text != nil {
		turn.Text = *req.Text
	}
	if req.CurrentWeight != nil {
		turn.CurrentWeight = *req.CurrentWeight
	}
	if req.CurrentHeight != nil {
		turn.CurrentHeight = *req.CurrentHeight
	}
	if req.GoalWeight != nil {
		turn.GoalWeight = *req.GoalWeight
	}
	for _, m := range req.History {
		turn.History = append(turn.History, llm.Message{Role: m.Role, Content: m.Content})
	}
	return turn
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	principal, ok := h.requireAuth(w, r)
	if !ok {
		return
	}
	var req struct {
		Text       string         `json:"text"`
		Rating     int            `json:"rating"`
		AIResponse map[string]any `json:"ai_response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}
	id, err := h.Store.InsertFeedback(r.Context(), store.Feedback{
		UserID:     principal.UserID,
		Text:       req.Text,
		Rating:     req.Rating,
		AIResponse: req.AIResponse,
	})
	if err != nil {
		http.Error(w, "could not save feedback", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	maxBytes := h.Config.Upload.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	indexName := strings.TrimSpace(r.FormValue("index_name"))
	if indexName == "" {
		http.Error(w, "missing index_name", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	dir, err := ingest.SaveUploads(h.Config.Upload.Dir, files)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Queue.PushIngestJob(r.Context(), queue.IngestJob{Path: dir, Index: indexName}); err != nil {
		log.Printf("enqueue ingest job failed: %v", err)
		http.Error(w, "could not enqueue ingestion", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "files accepted for processing"})
}

func (h *Handler) requireAuth(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, err := h.Auth.AuthenticateRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Principal{}, false
	}
	return principal, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
