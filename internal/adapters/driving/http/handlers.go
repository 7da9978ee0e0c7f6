package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

// maxBodyBytes caps request bodies. Transcripts for long videos can be large.
const maxBodyBytes = 16 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// IDResponse carries the id of a created or updated provider
type IDResponse struct {
	ID string `json:"id" example:"6f1c9c0e-2b8a-4a55-9d43-0d3f1b7a9f10"`
}

// AddModelRequest registers a model under a provider
type AddModelRequest struct {
	ProviderID string `json:"provider_id"`
	ModelName  string `json:"model_name"`
}

// AddModelResponse reports whether the model was inserted
type AddModelResponse struct {
	Added bool `json:"added"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the registry database and, when configured, Redis
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// Note endpoints

// handleGenerateNote godoc
// @Summary      Generate a note
// @Description  Builds a prompt from the transcript, runs one completion and returns the post-processed Markdown
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.GenerateNoteRequest  true  "Note request"
// @Success      200      {object}  domain.NoteDocument
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "Provider not found"
// @Failure      502      {object}  ErrorResponse  "LLM endpoint failed or returned no usable content"
// @Router       /api/v1/notes [post]
func (s *Server) handleGenerateNote(w http.ResponseWriter, r *http.Request) {
	var req driving.GenerateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := s.noteService.Generate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Provider endpoints

// handleListProviders godoc
// @Summary      List providers
// @Description  Admins see every provider, members only enabled ones. API keys are always masked.
// @Tags         Providers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Provider
// @Router       /api/v1/providers [get]
func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	var (
		providers []*domain.Provider
		err       error
	)
	if authCtx := GetAuthContext(r.Context()); authCtx != nil && authCtx.IsAdmin() {
		providers, err = s.providerService.ListProviders(r.Context(), true)
	} else {
		providers, err = s.providerService.ListEnabledProviders(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, providers)
}

// handleAddProvider godoc
// @Summary      Add provider
// @Description  Creates a provider, or updates in place a custom provider with the same name (admin only)
// @Tags         Providers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.AddProviderRequest  true  "Provider"
// @Success      201      {object}  IDResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Router       /api/v1/providers [post]
func (s *Server) handleAddProvider(w http.ResponseWriter, r *http.Request) {
	var req driving.AddProviderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := s.providerService.AddProvider(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// handleGetProvider godoc
// @Summary      Get provider
// @Description  Returns one provider with a masked API key (admin only)
// @Tags         Providers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  domain.Provider
// @Failure      404  {object}  ErrorResponse  "Provider not found"
// @Router       /api/v1/providers/{id} [get]
func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := s.providerService.GetProvider(r.Context(), r.PathValue("id"), true)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, provider)
}

// handleUpdateProvider godoc
// @Summary      Update provider
// @Description  Merges the supplied fields into the provider (admin only)
// @Tags         Providers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Provider ID"
// @Param        request  body      domain.ProviderUpdate  true  "Fields to change"
// @Success      200      {object}  IDResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      404      {object}  ErrorResponse  "Provider not found"
// @Router       /api/v1/providers/{id} [put]
func (s *Server) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProviderUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	id, err := s.providerService.UpdateProvider(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, IDResponse{ID: id})
}

// handleDeleteProvider godoc
// @Summary      Delete provider
// @Description  Deletes a custom provider and its models. Built-in providers are protected (admin only)
// @Tags         Providers
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      204  "No Content"
// @Failure      404  {object}  ErrorResponse  "Provider not found"
// @Failure      409  {object}  ErrorResponse  "Built-in provider"
// @Router       /api/v1/providers/{id} [delete]
func (s *Server) handleDeleteProvider(w http.ResponseWriter, r *http.Request) {
	if err := s.providerService.DeleteProvider(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTestProvider godoc
// @Summary      Test provider connection
// @Description  Probes the provider's endpoint with its stored key (admin only)
// @Tags         Providers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Missing API key"
// @Failure      404  {object}  ErrorResponse  "Provider not found"
// @Failure      502  {object}  ErrorResponse  "Connection test failed"
// @Router       /api/v1/providers/{id}/test [post]
func (s *Server) handleTestProvider(w http.ResponseWriter, r *http.Request) {
	if err := s.providerService.TestConnection(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Model endpoints

// handleListRemoteModels godoc
// @Summary      List remote models
// @Description  Asks the provider's endpoint for its models. Unreachable endpoints yield an empty list (admin only)
// @Tags         Models
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {array}   domain.ModelDescriptor
// @Failure      404  {object}  ErrorResponse  "Provider not found"
// @Router       /api/v1/providers/{id}/models/remote [get]
func (s *Server) handleListRemoteModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.modelService.ListRemoteModels(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models)
}

// handleListProviderModels godoc
// @Summary      List provider models
// @Description  Returns the models registered under a provider
// @Tags         Models
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {array}   domain.Model
// @Router       /api/v1/providers/{id}/models [get]
func (s *Server) handleListProviderModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.modelService.ListModels(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(models))
}

// handleListModels godoc
// @Summary      List models
// @Description  Returns every registered model
// @Tags         Models
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Model
// @Router       /api/v1/models [get]
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.modelService.ListAllModels(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(models))
}

// handleAddModel godoc
// @Summary      Add model
// @Description  Registers a model name under a provider. Unknown providers and duplicates return added=false (admin only)
// @Tags         Models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      AddModelRequest  true  "Model"
// @Success      201      {object}  AddModelResponse "Inserted"
// @Success      200      {object}  AddModelResponse "Not inserted"
// @Failure      400      {object}  ErrorResponse    "Invalid request"
// @Router       /api/v1/models [post]
func (s *Server) handleAddModel(w http.ResponseWriter, r *http.Request) {
	var req AddModelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	added, err := s.modelService.AddModel(r.Context(), req.ProviderID, req.ModelName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, AddModelResponse{Added: added})
}

// handleDeleteModel godoc
// @Summary      Delete model
// @Description  Removes a registered model (admin only)
// @Tags         Models
// @Security     BearerAuth
// @Param        id   path      int  true  "Model ID"
// @Success      204  "No Content"
// @Failure      400  {object}  ErrorResponse  "Invalid id"
// @Failure      404  {object}  ErrorResponse  "Model not found"
// @Router       /api/v1/models/{id} [delete]
func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	if err := s.modelService.DeleteModel(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

// writeServiceError maps domain errors to status codes.
// Unknown errors are logged and reported as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, "provider not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrMissingCredential):
		writeError(w, http.StatusBadRequest, domain.ErrMissingCredential.Error())
	case errors.Is(err, domain.ErrBuiltInProtected):
		writeError(w, http.StatusConflict, domain.ErrBuiltInProtected.Error())
	case errors.Is(err, domain.ErrModelNameRequired):
		writeError(w, http.StatusBadGateway, domain.ErrModelNameRequired.Error())
	case errors.Is(err, domain.ErrConnectionTestFailed):
		writeError(w, http.StatusBadGateway, domain.ErrConnectionTestFailed.Error())
	case errors.Is(err, domain.ErrNoUsableContent):
		writeError(w, http.StatusBadGateway, domain.ErrNoUsableContent.Error())
	case errors.Is(err, domain.ErrTransport):
		s.logger.Warn("llm transport failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "llm endpoint unavailable")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes a JSON body into v, writing a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
