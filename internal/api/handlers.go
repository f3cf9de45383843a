// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sidevit/trainconf/internal/config"
	"github.com/sidevit/trainconf/internal/log"
	"github.com/sidevit/trainconf/internal/validate"
)

// maxValidateBody bounds candidate documents posted to the validate endpoint.
const maxValidateBody = 1 << 20 // 1 MiB

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Get())
}

func (s *Server) handleGetPlan(w http.ResponseWriter, _ *http.Request) {
	cfg := s.holder.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":            cfg.Train.ActivePlan(),
		"swa_start_epoch": cfg.Train.SWAStartEpoch,
		"sam_start_epoch": cfg.Train.SAMStartEpoch,
		"warmup":          cfg.Train.HasWarmup(),
	})
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	oldCfg := s.holder.Get()

	if err := s.holder.Reload(r.Context()); err != nil {
		logger.Warn().
			Err(err).
			Str("event", "api.config_reload_failed").
			Msg("manual config reload failed")
		writeJSON(w, http.StatusConflict, map[string]any{
			"status": "rejected",
			"error":  err.Error(),
		})
		return
	}

	newCfg := s.holder.Get()
	summary, err := config.Diff(oldCfg, newCfg)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to diff configurations after reload")
	}

	logger.Info().
		Str("event", "api.config_reloaded").
		Strs("changed_fields", summary.ChangedFields).
		Msg("configuration reloaded via API")

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "reloaded",
		"changed_fields":   summary.ChangedFields,
		"restart_required": summary.RestartRequired,
	})
}

// handleValidateConfig validates a candidate YAML document from the request
// body without applying it.
func (s *Server) handleValidateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxValidateBody+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "read body: " + err.Error()})
		return
	}
	if len(body) > maxValidateBody {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "document too large"})
		return
	}

	cfg, err := config.ResolveBytes(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status": "invalid",
			"error":  err.Error(),
		})
		return
	}

	// Cross-field checks against the running operational settings, so a
	// candidate is judged the same way a reload would judge it.
	current := s.holder.Get()
	cfg.LogLevel = current.LogLevel
	cfg.ListenAddr = current.ListenAddr
	cfg.NumClasses = current.NumClasses
	cfg.WeightedSampling = current.WeightedSampling

	if err := config.Validate(cfg); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status": "invalid",
			"errors": validationDetails(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "valid",
		"plan":   cfg.Train.ActivePlan(),
	})
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func validationDetails(err error) []fieldError {
	var verr validate.ValidationError
	if !errors.As(err, &verr) {
		return []fieldError{{Field: "", Message: err.Error()}}
	}
	details := make([]fieldError, 0, len(verr.Errors()))
	for _, e := range verr.Errors() {
		details = append(details, fieldError{Field: e.Field, Message: e.Message, Value: e.Value})
	}
	return details
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger := log.WithComponent("api")
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
