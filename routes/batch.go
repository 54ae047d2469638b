package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pixbatch/auth"
	"pixbatch/config"
	"pixbatch/history"
	"pixbatch/job"
	"pixbatch/logger"
	"pixbatch/models"
	"pixbatch/spool"
)

const maxBodyBytes = 8 << 20

// BatchResponse is returned by POST /batch
type BatchResponse struct {
	BatchID string `json:"batch_id"`
	models.BatchResult
	Error string `json:"error,omitempty"`
}

// verifyJWT verifies the bearer token on the request and returns its claims
func verifyJWT(r *http.Request) (*models.BatchClaims, error) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return auth.VerifyToken(token, auth.VerifyConfig{
		SecretKey:      config.GetJWTSecret(),
		ExpectedIssuer: config.GetJWTIssuer(),
		ClockSkew:      time.Minute,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

// statusFor maps a batch error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, job.ErrConfig) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// BatchHandler runs a batch request. With ?async the request is written to
// the spool and 202 is returned right away.
func BatchHandler(sp *spool.Spool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := verifyJWT(r)
		if err != nil {
			logger.Warnf("Rejected batch from %s: %v", r.RemoteAddr, err)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}

		var req models.BatchRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}

		id := job.NewBatchID()
		logger.Infof("Batch %s from %s: %d jobs", id, claims.Subject, len(req.Jobs))

		if r.URL.Query().Has("async") {
			if sp == nil {
				http.Error(w, "Asynchronous batches are not enabled", http.StatusServiceUnavailable)
				return
			}
			if _, err := sp.Enqueue(id, req); err != nil {
				logger.Errorf("Failed to spool batch %s: %v", id, err)
				http.Error(w, "Failed to queue batch", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{
				"batch_id": id,
				"state":    spool.StatePending.String(),
			})
			return
		}

		result, err := job.Submit(r.Context(), id, req)
		if err != nil {
			writeJSON(w, statusFor(err), BatchResponse{
				BatchID:     id,
				BatchResult: models.BatchResult{SavedCount: job.SavedBefore(err)},
				Error:       err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, BatchResponse{BatchID: id, BatchResult: result})
	}
}

// BatchQueryHandler returns the history record of a batch, or its spool
// state while it has not finished.
func BatchQueryHandler(sp *spool.Spool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id parameter required", http.StatusBadRequest)
			return
		}

		if history.Enabled() {
			record, err := history.Get(id)
			if err != nil {
				logger.Errorf("Failed to query batch %s: %v", id, err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if record != nil {
				writeJSON(w, http.StatusOK, record)
				return
			}
		}

		if sp != nil {
			if state, ok := sp.State(id); ok {
				writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": state.String()})
				return
			}
		}

		writeJSON(w, http.StatusNotFound, map[string]string{
			"id":      id,
			"status":  "not_found",
			"message": "No record found for this batch",
		})
	}
}

// BatchListHandler lists every recorded batch, newest first
func BatchListHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyJWT(r); err != nil {
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}

	records, err := history.List()
	if err != nil {
		logger.Errorf("Failed to list batch records: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"batches": records,
		"count":   len(records),
	})
}
