package records

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/roster/pkg/handlers"
	"github.com/JaimeStill/roster/pkg/routes"
)

// Response messages.
const (
	msgInserted      = "Data inserted successfully"
	msgInsertFailed  = "Error inserting data"
	msgFound         = "Data found successfully"
	msgFetched       = "Data fetched successfully"
	msgFetchFailed   = "Error fetching data"
	msgNoMatch       = "No data found with that criteria"
	msgDeleted       = "Data deleted successfully"
	msgDeleteFailed  = "Error deleting data"
	msgNamesUpdated  = "Names updated successfully"
	msgNoAge         = "No data found with that age"
	msgUpdated       = "Data updated successfully"
	msgNoID          = "No data found with that ID"
	msgUpdateFailed  = "Error updating data"
	msgAverage       = "Average age calculated successfully"
	msgNoData        = "No data found"
	msgAverageFailed = "Error calculating average age"
)

// Handler provides HTTP endpoints for record operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "records"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for record endpoints.
// Patterns are relative to the module mount point.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{$}", Handler: h.InsertOne},
			{Method: "POST", Pattern: "/all", Handler: h.InsertMany},
			{Method: "GET", Pattern: "/all", Handler: h.ListAll},
			{Method: "GET", Pattern: "/average-age", Handler: h.AverageAge},
			{Method: "PATCH", Pattern: "/update-name", Handler: h.UpdateNameByAge},
			{Method: "PUT", Pattern: "/update/{id}", Handler: h.UpdateByID},
			{Method: "GET", Pattern: "/{field}/{value}", Handler: h.FindByField},
			{Method: "DELETE", Pattern: "/{field}/{value}", Handler: h.DeleteByField},
		},
	}
}

// InsertOne creates a record from a JSON object body.
func (h *Handler) InsertOne(w http.ResponseWriter, r *http.Request) {
	var fields Fields
	if err := h.decode(w, r, &fields); err != nil {
		h.respondError(w, err, msgInsertFailed, msgInsertFailed)
		return
	}

	rec, err := h.sys.InsertOne(r.Context(), fields)
	if err != nil {
		h.respondError(w, err, msgInsertFailed, msgInsertFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, Envelope{Message: msgInserted, Data: rec})
}

// InsertMany creates one record per element of a JSON array body.
func (h *Handler) InsertMany(w http.ResponseWriter, r *http.Request) {
	var batch json.RawMessage
	if err := h.decode(w, r, &batch); err != nil {
		h.respondError(w, err, msgInsertFailed, msgInsertFailed)
		return
	}

	created, err := h.sys.InsertMany(r.Context(), batch)
	if err != nil {
		h.respondError(w, err, msgInsertFailed, msgInsertFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, Envelope{Message: msgInserted, Data: created})
}

// ListAll returns every record in insertion order.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.ListAll(r.Context())
	if err != nil {
		h.respondError(w, err, msgFetchFailed, msgFetchFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Envelope{Message: msgFetched, Data: all})
}

// AverageAge returns the mean of every numeric age.
func (h *Handler) AverageAge(w http.ResponseWriter, r *http.Request) {
	avg, err := h.sys.AverageAge(r.Context())
	if err != nil {
		h.respondError(w, err, msgNoData, msgAverageFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Envelope{Message: msgAverage, AverageAge: &avg})
}

// FindByField returns every record whose field equals the path value.
func (h *Handler) FindByField(w http.ResponseWriter, r *http.Request) {
	found, err := h.sys.FindByField(r.Context(), r.PathValue("field"), r.PathValue("value"))
	if err != nil {
		h.respondError(w, err, msgNoMatch, msgFetchFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Envelope{Message: msgFound, Data: found})
}

// DeleteByField removes the first record whose field equals the path value.
func (h *Handler) DeleteByField(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.DeleteByField(r.Context(), r.PathValue("field"), r.PathValue("value")); err != nil {
		h.respondError(w, err, msgNoMatch, msgDeleteFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Envelope{Message: msgDeleted})
}

// UpdateNameByAge sets the name of the first record with the given age.
func (h *Handler) UpdateNameByAge(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateNameCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.respondError(w, err, msgNoAge, msgUpdateFailed)
		return
	}
	if cmd.Age == nil || cmd.NewName == nil {
		h.respondError(w, fmt.Errorf("%w: age and newName are required", ErrInvalidBody), msgNoAge, msgUpdateFailed)
		return
	}

	modified, err := h.sys.UpdateNameByAge(r.Context(), *cmd.Age, *cmd.NewName)
	if err != nil {
		h.respondError(w, err, msgNoAge, msgUpdateFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Envelope{Message: msgNamesUpdated, UpdatedCount: &modified})
}

// UpdateByID overlays the body fields onto the record with the path identifier.
func (h *Handler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	var fields Fields
	if err := h.decode(w, r, &fields); err != nil {
		h.respondError(w, err, msgNoID, msgUpdateFailed)
		return
	}

	rec, err := h.sys.UpdateByID(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		h.respondError(w, err, msgNoID, msgUpdateFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Envelope{Message: msgUpdated, Data: rec})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error, notFound, failure string) {
	status := MapHTTPStatus(err)
	msg := failure
	if status == http.StatusNotFound {
		msg = notFound
	}
	handlers.RespondMessage(w, h.logger, status, msg, err)
}
