package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/camden-git/legacymappings/database"
	"github.com/camden-git/legacymappings/legacy"
	"github.com/camden-git/legacymappings/models"
	"github.com/camden-git/legacymappings/repository"
)

// LegacyRecordHandler serves 'mocks' rows under their public column names.
type LegacyRecordHandler struct {
	Repo repository.LegacyRecordRepositoryInterface
}

// Routes mounts the record endpoints on r.
func (h *LegacyRecordHandler) Routes(r chi.Router) {
	r.Get("/schema", h.GetSchema)
	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.ListRecords)
		r.Post("/", h.CreateRecord)
		r.Route("/{record_id}", func(r chi.Router) {
			r.Get("/", h.GetRecord)
			r.Patch("/", h.UpdateRecord)
			r.Delete("/", h.DeleteRecord)
		})
	})
}

type schemaResponse struct {
	Table      string            `json:"table"`
	PrimaryKey string            `json:"primary_key"`
	Columns    []string          `json:"columns"`
	Aliases    legacy.AliasMap   `json:"aliases"`
	Methods    map[string]string `json:"methods"`
}

func (h *LegacyRecordHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	m := h.Repo.Model()
	writeJSON(w, http.StatusOK, schemaResponse{
		Table:      m.Schema.Table,
		PrimaryKey: m.Resolver.PrimaryKey(),
		Columns:    m.Resolver.PublicColumnNames(),
		Aliases:    m.Resolver.Aliases(),
		Methods:    m.Resolver.ColumnMethods(),
	})
}

// ListRecords filters by query parameters named after aliases or columns.
// A repeated parameter matches any of its values.
func (h *LegacyRecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	m := h.Repo.Model()
	cond := legacy.Hash{}
	for name, values := range r.URL.Query() {
		if m.Resolver.ColumnFor(m.Schema, name) == nil {
			WriteAPIError(w, http.StatusBadRequest, CodeUnknownColumn, "Unknown column: "+name)
			return
		}
		if len(values) == 1 {
			cond[name] = values[0]
		} else {
			cond[name] = values
		}
	}

	records, err := h.Repo.Find(cond)
	if err != nil {
		log.Printf("Error listing legacy records: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve records")
		return
	}

	out := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		attrs, err := h.Repo.Attributes(&records[i])
		if err != nil {
			log.Printf("Error rendering legacy record %d: %v", records[i].ID, err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to render records")
			return
		}
		out = append(out, attrs)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LegacyRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	record, err := h.Repo.GetByID(id)
	if err != nil {
		h.writeRepoError(w, err, id)
		return
	}
	h.writeRecord(w, http.StatusOK, record)
}

func (h *LegacyRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	attrs, ok := decodeAttributes(w, r)
	if !ok {
		return
	}

	record, err := h.Repo.Create(attrs)
	if err != nil {
		h.writeRepoError(w, err, 0)
		return
	}
	h.writeRecord(w, http.StatusCreated, record)
}

func (h *LegacyRecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	attrs, ok := decodeAttributes(w, r)
	if !ok {
		return
	}

	record, err := h.Repo.UpdateAttributes(id, attrs)
	if err != nil {
		h.writeRepoError(w, err, id)
		return
	}
	h.writeRecord(w, http.StatusOK, record)
}

func (h *LegacyRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Delete(id); err != nil {
		h.writeRepoError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LegacyRecordHandler) writeRecord(w http.ResponseWriter, status int, record *models.LegacyRecord) {
	attrs, err := h.Repo.Attributes(record)
	if err != nil {
		log.Printf("Error rendering legacy record %d: %v", record.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to render record")
		return
	}
	writeJSON(w, status, attrs)
}

func (h *LegacyRecordHandler) writeRepoError(w http.ResponseWriter, err error, id uint) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Record not found")
	case errors.Is(err, legacy.ErrUnknownAttribute):
		WriteAPIError(w, http.StatusBadRequest, CodeUnknownColumn, err.Error())
	case errors.Is(err, database.ErrInvalidValue):
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, repository.ErrPrimaryKeyAssignment):
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	default:
		log.Printf("Error handling legacy record %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to process record")
	}
}

func recordID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "record_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid record ID format")
		return 0, false
	}
	return uint(id), true
}

func decodeAttributes(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var attrs map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return attrs, true
}
