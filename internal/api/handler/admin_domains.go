package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/internal/usecases/domainadmin"
	"github.com/insightbridge/campaign-dashboard-api/pkg/apiErrors"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
	"github.com/julienschmidt/httprouter"
)

func domainIDFromRequest(r *http.Request) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())
	return strconv.Atoi(params.ByName("id"))
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainadmin.ErrDomainNotFound):
		apiErrors.WriteError(w, apiErrors.ErrDomainNotFound, "Domain not found", nil)
	case errors.Is(err, domainadmin.ErrDuplicateCode):
		apiErrors.WriteError(w, apiErrors.ErrDuplicateCode, "Domain code already exists", nil)
	case errors.Is(err, domainadmin.ErrMissingFields):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
	default:
		log.L.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Database operation failed", nil)
	}
}

// ListEnabledDomains is the public listing the dashboard uses to build
// its domain filter. Credentials are stripped from the response.
func ListEnabledDomains(service domainadmin.Administrator) http.HandlerFunc {
	type publicDomain struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		LEDomain string `json:"le_domain"`
		Phase    int    `json:"phase"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		domains, err := service.ListEnabled()
		if err != nil {
			writeAdminError(w, err)
			return
		}

		public := make([]publicDomain, 0, len(domains))
		for _, d := range domains {
			public = append(public, publicDomain{
				Code:     d.Code,
				Name:     d.Name,
				LEDomain: d.LEDomain,
				Phase:    d.Phase,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"domains": public,
		})
	}
}

// ListAdminDomains returns one page of the admin table, filtered by the
// search query parameter.
func ListAdminDomains(service domainadmin.Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			parsed, err := strconv.Atoi(p)
			if err != nil || parsed < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "page must be a positive integer", nil)
				return
			}
			page = parsed
		}

		result, err := service.ListDomains(search, page)
		if err != nil {
			writeAdminError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"domains":     result.Domains,
			"total":       result.Total,
			"page":        result.Page,
			"per_page":    result.PerPage,
			"total_pages": result.TotalPages,
		})
	}
}

func GetAdminDomain(service domainadmin.Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := domainIDFromRequest(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid domain id", nil)
			return
		}

		d, err := service.GetDomain(id)
		if err != nil {
			writeAdminError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"domain":  d,
		})
	}
}

func CreateAdminDomain(service domainadmin.Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateDomainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		created, err := service.CreateDomain(&req)
		if err != nil {
			writeAdminError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"domain":  created,
		})
	}
}

func UpdateAdminDomain(service domainadmin.Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := domainIDFromRequest(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid domain id", nil)
			return
		}

		var req domain.UpdateDomainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}
		req.ID = id

		updated, err := service.UpdateDomain(&req)
		if err != nil {
			writeAdminError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"domain":  updated,
		})
	}
}

func DeleteAdminDomain(service domainadmin.Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := domainIDFromRequest(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid domain id", nil)
			return
		}

		if err := service.DeleteDomain(id); err != nil {
			writeAdminError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Domain deleted",
		})
	}
}
