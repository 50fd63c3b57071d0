package backend

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/jobster/jobster/core/apierror"
	"github.com/jobster/jobster/core/backend/schemas"
	"github.com/jobster/jobster/core/events"
	"github.com/jobster/jobster/core/logger"
	"github.com/jobster/jobster/core/model"
)

func (b *Backend) handleCompanies(router *mux.Router) {
	rlog := logger.Default()
	rlog.Debugln("handle routes: /companies GET,POST")
	rlog.Debugln("handle routes: /companies/{handle} GET,PATCH,DELETE")

	admin := b.middleware.EnsureAdmin()

	router.HandleFunc("/companies", b.listCompanies).Methods(http.MethodGet)
	router.Handle("/companies", admin(http.HandlerFunc(b.createCompany))).Methods(http.MethodPost)
	router.HandleFunc("/companies/{handle}", b.getCompany).Methods(http.MethodGet)
	router.Handle("/companies/{handle}", admin(http.HandlerFunc(b.patchCompany))).Methods(http.MethodPatch)
	router.Handle("/companies/{handle}", admin(http.HandlerFunc(b.deleteCompany))).Methods(http.MethodDelete)
}

// companyFilterFromQuery discards empty values and rejects non-numeric
// bounds before the repository is consulted.
func companyFilterFromQuery(r *http.Request) (model.CompanyFilter, error) {
	var filter model.CompanyFilter
	urlQuery := r.URL.Query()
	filter.Search = urlQuery.Get("search")
	for _, key := range []string{"min_employees", "max_employees"} {
		value := urlQuery.Get(key)
		if len(value) == 0 {
			continue
		}
		bound, err := strconv.Atoi(value)
		if err != nil {
			return filter, apierror.InvalidParameters("Check that your parameters are correct.")
		}
		if key == "min_employees" {
			filter.MinEmployees = &bound
		} else {
			filter.MaxEmployees = &bound
		}
	}
	return filter, nil
}

func (b *Backend) listCompanies(w http.ResponseWriter, r *http.Request) {
	filter, err := companyFilterFromQuery(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	companies, err := b.companies.List(r.Context(), filter)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
}

func (b *Backend) createCompany(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	if err := b.validator.ValidateString(string(body), schemas.CompanyNew); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters(err.Error()))
		return
	}
	var company model.Company
	if err := json.Unmarshal(body, &company); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	created, err := b.companies.Add(r.Context(), company)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.CompanyCreated, created.Handle, created)
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": created})
}

func (b *Backend) getCompany(w http.ResponseWriter, r *http.Request) {
	company, err := b.companies.Get(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": company})
}

func (b *Backend) patchCompany(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	if err := b.validator.ValidateString(string(body), schemas.CompanyPatch); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters(err.Error()))
		return
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	company, err := b.companies.Patch(r.Context(), mux.Vars(r)["handle"], fields)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.CompanyUpdated, company.Handle, company)
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": company})
}

func (b *Backend) deleteCompany(w http.ResponseWriter, r *http.Request) {
	company, err := b.companies.Delete(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.CompanyDeleted, company.Handle, nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Company deleted"})
}
