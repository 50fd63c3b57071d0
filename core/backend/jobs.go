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

func (b *Backend) handleJobs(router *mux.Router) {
	rlog := logger.Default()
	rlog.Debugln("handle routes: /jobs GET,POST")
	rlog.Debugln("handle routes: /jobs/{id} GET,PATCH,DELETE")

	loggedIn := b.middleware.EnsureLoggedIn()
	admin := b.middleware.EnsureAdmin()

	router.Handle("/jobs", loggedIn(http.HandlerFunc(b.listJobs))).Methods(http.MethodGet)
	router.Handle("/jobs", admin(http.HandlerFunc(b.createJob))).Methods(http.MethodPost)
	router.Handle("/jobs/{id}", loggedIn(http.HandlerFunc(b.getJob))).Methods(http.MethodGet)
	router.Handle("/jobs/{id}", admin(http.HandlerFunc(b.patchJob))).Methods(http.MethodPatch)
	router.Handle("/jobs/{id}", admin(http.HandlerFunc(b.deleteJob))).Methods(http.MethodDelete)
}

// jobID parses the {id} route variable; a non-numeric id is rejected
// with 422, not a routing miss.
func jobID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, apierror.InvalidJobID()
	}
	return id, nil
}

// jobFilterFromQuery discards empty values and rejects non-numeric
// bounds before the repository is consulted.
func jobFilterFromQuery(r *http.Request) (model.JobFilter, error) {
	var filter model.JobFilter
	urlQuery := r.URL.Query()
	filter.Search = urlQuery.Get("search")
	for _, key := range []string{"min_salary", "min_equity"} {
		value := urlQuery.Get(key)
		if len(value) == 0 {
			continue
		}
		bound, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return filter, apierror.InvalidParameters("Check that your parameters are correct.")
		}
		if key == "min_salary" {
			filter.MinSalary = &bound
		} else {
			filter.MinEquity = &bound
		}
	}
	return filter, nil
}

func (b *Backend) listJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromQuery(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	jobs, err := b.jobs.List(r.Context(), filter)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func (b *Backend) createJob(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	if err := b.validator.ValidateString(string(body), schemas.JobNew); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters(err.Error()))
		return
	}
	var job model.Job
	if err := json.Unmarshal(body, &job); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	created, err := b.jobs.Add(r.Context(), job)
	if err != nil {
		// a missing referenced company is a caller error on create
		if e := apierror.From(err); e.Kind == apierror.KindNotFound {
			err = apierror.InvalidParameters(e.Message)
		}
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.JobCreated, strconv.Itoa(created.ID), created)
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": created})
}

func (b *Backend) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	job, err := b.jobs.Get(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (b *Backend) patchJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	if err := b.validator.ValidateString(string(body), schemas.JobPatch); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters(err.Error()))
		return
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	job, err := b.jobs.Patch(r.Context(), id, fields)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.JobUpdated, strconv.Itoa(job.ID), job)
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (b *Backend) deleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	job, err := b.jobs.Delete(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.JobDeleted, strconv.Itoa(job.ID), nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Job deleted"})
}
