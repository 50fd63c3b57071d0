/*Package backend provides the HTTP route layer of the jobster API.

It maps verbs and paths to the entity repositories, applies the
authorization middleware chain to gated routes, validates request
bodies against the embedded JSON schemas and translates typed failures
into HTTP statuses.
*/
package backend

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/jobster/jobster/core/access"
	"github.com/jobster/jobster/core/backend/schemas"
	"github.com/jobster/jobster/core/csql"
	"github.com/jobster/jobster/core/credentials"
	"github.com/jobster/jobster/core/events"
	"github.com/jobster/jobster/core/logger"
	"github.com/jobster/jobster/core/model"
	"github.com/jobster/jobster/core/schema"
)

// CompanyStore is the company repository as the route layer sees it.
type CompanyStore interface {
	Add(ctx context.Context, company model.Company) (*model.Company, error)
	Get(ctx context.Context, handle string) (*model.Company, error)
	List(ctx context.Context, filter model.CompanyFilter) ([]model.Company, error)
	Patch(ctx context.Context, handle string, fields map[string]interface{}) (*model.Company, error)
	Delete(ctx context.Context, handle string) (*model.Company, error)
}

// JobStore is the job repository as the route layer sees it.
type JobStore interface {
	Add(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id int) (*model.Job, error)
	List(ctx context.Context, filter model.JobFilter) ([]model.Job, error)
	Patch(ctx context.Context, id int, fields map[string]interface{}) (*model.Job, error)
	Delete(ctx context.Context, id int) (*model.Job, error)
}

// UserStore is the user repository as the route layer sees it.
type UserStore interface {
	Add(ctx context.Context, user model.User, password string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, username string) (*model.UserDetail, error)
	Patch(ctx context.Context, username string, fields map[string]interface{}) (*model.UserProfile, error)
	Delete(ctx context.Context, username string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// Backend is the jobster rest backend
type Backend struct {
	router     *mux.Router
	companies  CompanyStore
	jobs       JobStore
	users      UserStore
	tokens     access.Tokens
	notifier   *events.Notifier
	validator  *schema.Validator
	middleware *access.MiddlewareBuilder
}

// Builder is a builder helper for the Backend
type Builder struct {
	// DB is the jobster postgres database. Mandatory unless all three
	// stores are set.
	DB *csql.DB
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Tokens signs and verifies the request tokens. The secret is
	// mandatory.
	Tokens access.Tokens
	// Hasher hashes passwords. The zero value uses the bcrypt default
	// work factor.
	Hasher credentials.Hasher
	// Notifier publishes entity change events. This is optional.
	Notifier *events.Notifier
	// Companies, Jobs and Users replace the postgres repositories.
	// These are optional and mainly intended for tests.
	Companies CompanyStore
	Jobs      JobStore
	Users     UserStore
}

// New realizes the actual backend and adds all routes to the router.
func New(bb *Builder) *Backend {
	if bb.Router == nil {
		panic("Router is missing")
	}
	if len(bb.Tokens.Secret) == 0 {
		panic("token secret is missing")
	}

	b := &Backend{
		router:    bb.Router,
		companies: bb.Companies,
		jobs:      bb.Jobs,
		users:     bb.Users,
		tokens:    bb.Tokens,
		notifier:  bb.Notifier,
	}
	if b.companies == nil || b.jobs == nil || b.users == nil {
		if bb.DB == nil {
			panic("DB is missing")
		}
		b.companies = &model.Companies{DB: bb.DB}
		b.jobs = &model.Jobs{DB: bb.DB}
		b.users = &model.Users{DB: bb.DB, Hasher: bb.Hasher}
	}

	validator, err := schema.NewValidatorFromFS(schemas.FS)
	if err != nil {
		panic(err)
	}
	b.validator = validator

	b.middleware = &access.MiddlewareBuilder{
		Tokens:  bb.Tokens,
		IsAdmin: b.users.IsAdmin,
	}

	logger.AddRequestID(b.router)
	b.handleCORS()
	b.handleCompression()
	b.handleLogin(b.router)
	b.handleCompanies(b.router)
	b.handleJobs(b.router)
	b.handleUsers(b.router)
	return b
}

// writeJSON writes the object as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, object interface{}) {
	jsonData, _ := json.Marshal(object)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(jsonData)
}

// readBody consumes and returns the request body.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
