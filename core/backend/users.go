package backend

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/jobster/jobster/core/apierror"
	"github.com/jobster/jobster/core/backend/schemas"
	"github.com/jobster/jobster/core/events"
	"github.com/jobster/jobster/core/logger"
	"github.com/jobster/jobster/core/model"
)

func (b *Backend) handleUsers(router *mux.Router) {
	rlog := logger.Default()
	rlog.Debugln("handle routes: /users GET,POST")
	rlog.Debugln("handle routes: /users/{username} GET,PATCH,DELETE")

	correctUser := b.middleware.EnsureCorrectUser()

	router.HandleFunc("/users", b.listUsers).Methods(http.MethodGet)
	router.HandleFunc("/users", b.createUser).Methods(http.MethodPost)
	router.HandleFunc("/users/{username}", b.getUser).Methods(http.MethodGet)
	router.Handle("/users/{username}", correctUser(http.HandlerFunc(b.patchUser))).Methods(http.MethodPatch)
	router.Handle("/users/{username}", correctUser(http.HandlerFunc(b.deleteUser))).Methods(http.MethodDelete)
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := b.users.List(r.Context())
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// createUser is signup: it stores the new user and responds with a
// token, so the caller is logged in right away.
func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	if err := b.validator.ValidateString(string(body), schemas.UserNew); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters(err.Error()))
		return
	}
	var request struct {
		model.User
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &request); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	user, err := b.users.Add(r.Context(), request.User, request.Password)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	token, err := b.tokens.Issue(user.Username)
	if err != nil {
		apierror.Write(w, r, apierror.Server(err))
		return
	}
	b.notifier.Notify(events.UserCreated, user.Username, user)
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token})
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := b.users.Get(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (b *Backend) patchUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	if err := b.validator.ValidateString(string(body), schemas.UserPatch); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters(err.Error()))
		return
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		apierror.Write(w, r, apierror.InvalidParameters("invalid request body"))
		return
	}
	username := mux.Vars(r)["username"]
	user, err := b.users.Patch(r.Context(), username, fields)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.UserUpdated, username, user)
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if _, err := b.users.Delete(r.Context(), username); err != nil {
		apierror.Write(w, r, err)
		return
	}
	b.notifier.Notify(events.UserDeleted, username, nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "User deleted"})
}
