package backend

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/jobster/jobster/core/apierror"
	"github.com/jobster/jobster/core/logger"
)

func (b *Backend) handleLogin(router *mux.Router) {
	logger.Default().Debugln("handle route: /login POST")

	router.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		body, err := readBody(r)
		if err != nil || json.Unmarshal(body, &request) != nil {
			apierror.Write(w, r, apierror.Unauthorized())
			return
		}

		user, err := b.users.Authenticate(r.Context(), request.Username, request.Password)
		if err != nil {
			// a missing user and a wrong password are deliberately
			// indistinguishable to the caller
			if apierror.IsKind(err, apierror.KindServer) {
				apierror.Write(w, r, err)
			} else {
				apierror.Write(w, r, apierror.Unauthorized())
			}
			return
		}

		token, err := b.tokens.Issue(user.Username)
		if err != nil {
			apierror.Write(w, r, apierror.Server(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"token": token})
	}).Methods(http.MethodPost)
}
