/*Package model contains the jobster entities and their postgres
repositories.

The repositories speak direct SQL. They raise the typed failures from
core/apierror; duplicate keys are detected via the storage layer's
uniqueness constraints and translated from the postgres error code.
Partial updates go through the csql update builder, restricted to a
static allow-list of patchable columns per entity.
*/
package model

import (
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/jobster/jobster/core/apierror"
)

// Company is a company that posts jobs. The handle is the unique
// human-readable identifier and acts as the primary key.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	NumEmployees *int    `json:"num_employees"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
	Jobs         []Job   `json:"jobs,omitempty"`
}

// Job is a posted job. The id is a surrogate key assigned by the store;
// equity is a fraction in [0,1].
type Job struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Salary        float64   `json:"salary"`
	Equity        float64   `json:"equity"`
	CompanyHandle string    `json:"company_handle"`
	DatePosted    time.Time `json:"date_posted"`
}

// User is a registered user. The stored password digest never leaves
// the model package.
type User struct {
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url"`
	IsAdmin   bool    `json:"is_admin"`
}

// Application links a user to a job they applied for.
type Application struct {
	JobID         int    `json:"job_id"`
	Title         string `json:"title"`
	CompanyHandle string `json:"company_handle"`
	State         string `json:"state"`
}

// UserDetail is a single-user lookup result, enriched with the user's
// applications.
type UserDetail struct {
	User
	Applications []Application `json:"applications"`
}

// UserProfile is the reduced record returned after a user patch.
type UserProfile struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url"`
}

// translate maps a storage error to a typed failure. Unique violations
// become duplicates with the given message, anything unclassified
// becomes a server error.
func translate(err error, duplicateMessage string) error {
	if err, ok := err.(*pq.Error); ok && err.Code == "23505" {
		return apierror.Duplicate(duplicateMessage)
	}
	return apierror.Server(err)
}

// checkPatchFields verifies that every non-underscore key in fields is
// in the allow-list of patchable columns and that at least one
// patchable field is present. Underscore keys carry request
// credentials and are ignored.
func checkPatchFields(fields map[string]interface{}, allowed []string) error {
	count := 0
	for key := range fields {
		if strings.HasPrefix(key, "_") {
			continue
		}
		ok := false
		for _, column := range allowed {
			if key == column {
				ok = true
				break
			}
		}
		if !ok {
			return apierror.InvalidParameters("field cannot be updated: " + key)
		}
		count++
	}
	if count == 0 {
		return apierror.InvalidParameters("no fields to update")
	}
	return nil
}
