package model

import (
	"context"
	"fmt"

	"github.com/jobster/jobster/core/apierror"
	"github.com/jobster/jobster/core/credentials"
	"github.com/jobster/jobster/core/csql"
)

// userColumns deliberately excludes the password digest; it is selected
// explicitly only where verification needs it.
const userColumns = "username, first_name, last_name, email, photo_url, is_admin"

// is_admin and the password are not patchable through the API.
var userPatchColumns = []string{"first_name", "last_name", "email", "photo_url"}

// Users is the user repository.
type Users struct {
	DB     *csql.DB
	Hasher credentials.Hasher
}

// Add inserts a new user with a freshly salted password digest. A
// duplicate username fails with a typed duplicate error.
func (u *Users) Add(ctx context.Context, user User, password string) (*User, error) {
	digest, err := u.Hasher.Hash(password)
	if err != nil {
		return nil, apierror.Server(err)
	}
	query := fmt.Sprintf(`INSERT INTO %s.users (username, password, first_name, last_name, email, photo_url, is_admin)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s;`, u.DB.Schema, userColumns)
	var out User
	err = u.DB.QueryRowContext(ctx, query,
		user.Username, digest, user.FirstName, user.LastName, user.Email, user.PhotoURL, user.IsAdmin).
		Scan(&out.Username, &out.FirstName, &out.LastName, &out.Email, &out.PhotoURL, &out.IsAdmin)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("There is already a user with the username '%s'.", user.Username))
	}
	return &out, nil
}

// List returns all users.
func (u *Users) List(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.users ORDER BY username;`, userColumns, u.DB.Schema)
	rows, err := u.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, apierror.Server(err)
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.Username, &user.FirstName, &user.LastName, &user.Email, &user.PhotoURL, &user.IsAdmin); err != nil {
			return nil, apierror.Server(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Server(err)
	}
	return users, nil
}

// Get returns a single user enriched with their job applications.
func (u *Users) Get(ctx context.Context, username string) (*UserDetail, error) {
	query := fmt.Sprintf(`SELECT u.username, u.first_name, u.last_name, u.email, u.photo_url, u.is_admin,
a.job_id, j.title, j.company_handle, a.state
FROM %s.users AS u
LEFT JOIN %s.applications AS a ON u.username = a.username
LEFT JOIN %s.jobs AS j ON a.job_id = j.id
WHERE u.username = $1;`, u.DB.Schema, u.DB.Schema, u.DB.Schema)

	rows, err := u.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, apierror.Server(err)
	}
	defer rows.Close()

	var out *UserDetail
	for rows.Next() {
		var (
			user          User
			jobID         *int
			title         *string
			companyHandle *string
			state         *string
		)
		if err := rows.Scan(&user.Username, &user.FirstName, &user.LastName, &user.Email, &user.PhotoURL, &user.IsAdmin,
			&jobID, &title, &companyHandle, &state); err != nil {
			return nil, apierror.Server(err)
		}
		if out == nil {
			out = &UserDetail{User: user, Applications: []Application{}}
		}
		if jobID != nil {
			application := Application{JobID: *jobID}
			if title != nil {
				application.Title = *title
			}
			if companyHandle != nil {
				application.CompanyHandle = *companyHandle
			}
			if state != nil {
				application.State = *state
			}
			out.Applications = append(out.Applications, application)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Server(err)
	}
	if out == nil {
		return nil, apierror.NotFound("User does not exist.")
	}
	return out, nil
}

// Patch updates exactly the fields present in the body and returns the
// reduced profile record. The password and the admin flag cannot be
// patched.
func (u *Users) Patch(ctx context.Context, username string, fields map[string]interface{}) (*UserProfile, error) {
	if _, err := u.Get(ctx, username); err != nil {
		return nil, err
	}
	if err := checkPatchFields(fields, userPatchColumns); err != nil {
		return nil, err
	}

	update := csql.NewUpdate(u.DB.Schema, "users")
	for _, column := range userPatchColumns {
		if value, ok := fields[column]; ok {
			update.Set(column, value)
		}
	}
	query, values, err := update.Build("username", username)
	if err != nil {
		return nil, apierror.InvalidParameters(err.Error())
	}

	// RETURNING * yields the full row in table order, digest included;
	// only the profile fields leave this function.
	var (
		out     UserProfile
		scanned User
		digest  string
	)
	err = u.DB.QueryRowContext(ctx, query, values...).
		Scan(&scanned.Username, &digest, &out.FirstName, &out.LastName, &out.Email, &out.PhotoURL, &scanned.IsAdmin)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// Delete removes a user and returns the deleted record.
func (u *Users) Delete(ctx context.Context, username string) (*User, error) {
	if _, err := u.Get(ctx, username); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`DELETE FROM %s.users WHERE username = $1 RETURNING %s;`, u.DB.Schema, userColumns)
	var out User
	err := u.DB.QueryRowContext(ctx, query, username).
		Scan(&out.Username, &out.FirstName, &out.LastName, &out.Email, &out.PhotoURL, &out.IsAdmin)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// Authenticate verifies a username/password pair. A missing user is a
// not-found failure raised before any verification; a wrong password is
// unauthorized.
func (u *Users) Authenticate(ctx context.Context, username, password string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s, password FROM %s.users WHERE username = $1;`, userColumns, u.DB.Schema)
	var (
		out    User
		digest string
	)
	err := u.DB.QueryRowContext(ctx, query, username).
		Scan(&out.Username, &out.FirstName, &out.LastName, &out.Email, &out.PhotoURL, &out.IsAdmin, &digest)
	if err == csql.ErrNoRows {
		return nil, apierror.NotFound("User does not exist.")
	}
	if err != nil {
		return nil, apierror.Server(err)
	}
	if !u.Hasher.Verify(password, digest) {
		return nil, apierror.Unauthorized()
	}
	return &out, nil
}

// IsAdmin reads the current admin flag for the username. The admin
// middleware calls this on every request, so revoked rights apply
// immediately.
func (u *Users) IsAdmin(ctx context.Context, username string) (bool, error) {
	query := fmt.Sprintf(`SELECT is_admin FROM %s.users WHERE username = $1;`, u.DB.Schema)
	var isAdmin bool
	err := u.DB.QueryRowContext(ctx, query, username).Scan(&isAdmin)
	if err == csql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apierror.Server(err)
	}
	return isAdmin, nil
}
