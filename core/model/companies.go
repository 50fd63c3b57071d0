package model

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jobster/jobster/core/apierror"
	"github.com/jobster/jobster/core/csql"
)

const companyColumns = "handle, name, num_employees, description, logo_url"

// companyPatchColumns is the allow-list of patchable company columns.
// The order also fixes the field order of generated update statements.
var companyPatchColumns = []string{"name", "num_employees", "description", "logo_url"}

// Companies is the company repository.
type Companies struct {
	DB *csql.DB
}

// CompanyFilter is the optional, conjunctively composed filter for
// listing companies. Search is a LIKE pattern against name or handle.
type CompanyFilter struct {
	Search       string
	MinEmployees *int
	MaxEmployees *int
}

// Validate rejects logically inconsistent bounds before any query runs.
func (f CompanyFilter) Validate() error {
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return apierror.InvalidParameters("Check that your parameters are correct.")
	}
	return nil
}

// Add inserts a new company. A duplicate handle fails with a typed
// duplicate error.
func (c *Companies) Add(ctx context.Context, company Company) (*Company, error) {
	query := fmt.Sprintf(`INSERT INTO %s.companies (%s) VALUES ($1, $2, $3, $4, $5) RETURNING %s;`,
		c.DB.Schema, companyColumns, companyColumns)
	var out Company
	err := c.DB.QueryRowContext(ctx, query,
		company.Handle, company.Name, company.NumEmployees, company.Description, company.LogoURL).
		Scan(&out.Handle, &out.Name, &out.NumEmployees, &out.Description, &out.LogoURL)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("There is already a company with the handle '%s'.", company.Handle))
	}
	return &out, nil
}

// Get returns a single company with its posted jobs nested.
func (c *Companies) Get(ctx context.Context, handle string) (*Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.companies WHERE handle = $1;`, companyColumns, c.DB.Schema)
	var out Company
	err := c.DB.QueryRowContext(ctx, query, handle).
		Scan(&out.Handle, &out.Name, &out.NumEmployees, &out.Description, &out.LogoURL)
	if err == csql.ErrNoRows {
		return nil, apierror.NotFound("Company not found.")
	}
	if err != nil {
		return nil, apierror.Server(err)
	}

	jobsQuery := fmt.Sprintf(`SELECT %s FROM %s.jobs WHERE company_handle = $1 ORDER BY id;`, jobColumns, c.DB.Schema)
	rows, err := c.DB.QueryContext(ctx, jobsQuery, handle)
	if err != nil {
		return nil, apierror.Server(err)
	}
	defer rows.Close()
	out.Jobs = []Job{}
	for rows.Next() {
		var job Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Salary, &job.Equity, &job.CompanyHandle, &job.DatePosted); err != nil {
			return nil, apierror.Server(err)
		}
		out.Jobs = append(out.Jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// List returns all companies matching the filter. Filter criteria are
// combined with AND.
func (c *Companies) List(ctx context.Context, filter CompanyFilter) ([]Company, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s.companies`, companyColumns, c.DB.Schema)
	var conditions []string
	var values []interface{}
	if len(filter.Search) > 0 {
		values = append(values, filter.Search)
		n := strconv.Itoa(len(values))
		conditions = append(conditions, "(name LIKE $"+n+" OR handle LIKE $"+n+")")
	}
	if filter.MinEmployees != nil {
		values = append(values, *filter.MinEmployees)
		conditions = append(conditions, "num_employees >= $"+strconv.Itoa(len(values)))
	}
	if filter.MaxEmployees != nil {
		values = append(values, *filter.MaxEmployees)
		conditions = append(conditions, "num_employees <= $"+strconv.Itoa(len(values)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY handle;"

	rows, err := c.DB.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, apierror.Server(err)
	}
	defer rows.Close()
	companies := []Company{}
	for rows.Next() {
		var company Company
		if err := rows.Scan(&company.Handle, &company.Name, &company.NumEmployees, &company.Description, &company.LogoURL); err != nil {
			return nil, apierror.Server(err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Server(err)
	}
	return companies, nil
}

// Patch updates exactly the fields present in the body. Existence is
// checked first, so a missing handle fails with not-found rather than
// a zero-row update.
func (c *Companies) Patch(ctx context.Context, handle string, fields map[string]interface{}) (*Company, error) {
	if _, err := c.Get(ctx, handle); err != nil {
		return nil, err
	}
	if err := checkPatchFields(fields, companyPatchColumns); err != nil {
		return nil, err
	}

	update := csql.NewUpdate(c.DB.Schema, "companies")
	for _, column := range companyPatchColumns {
		if value, ok := fields[column]; ok {
			update.Set(column, value)
		}
	}
	query, values, err := update.Build("handle", handle)
	if err != nil {
		return nil, apierror.InvalidParameters(err.Error())
	}

	var out Company
	err = c.DB.QueryRowContext(ctx, query, values...).
		Scan(&out.Handle, &out.Name, &out.NumEmployees, &out.Description, &out.LogoURL)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// Delete removes a company and returns the deleted record.
func (c *Companies) Delete(ctx context.Context, handle string) (*Company, error) {
	if _, err := c.Get(ctx, handle); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`DELETE FROM %s.companies WHERE handle = $1 RETURNING %s;`, c.DB.Schema, companyColumns)
	var out Company
	err := c.DB.QueryRowContext(ctx, query, handle).
		Scan(&out.Handle, &out.Name, &out.NumEmployees, &out.Description, &out.LogoURL)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}
