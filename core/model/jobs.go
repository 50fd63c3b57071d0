package model

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jobster/jobster/core/apierror"
	"github.com/jobster/jobster/core/csql"
)

const jobColumns = "id, title, salary, equity, company_handle, date_posted"

var jobPatchColumns = []string{"title", "salary", "equity", "company_handle"}

// Jobs is the job repository.
type Jobs struct {
	DB *csql.DB
}

// JobFilter is the optional, conjunctively composed filter for listing
// jobs. Search is a LIKE pattern against title or company handle.
// MinSalary is a strict lower bound on salary; MinEquity, despite the
// name, is a strict upper bound on equity.
type JobFilter struct {
	Search    string
	MinSalary *float64
	MinEquity *float64
}

// companyExists verifies the referenced company. The job table enforces
// the foreign key as well, but checking here surfaces a clean
// "Company not found." failure instead of a constraint violation.
func (j *Jobs) companyExists(ctx context.Context, handle string) error {
	query := fmt.Sprintf(`SELECT handle FROM %s.companies WHERE handle = $1;`, j.DB.Schema)
	var found string
	err := j.DB.QueryRowContext(ctx, query, handle).Scan(&found)
	if err == csql.ErrNoRows {
		return apierror.NotFound("Company not found.")
	}
	if err != nil {
		return apierror.Server(err)
	}
	return nil
}

// Add inserts a new job posting. The referenced company must exist.
func (j *Jobs) Add(ctx context.Context, job Job) (*Job, error) {
	if err := j.companyExists(ctx, job.CompanyHandle); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`INSERT INTO %s.jobs (title, salary, equity, company_handle) VALUES ($1, $2, $3, $4) RETURNING %s;`,
		j.DB.Schema, jobColumns)
	var out Job
	err := j.DB.QueryRowContext(ctx, query, job.Title, job.Salary, job.Equity, job.CompanyHandle).
		Scan(&out.ID, &out.Title, &out.Salary, &out.Equity, &out.CompanyHandle, &out.DatePosted)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// Get returns a single job.
func (j *Jobs) Get(ctx context.Context, id int) (*Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.jobs WHERE id = $1;`, jobColumns, j.DB.Schema)
	var out Job
	err := j.DB.QueryRowContext(ctx, query, id).
		Scan(&out.ID, &out.Title, &out.Salary, &out.Equity, &out.CompanyHandle, &out.DatePosted)
	if err == csql.ErrNoRows {
		return nil, apierror.NotFound("Job not found.")
	}
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// List returns all jobs matching the filter.
func (j *Jobs) List(ctx context.Context, filter JobFilter) ([]Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.jobs`, jobColumns, j.DB.Schema)
	var conditions []string
	var values []interface{}
	if len(filter.Search) > 0 {
		values = append(values, filter.Search)
		n := strconv.Itoa(len(values))
		conditions = append(conditions, "(title LIKE $"+n+" OR company_handle LIKE $"+n+")")
	}
	if filter.MinSalary != nil {
		values = append(values, *filter.MinSalary)
		conditions = append(conditions, "salary > $"+strconv.Itoa(len(values)))
	}
	if filter.MinEquity != nil {
		// min_equity bounds equity from above; the parameter name is
		// historical
		values = append(values, *filter.MinEquity)
		conditions = append(conditions, "equity < $"+strconv.Itoa(len(values)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id;"

	rows, err := j.DB.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, apierror.Server(err)
	}
	defer rows.Close()
	jobs := []Job{}
	for rows.Next() {
		var job Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Salary, &job.Equity, &job.CompanyHandle, &job.DatePosted); err != nil {
			return nil, apierror.Server(err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Server(err)
	}
	return jobs, nil
}

// Patch updates exactly the fields present in the body. An update that
// changes company_handle re-validates that the referenced company
// exists, surfacing "Company not found." distinct from "Job not found.".
func (j *Jobs) Patch(ctx context.Context, id int, fields map[string]interface{}) (*Job, error) {
	if _, err := j.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := checkPatchFields(fields, jobPatchColumns); err != nil {
		return nil, err
	}
	if handle, ok := fields["company_handle"].(string); ok {
		if err := j.companyExists(ctx, handle); err != nil {
			return nil, err
		}
	}

	update := csql.NewUpdate(j.DB.Schema, "jobs")
	for _, column := range jobPatchColumns {
		if value, ok := fields[column]; ok {
			update.Set(column, value)
		}
	}
	query, values, err := update.Build("id", id)
	if err != nil {
		return nil, apierror.InvalidParameters(err.Error())
	}

	var out Job
	err = j.DB.QueryRowContext(ctx, query, values...).
		Scan(&out.ID, &out.Title, &out.Salary, &out.Equity, &out.CompanyHandle, &out.DatePosted)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}

// Delete removes a job and returns the deleted record.
func (j *Jobs) Delete(ctx context.Context, id int) (*Job, error) {
	if _, err := j.Get(ctx, id); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`DELETE FROM %s.jobs WHERE id = $1 RETURNING %s;`, j.DB.Schema, jobColumns)
	var out Job
	err := j.DB.QueryRowContext(ctx, query, id).
		Scan(&out.ID, &out.Title, &out.Salary, &out.Equity, &out.CompanyHandle, &out.DatePosted)
	if err != nil {
		return nil, apierror.Server(err)
	}
	return &out, nil
}
