// Package schemas embeds the JSON schemas for request body validation.
package schemas

import "embed"

//go:embed *.json
var FS embed.FS

// the schema ids, matching the $id of the embedded documents
const (
	CompanyNew   = "jobster://schemas/company-new.json"
	CompanyPatch = "jobster://schemas/company-patch.json"
	JobNew       = "jobster://schemas/job-new.json"
	JobPatch     = "jobster://schemas/job-patch.json"
	UserNew      = "jobster://schemas/user-new.json"
	UserPatch    = "jobster://schemas/user-patch.json"
)
