package schema_test

import (
	"testing"

	"github.com/jobster/jobster/core/backend/schemas"
	"github.com/jobster/jobster/core/schema"
)

const companySchema = `{
	"$id": "jobster://schemas/test-company.json",
	"type": "object",
	"required": ["handle", "name"],
	"properties": {
		"handle": { "type": "string", "minLength": 1 },
		"name": { "type": "string", "minLength": 1 },
		"num_employees": { "type": "integer", "minimum": 0 }
	}
}`

func TestValidateString(t *testing.T) {
	v, err := schema.NewValidator([]string{companySchema}, nil)
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}

	schemaID := "jobster://schemas/test-company.json"

	valid := `{"handle":"roni","name":"Roni Inc","num_employees":5}`
	if err := v.ValidateString(valid, schemaID); err != nil {
		t.Fatalf("%s is expected to be valid with schema %s. Reported error was: %v", valid, schemaID, err)
	}

	invalid := `{"name":"Roni Inc","num_employees":-2}`
	if err := v.ValidateString(invalid, schemaID); err == nil {
		t.Fatalf("%s is expected to be invalid with schema %s", invalid, schemaID)
	}
}

func TestValidateStruct(t *testing.T) {
	v, err := schema.NewValidator([]string{companySchema}, nil)
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}

	type company struct {
		Handle string `json:"handle"`
		Name   string `json:"name"`
	}
	if err := v.ValidateStruct(company{"roni", "Roni Inc"}, "jobster://schemas/test-company.json"); err != nil {
		t.Fatal(err)
	}

	type broken struct {
		Handle string `json:"company_handle"`
	}
	if err := v.ValidateStruct(broken{"roni"}, "jobster://schemas/test-company.json"); err == nil {
		t.Fatal("missing required properties must not validate")
	}
}

func TestNewValidatorFromFS(t *testing.T) {
	v, err := schema.NewValidatorFromFS(schemas.FS)
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}

	for _, schemaID := range []string{
		schemas.CompanyNew, schemas.CompanyPatch,
		schemas.JobNew, schemas.JobPatch,
		schemas.UserNew, schemas.UserPatch,
	} {
		if !v.HasSchema(schemaID) {
			t.Fatalf("%s schemaID is expected to be available", schemaID)
		}
	}

	if err := v.ValidateString(`{"handle":"roni","name":"Roni Inc"}`, schemas.CompanyNew); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateString(`{"handle":"roni"}`, schemas.CompanyNew); err == nil {
		t.Fatal("a company without a name must not validate")
	}
	if err := v.ValidateString(`{"title":"engineer","salary":100,"equity":2,"company_handle":"roni"}`, schemas.JobNew); err == nil {
		t.Fatal("equity above 1 must not validate")
	}
}
