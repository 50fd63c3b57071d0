package model

import (
	"testing"

	"github.com/jobster/jobster/core/apierror"
)

func intp(i int) *int { return &i }

func TestCompanyFilterValidate(t *testing.T) {
	if err := (CompanyFilter{}).Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (CompanyFilter{MinEmployees: intp(3), MaxEmployees: intp(10)}).Validate(); err != nil {
		t.Fatal(err)
	}
	err := (CompanyFilter{MinEmployees: intp(10), MaxEmployees: intp(3)}).Validate()
	if !apierror.IsKind(err, apierror.KindInvalidParameters) {
		t.Fatalf("inverted bounds must be invalid parameters, got %v", err)
	}
	if apierror.From(err).Message != "Check that your parameters are correct." {
		t.Fatalf("unexpected message: %s", apierror.From(err).Message)
	}
}

func TestCheckPatchFields(t *testing.T) {
	allowed := []string{"name", "num_employees"}

	if err := checkPatchFields(map[string]interface{}{"name": "x"}, allowed); err != nil {
		t.Fatal(err)
	}

	// request credentials are ignored, not rejected
	fields := map[string]interface{}{"_token": "abc", "_username": "admin1", "name": "x"}
	if err := checkPatchFields(fields, allowed); err != nil {
		t.Fatal(err)
	}

	err := checkPatchFields(map[string]interface{}{"handle": "evil"}, allowed)
	if !apierror.IsKind(err, apierror.KindInvalidParameters) {
		t.Fatalf("unknown field must be invalid parameters, got %v", err)
	}

	// credentials alone are not an update
	err = checkPatchFields(map[string]interface{}{"_token": "abc"}, allowed)
	if !apierror.IsKind(err, apierror.KindInvalidParameters) {
		t.Fatalf("empty patch must be invalid parameters, got %v", err)
	}
}
