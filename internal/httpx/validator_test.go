package httpx

import (
	"strings"
	"testing"
)

type testStruct struct {
	Email  string `validate:"required,email"`
	Name   string `validate:"required,min=3,max=50"`
	Phone  string `validate:"omitempty,phone"`
	Slug   string `validate:"omitempty,slug"`
	Rating int    `validate:"gte=1,lte=5"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	s := testStruct{
		Email:  "test@example.com",
		Name:   "tester",
		Phone:  "+62 812-3456-7890",
		Slug:   "hello-world-2",
		Rating: 4,
	}

	if errs := ValidateStruct(s); len(errs) != 0 {
		t.Errorf("Expected no validation errors, got %v", errs)
	}
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	errs := ValidateStruct(testStruct{Rating: 3})
	if len(errs) == 0 {
		t.Fatal("Expected validation errors for required fields")
	}

	hasEmailError := false
	hasNameError := false
	for _, err := range errs {
		if err.Field == "email" && strings.Contains(err.Message, "required") {
			hasEmailError = true
		}
		if err.Field == "name" && strings.Contains(err.Message, "required") {
			hasNameError = true
		}
	}

	if !hasEmailError {
		t.Error("Expected email required error")
	}
	if !hasNameError {
		t.Error("Expected name required error")
	}
}

func TestValidateStruct_CustomTags(t *testing.T) {
	testCases := []struct {
		name  string
		s     testStruct
		field string
	}{
		{"bad phone", testStruct{Email: "a@b.co", Name: "abc", Rating: 1, Phone: "call me"}, "phone"},
		{"bad slug", testStruct{Email: "a@b.co", Name: "abc", Rating: 1, Slug: "Not A Slug"}, "slug"},
		{"rating range", testStruct{Email: "a@b.co", Name: "abc", Rating: 9}, "rating"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(tc.s)
			if len(errs) != 1 || errs[0].Field != tc.field {
				t.Errorf("Expected single %s error, got %v", tc.field, errs)
			}
		})
	}
}
