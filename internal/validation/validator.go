// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance.
//
// Example:
//
//	type TrendingRequest struct {
//	    WindowDays int `validate:"min=0,max=36500"`
//	    Limit      int `validate:"min=1,max=50"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/oneirolog/oneirolog/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Errors aggregates per-field validation failures.
type Errors struct {
	fields []fieldError
}

type fieldError struct {
	field string
	tag   string
	param string
}

// Error implements the error interface.
func (e *Errors) Error() string {
	msgs := make([]string, len(e.fields))
	for i, fe := range e.fields {
		msgs[i] = fe.message()
	}
	return strings.Join(msgs, "; ")
}

// ToAPIError converts the validation failures into the standard API error
// shape with one detail entry per failing field.
func (e *Errors) ToAPIError() *models.APIError {
	details := make(map[string]string, len(e.fields))
	for _, fe := range e.fields {
		details[fe.field] = fe.message()
	}
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: "Request validation failed",
		Details: details,
	}
}

func (fe fieldError) message() string {
	switch fe.tag {
	case "required":
		return fmt.Sprintf("%s is required", fe.field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.field, fe.param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.field, fe.param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.field, fe.param)
	default:
		return fmt.Sprintf("%s failed %s validation", fe.field, fe.tag)
	}
}

// instance returns the singleton validator, creating it on first use.
// The singleton caches struct metadata, so reuse matters for performance.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates v against its `validate` struct tags. It returns
// nil when validation passes.
func ValidateStruct(v interface{}) *Errors {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: v was not a struct. Programmer error,
		// reported as a single opaque failure.
		return &Errors{fields: []fieldError{{field: "request", tag: "invalid"}}}
	}

	out := &Errors{fields: make([]fieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.fields = append(out.fields, fieldError{
			field: fe.Field(),
			tag:   fe.Tag(),
			param: fe.Param(),
		})
	}
	return out
}
