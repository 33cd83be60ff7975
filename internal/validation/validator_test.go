// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package validation

import (
	"strings"
	"testing"
)

type trendingParams struct {
	WindowDays int `validate:"min=0,max=36500"`
	Limit      int `validate:"min=1,max=50"`
}

type activityBody struct {
	Type string `validate:"required,oneof=view like dislike"`
}

func TestValidateStructPasses(t *testing.T) {
	if verr := ValidateStruct(&trendingParams{WindowDays: 7, Limit: 5}); verr != nil {
		t.Errorf("expected nil, got %v", verr)
	}
	if verr := ValidateStruct(&activityBody{Type: "like"}); verr != nil {
		t.Errorf("expected nil, got %v", verr)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantField string
	}{
		{"limit too small", &trendingParams{WindowDays: 7, Limit: 0}, "Limit"},
		{"limit too large", &trendingParams{WindowDays: 7, Limit: 51}, "Limit"},
		{"window negative", &trendingParams{WindowDays: -1, Limit: 5}, "WindowDays"},
		{"window too large", &trendingParams{WindowDays: 36501, Limit: 5}, "WindowDays"},
		{"missing type", &activityBody{}, "Type"},
		{"bad type", &activityBody{Type: "share"}, "Type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.value)
			if verr == nil {
				t.Fatal("expected validation error, got nil")
			}
			apiErr := verr.ToAPIError()
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
			}
			if _, ok := apiErr.Details[tt.wantField]; !ok {
				t.Errorf("details missing field %q: %v", tt.wantField, apiErr.Details)
			}
		})
	}
}

func TestValidateStructOneofMessage(t *testing.T) {
	verr := ValidateStruct(&activityBody{Type: "poke"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(verr.Error(), "one of") {
		t.Errorf("error = %q, want oneof hint", verr.Error())
	}
}
