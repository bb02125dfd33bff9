// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name string `validate:"required,min=3"`
	Port int    `validate:"gte=1,lte=65535"`
	Mode string `validate:"oneof=development production"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{Name: "harborview", Port: 3950, Mode: "production"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestValidateStructCollectsAllFailures(t *testing.T) {
	req := sampleRequest{Name: "x", Port: 0, Mode: "staging"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(err.Errors()), err)
	}
	if !strings.Contains(err.Error(), "Mode must be one of") {
		t.Errorf("expected oneof message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "at least 3 characters") {
		t.Errorf("expected min-length message, got %q", err.Error())
	}
}

func TestGetValidatorIsSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("expected the same validator instance")
	}
}
