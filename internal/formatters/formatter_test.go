// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"strings"
	"testing"

	"invoice-scan/internal/analyzer"
)

type stubFormatter struct {
	name string
}

func (s stubFormatter) Format(result *analyzer.Result, options FormatterOptions) (string, error) {
	return "formatted by " + s.name, nil
}
func (s stubFormatter) Name() string          { return s.name }
func (s stubFormatter) Description() string   { return "stub" }
func (s stubFormatter) FileExtension() string { return "." + s.name }

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(stubFormatter{name: "stub"})

	f, ok := registry.Get("stub")
	if !ok {
		t.Fatal("expected the registered formatter")
	}
	if f.Name() != "stub" {
		t.Errorf("name = %q", f.Name())
	}

	if _, ok := registry.Get("absent"); ok {
		t.Error("did not expect an unregistered formatter")
	}

	names := registry.List()
	if len(names) != 1 || names[0] != "stub" {
		t.Errorf("List = %v, want [stub]", names)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export("no-such-format", &analyzer.Result{}, FormatterOptions{})
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
	if !strings.Contains(err.Error(), "no-such-format") {
		t.Errorf("error should name the requested format: %v", err)
	}
}
