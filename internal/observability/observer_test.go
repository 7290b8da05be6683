// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"strings"
	"testing"
)

func TestStartTiming_DebugEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	observer := NewStandardObserver(ObservabilityDebug, &buf)

	finish := observer.StartTiming("analyzer", "analyze", "invoice.txt")
	finish(true, map[string]interface{}{"language": "polish"})

	out := buf.String()
	for _, want := range []string{`"component":"analyzer"`, `"operation":"analyze"`, `"success":true`, `"language":"polish"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestLogOperation_OffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	observer := NewStandardObserver(ObservabilityOff, &buf)

	observer.LogOperation(StandardObservabilityData{Component: "analyzer", Success: true})
	if buf.Len() != 0 {
		t.Errorf("expected no output when off, got %q", buf.String())
	}
}

func TestDebugObserver_StepsAndCandidates(t *testing.T) {
	var buf bytes.Buffer
	debug := NewDebugObserver(&buf)

	finish := debug.StartStep("analyzer", "analyze", "invoice.txt")
	debug.LogDetail("vendor", "no candidates")
	debug.LogCandidate("amount", "123,45", 0.82)
	finish(true, "8 fields")

	out := buf.String()
	for _, want := range []string{
		"analyzer: analyze (invoice.txt)",
		"vendor: no candidates",
		`amount: "123,45" (0.82)`,
		"analyzer: analyze completed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
