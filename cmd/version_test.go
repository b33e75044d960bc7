package cmd

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"
)

func TestWriteVersion(t *testing.T) {
	t.Parallel()

	info := versionInfo{App: app, Version: "v1.2.0", Go: "go1.24.5"}

	var plain bytes.Buffer
	if err := writeVersion(&plain, info, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "jobsai version: v1.2.0 (go1.24.5)\n"; plain.String() != want {
		t.Fatalf("expected %q, got %q", want, plain.String())
	}

	var structured bytes.Buffer
	if err := writeVersion(&structured, info, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got versionInfo
	if err := json.Unmarshal(structured.Bytes(), &got); err != nil {
		t.Fatalf("decoding %q: %v", structured.String(), err)
	}
	if got != info {
		t.Fatalf("expected %+v, got %+v", info, got)
	}
}

func TestCurrentVersionReportsToolchain(t *testing.T) {
	t.Parallel()

	info := currentVersion()
	if info.App != app || info.Go != runtime.Version() || info.Version == "" {
		t.Fatalf("unexpected version info: %+v", info)
	}
}
