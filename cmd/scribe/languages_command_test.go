package main

import (
	"encoding/json"
	"testing"
)

func TestLanguagesTable(t *testing.T) {
	out, _, err := runCLI(t, []string{"languages"}, "")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	requireContains(t, out, "VOXPOPULI_ASR_BASE_10K_FR")
	requireContains(t, out, "French")
	requireContains(t, out, "huggingface")
}

func TestLanguagesJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"languages", "--json"}, "")
	if err != nil {
		t.Fatalf("languages --json: %v", err)
	}
	var entries []struct {
		Code   string `json:"code"`
		Model  string `json:"model"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(entries) == 0 || entries[0].Code >= entries[len(entries)-1].Code {
		t.Fatalf("expected entries sorted by code, got %+v", entries)
	}
	found := false
	for _, e := range entries {
		if e.Code == "en" {
			found = e.Source == "torchaudio" && e.Model == "WAV2VEC2_ASR_BASE_960H"
		}
	}
	if !found {
		t.Fatalf("english alignment model missing: %+v", entries)
	}
}
