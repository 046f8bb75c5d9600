package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ilrskema/config"
)

var want = &config.Config{
	RecordPath: "Message/Learner",
	Mapping:    map[string]string{"Postcode": "Message/Learner/Postcode"},
	Provider:   config.Provider{UKPRN: "10012345", Name: "Example College"},
	Workers:    4,
	Language:   "ja",
}

var sources = map[string]string{
	"run.yaml": `
recordPath: Message/Learner
mapping:
  Postcode: Message/Learner/Postcode
provider:
  ukprn: "10012345"
  name: Example College
workers: 4
language: ja
`,
	"run.toml": `
recordPath = "Message/Learner"
workers = 4
language = "ja"

[mapping]
Postcode = "Message/Learner/Postcode"

[provider]
ukprn = "10012345"
name = "Example College"
`,
	"run.json": `{
  "recordPath": "Message/Learner",
  "mapping": {"Postcode": "Message/Learner/Postcode"},
  "provider": {"ukprn": "10012345", "name": "Example College"},
  "workers": 4,
  "language": "ja"
}`,
}

func TestLoad_AllFormats(t *testing.T) {
	dir := t.TempDir()
	for name, body := range sources {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := config.Load(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoad_SchemaPathIsRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yml")
	if err := os.WriteFile(path, []byte("schema: ILR-2025-26.xsd\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Schema != filepath.Join(dir, "ILR-2025-26.xsd") {
		t.Fatalf("unexpected schema path %q", cfg.Schema)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		format config.Format
		body   string
	}{
		{"unknown yaml key", config.FormatYAML, "workerz: 2\n"},
		{"unknown toml key", config.FormatTOML, "workerz = 2\n"},
		{"unknown json key", config.FormatJSON, `{"workerz": 2}`},
		{"negative workers", config.FormatYAML, "workers: -1\n"},
		{"language", config.FormatYAML, "language: fr\n"},
		{"ukprn", config.FormatYAML, "provider: {ukprn: '123'}\n"},
	}
	for _, tc := range cases {
		if _, err := config.Parse([]byte(tc.body), tc.format); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
	_, err := config.Parse([]byte("workers: -1\nlanguage: fr\n"), config.FormatYAML)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := config.Load(""); !errors.Is(err, config.ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestConfig_Options(t *testing.T) {
	opts := want.Options(nil)
	if opts.RecordPath != want.RecordPath || opts.Workers != 4 || opts.Mapping["Postcode"] != want.Mapping["Postcode"] {
		t.Fatalf("options lost settings: %+v", opts)
	}
	opts.Mapping["Postcode"] = "changed"
	if want.Mapping["Postcode"] == "changed" {
		t.Fatalf("options must not share the mapping with the config")
	}
	if msg := opts.Translator.Message("required", map[string]string{"field": "ULN"}); msg != "ULN は必須です" {
		t.Fatalf("language not applied: %q", msg)
	}
	empty, err := config.Parse(nil, config.FormatAuto)
	if err != nil {
		t.Fatalf("empty config should parse: %v", err)
	}
	if empty.Options(nil).Translator == nil {
		t.Fatalf("translator should default to english")
	}
}
