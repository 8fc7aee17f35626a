package scaffold

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultParamsValidate(t *testing.T) {
	params := DefaultParams()
	if err := params.Validate(); err != nil {
		t.Errorf("DefaultParams().Validate() error = %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(p *Params) {}, false},
		{"custom app name", func(p *Params) { p.AppName = "checkout-api" }, false},
		{"empty app name", func(p *Params) { p.AppName = "" }, true},
		{"uppercase app name", func(p *Params) { p.AppName = "Demo" }, true},
		{"app name with dot", func(p *Params) { p.AppName = "demo.app" }, true},
		{"empty namespace", func(p *Params) { p.Namespace = "" }, true},
		{"empty image", func(p *Params) { p.Image = "" }, true},
		{"empty tag", func(p *Params) { p.Tag = "" }, true},
		{"port zero", func(p *Params) { p.Port = 0 }, true},
		{"port too large", func(p *Params) { p.Port = 70000 }, true},
		{"zero replicas", func(p *Params) { p.Replicas = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)
			err := params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// The generator's contract: for default parameters it emits exactly the
// fixed file set with exactly the expected contents.
func TestRenderMatchesGolden(t *testing.T) {
	rendered, err := Render(DefaultParams())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if len(rendered) != len(Files) {
		t.Errorf("Render() produced %d files, want %d", len(rendered), len(Files))
	}

	for _, file := range Files {
		content, ok := rendered[file.Path]
		if !ok {
			t.Errorf("Render() missing file %s", file.Path)
			continue
		}

		want, err := os.ReadFile(filepath.Join("testdata", "golden", filepath.FromSlash(file.Path)))
		if err != nil {
			t.Fatalf("failed to read golden file for %s: %v", file.Path, err)
		}

		if string(content) != string(want) {
			t.Errorf("Render() content mismatch for %s:\ngot:\n%s\nwant:\n%s", file.Path, content, want)
		}
	}
}

func TestRenderCustomParams(t *testing.T) {
	params := DefaultParams()
	params.AppName = "checkout"
	params.Namespace = "shop"
	params.Image = "registry.example.com/shop/checkout"
	params.Port = 9000

	rendered, err := Render(params)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	rollout := string(rendered["manifests/rollout.yaml"])
	for _, want := range []string{
		"name: checkout",
		"namespace: shop",
		"image: registry.example.com/shop/checkout:blue",
		"containerPort: 9000",
		"activeService: checkout-active",
		"previewService: checkout-preview",
	} {
		if !strings.Contains(rollout, want) {
			t.Errorf("rollout.yaml missing %q:\n%s", want, rollout)
		}
	}

	inspect := string(rendered["scripts/inspect.sh"])
	if !strings.Contains(inspect, "-l app=checkout") {
		t.Errorf("inspect.sh missing app selector:\n%s", inspect)
	}
}

func TestRenderedManifestsAreValidYAML(t *testing.T) {
	rendered, err := Render(DefaultParams())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, path := range []string{"manifests/rollout.yaml", "manifests/services.yaml", ".github/workflows/build.yaml"} {
		decoder := yaml.NewDecoder(bytes.NewReader(rendered[path]))
		for {
			var doc yaml.Node
			err := decoder.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Errorf("%s is not valid YAML: %v", path, err)
				break
			}
		}
	}

	var rollout struct {
		Kind string `yaml:"kind"`
		Spec struct {
			Strategy struct {
				BlueGreen struct {
					ActiveService        string `yaml:"activeService"`
					PreviewService       string `yaml:"previewService"`
					AutoPromotionEnabled *bool  `yaml:"autoPromotionEnabled"`
				} `yaml:"blueGreen"`
			} `yaml:"strategy"`
		} `yaml:"spec"`
	}
	if err := yaml.Unmarshal(rendered["manifests/rollout.yaml"], &rollout); err != nil {
		t.Fatalf("failed to unmarshal rollout.yaml: %v", err)
	}
	if rollout.Kind != "Rollout" {
		t.Errorf("rollout.yaml kind = %s, want Rollout", rollout.Kind)
	}
	if rollout.Spec.Strategy.BlueGreen.ActiveService != "demo-app-active" {
		t.Errorf("activeService = %s, want demo-app-active", rollout.Spec.Strategy.BlueGreen.ActiveService)
	}
	if rollout.Spec.Strategy.BlueGreen.PreviewService != "demo-app-preview" {
		t.Errorf("previewService = %s, want demo-app-preview", rollout.Spec.Strategy.BlueGreen.PreviewService)
	}
	if rollout.Spec.Strategy.BlueGreen.AutoPromotionEnabled == nil || *rollout.Spec.Strategy.BlueGreen.AutoPromotionEnabled {
		t.Error("autoPromotionEnabled should be explicitly false")
	}
}

func TestRenderInvalidParams(t *testing.T) {
	params := DefaultParams()
	params.AppName = "Not A Label"

	if _, err := Render(params); err == nil {
		t.Error("Render() should fail for invalid params")
	}
}

func TestWriteFileSet(t *testing.T) {
	dir := t.TempDir()

	written, err := Write(dir, DefaultParams())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var wantPaths []string
	for _, file := range Files {
		wantPaths = append(wantPaths, file.Path)
	}

	got := append([]string{}, written...)
	sort.Strings(got)
	want := append([]string{}, wantPaths...)
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("Write() wrote %d files, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Write() wrote %s, want %s", got[i], want[i])
		}
	}

	// Nothing beyond the fixed set may appear on disk.
	var onDisk []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		onDisk = append(onDisk, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk output dir: %v", err)
	}
	sort.Strings(onDisk)
	if len(onDisk) != len(want) {
		t.Errorf("output dir has %d files, want %d: %v", len(onDisk), len(want), onDisk)
	}
}

func TestWriteScriptsExecutable(t *testing.T) {
	dir := t.TempDir()

	if _, err := Write(dir, DefaultParams()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, script := range []string{"scripts/cluster-up.sh", "scripts/inspect.sh"} {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(script)))
		if err != nil {
			t.Fatalf("failed to stat %s: %v", script, err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Errorf("%s mode = %v, want executable", script, info.Mode())
		}
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	dir := t.TempDir()

	target := filepath.Join(dir, "Dockerfile")
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatalf("failed to seed stale file: %v", err)
	}

	if _, err := Write(dir, DefaultParams()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read Dockerfile: %v", err)
	}
	if string(content) == "stale" {
		t.Error("Write() should overwrite existing files")
	}
}

func TestWriteUnwritablePath(t *testing.T) {
	dir := t.TempDir()

	// A regular file where a directory is needed makes MkdirAll fail.
	if err := os.WriteFile(filepath.Join(dir, "app"), []byte("in the way"), 0o644); err != nil {
		t.Fatalf("failed to create blocking file: %v", err)
	}

	if _, err := Write(dir, DefaultParams()); err == nil {
		t.Error("Write() should propagate filesystem errors")
	}
}
