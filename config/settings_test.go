package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings != Defaults() {
		t.Errorf("got %+v, want defaults", settings)
	}
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	data := `{"window": {"width": 640, "height": 480}, "globe": {"startZoom": 4}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.Window.Width != 640 || settings.Window.Height != 480 {
		t.Errorf("window = %+v, want 640x480", settings.Window)
	}
	if settings.Globe.StartZoom != 4 {
		t.Errorf("startZoom = %v, want 4", settings.Globe.StartZoom)
	}
	if settings.Server.Port != Defaults().Server.Port {
		t.Errorf("port = %d, want default %d", settings.Server.Port, Defaults().Server.Port)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
