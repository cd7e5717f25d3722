package keybinds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_AllowsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	data := `{
  // emacs style
  "browse": {
    "ctrl+n": "navigate_down",
    "ctrl+p": "navigate_up", /* trailing comma next */
  },
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got := config.Browse["ctrl+n"]; got != "navigate_down" {
		t.Errorf("browse ctrl+n = %q, want %q", got, "navigate_down")
	}
	if len(config.Browse) != 2 {
		t.Errorf("browse has %d bindings, want 2", len(config.Browse))
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := os.WriteFile(path, []byte(`{"browse": [1, 2]}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() error = nil, want format error")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	r, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if got, _ := r.Match(ContextBrowse, "q"); got != ActionQuit {
		t.Errorf("q = %q, want default %q", got, ActionQuit)
	}
}

func TestLoadOrDefault_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	data := `{"browse": {"d": "noop", "ctrl+x": "remove_chord"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if got, _ := r.Match(ContextBrowse, "d"); got != ActionNoOp {
		t.Errorf("d = %q, want %q", got, ActionNoOp)
	}
	if got, _ := r.Match(ContextBrowse, "ctrl+x"); got != ActionRemoveChord {
		t.Errorf("ctrl+x = %q, want %q", got, ActionRemoveChord)
	}
	if got, _ := r.Match(ContextBrowse, "j"); got != ActionNavigateDown {
		t.Errorf("j = %q, want default %q", got, ActionNavigateDown)
	}
}

func TestLoadOrDefault_UnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := os.WriteFile(path, []byte(`{"browse": {"e": "execute"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadOrDefault(path)
	if err == nil {
		t.Fatal("LoadOrDefault() error = nil, want unknown action")
	}
	if !strings.Contains(err.Error(), "execute") {
		t.Errorf("error = %q, want mention of the action", err.Error())
	}
}

func TestApplyConfig_CustomContext(t *testing.T) {
	r := NewRegistry()
	config := &Config{
		Custom: map[string]map[string]string{
			"help": {"q": "quit"},
		},
	}
	if err := ApplyConfig(r, config); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}
	if got, ok := r.MatchLocal(Context("help"), "q"); !ok || got != ActionQuit {
		t.Errorf("help q = (%q, %v), want (%q, true)", got, ok, ActionQuit)
	}
}

func TestCreateExampleConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybinds.json")
	if err := CreateExampleConfig(path); err != nil {
		t.Fatalf("CreateExampleConfig() error = %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Version != ConfigVersion {
		t.Errorf("Version = %q, want %q", config.Version, ConfigVersion)
	}
	if got := config.Capture["enter"]; got != string(ActionCaptureFinish) {
		t.Errorf("capture enter = %q, want %q", got, ActionCaptureFinish)
	}

	r := NewRegistry()
	if err := ApplyConfig(r, config); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}
	if result := NewValidator().ValidateRegistry(r); result.HasErrors() || result.HasWarnings() {
		t.Errorf("exported defaults do not validate cleanly:\n%s", result.String())
	}
}
