package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rnwolfe/tally/internal/config"
)

// configTestEnv points every XDG dir at a temp dir.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	fn()

	w.Close()
	return string(<-done)
}

func TestRunConfigGet_KnownKey(t *testing.T) {
	configTestEnv(t)

	cfg := &config.Config{User: config.UserConfig{Name: "ada"}}
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runConfigGet(nil, []string{"user.name"}); err != nil {
			t.Errorf("runConfigGet: %v", err)
		}
	})

	if strings.TrimSpace(out) != "ada" {
		t.Fatalf("expected 'ada', got: %q", out)
	}
}

func TestRunConfigGet_Defaults(t *testing.T) {
	configTestEnv(t)

	tests := map[string]string{
		"store.driver": "sqlite",
		"stats.weeks":  "8",
		"stats.months": "6",
		"ui.color":     "true",
		"log.debug":    "false",
	}
	for key, want := range tests {
		out := captureStdout(t, func() {
			if err := runConfigGet(nil, []string{key}); err != nil {
				t.Errorf("runConfigGet(%s): %v", key, err)
			}
		})
		if got := strings.TrimSpace(out); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestRunConfigGet_UnknownKey(t *testing.T) {
	configTestEnv(t)

	err := runConfigGet(nil, []string{"not.a.real.key"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("expected 'unknown config key' in error, got: %v", err)
	}
	// Error should include list of valid keys.
	if !strings.Contains(err.Error(), "stats.weeks") {
		t.Errorf("expected valid keys listed in error, got: %v", err)
	}
}

func TestRunConfigSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		wantErr string
	}{
		{name: "string", key: "user.name", value: "Grace", want: "Grace"},
		{name: "int in range", key: "stats.weeks", value: "12", want: "12"},
		{name: "int out of range", key: "stats.weeks", value: "53", wantErr: "between 1 and 52"},
		{name: "int not a number", key: "stats.months", value: "six", wantErr: "not an integer"},
		{name: "bool alias", key: "ui.color", value: "off", want: "false"},
		{name: "bool invalid", key: "log.debug", value: "maybe", wantErr: "not a boolean"},
		{name: "driver", key: "store.driver", value: "Postgres", want: "postgres"},
		{name: "driver invalid", key: "store.driver", value: "mysql", wantErr: "invalid value"},
		{name: "unknown", key: "ai.model", value: "x", wantErr: "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configTestEnv(t)

			var err error
			captureStdout(t, func() {
				err = runConfigSet(nil, []string{tt.key, tt.value})
			})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				if config.Initialized() {
					t.Error("a rejected value should not write the config file")
				}
				return
			}
			if err != nil {
				t.Fatalf("runConfigSet: %v", err)
			}

			cfg, err := config.Load()
			if err != nil {
				t.Fatal(err)
			}
			entry, _ := config.LookupKey(tt.key)
			if got := entry.Get(cfg); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRunConfigUnset(t *testing.T) {
	configTestEnv(t)

	captureStdout(t, func() {
		if err := runConfigSet(nil, []string{"stats.months", "20"}); err != nil {
			t.Errorf("set: %v", err)
		}
		if err := runConfigUnset(nil, []string{"stats.months"}); err != nil {
			t.Errorf("unset: %v", err)
		}
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stats.Months != config.DefaultMonths {
		t.Errorf("Months = %d, want default %d", cfg.Stats.Months, config.DefaultMonths)
	}
}

func TestRunConfigShow(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigShow(nil, nil); err != nil {
			t.Errorf("runConfigShow: %v", err)
		}
	})

	for _, want := range append(config.ValidKeyNames(), "config.toml", "tally.db") {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestKeyHelpListsEveryKey(t *testing.T) {
	help := keyHelp()
	for _, name := range config.ValidKeyNames() {
		if !strings.Contains(help, name) {
			t.Errorf("help missing %q", name)
		}
	}
}
