package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/rnwolfe/tally/internal/config"
)

func TestCheckConfig_Missing(t *testing.T) {
	configTestEnv(t)

	r := checkConfig()
	if r.ok {
		t.Fatal("expected checkConfig to fail when no config exists")
	}
	if r.name != "Config" {
		t.Errorf("expected name 'Config', got %q", r.name)
	}
	if !strings.Contains(r.fixHint, "tally init") {
		t.Errorf("expected fix hint to mention 'tally init', got: %q", r.fixHint)
	}
}

func TestCheckConfig_Present(t *testing.T) {
	configTestEnv(t)

	if err := config.Save(&config.Config{User: config.UserConfig{Name: "Test User"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r := checkConfig()
	if !r.ok {
		t.Fatalf("expected checkConfig to pass, got detail: %q", r.detail)
	}
	if !strings.Contains(r.detail, "config.toml") {
		t.Errorf("expected detail to mention config.toml, got: %q", r.detail)
	}
}

func TestCheckUser(t *testing.T) {
	if r := checkUser(nil); r.ok {
		t.Error("nil config should fail")
	}
	if r := checkUser(&config.Config{}); r.ok {
		t.Error("missing id should fail")
	}
	cfg := &config.Config{User: config.UserConfig{Name: "Ada", ID: "0123456789abcdef"}}
	r := checkUser(cfg)
	if !r.ok || !strings.Contains(r.detail, "01234567") {
		t.Errorf("checkUser = %+v", r)
	}
}

func TestCheckStore(t *testing.T) {
	configTestEnv(t)

	if r := checkStore(nil); r.ok {
		t.Error("nil config should fail")
	}

	cfg, _ := config.Load()
	r := checkStore(cfg)
	if !r.ok || !strings.Contains(r.detail, "sqlite") {
		t.Fatalf("checkStore = %+v", r)
	}

	cfg.Store.Driver = "mysql"
	if r := checkStore(cfg); r.ok {
		t.Error("unknown driver should fail")
	}
}

func TestCheckTemplate(t *testing.T) {
	newTally(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	r := checkTemplate(context.Background(), cfg)
	if !r.ok || !strings.Contains(r.detail, "Daily active with 0 habits") {
		t.Errorf("checkTemplate = %+v", r)
	}

	cfg.User.ID = "someone-else"
	if r := checkTemplate(context.Background(), cfg); r.ok {
		t.Error("a user with no templates should fail")
	}
}

func TestRunDoctor(t *testing.T) {
	newTally(t)

	out, err := run(t, func() error { return runDoctor(nil, nil) })
	if err != nil {
		t.Fatalf("runDoctor: %v\n%s", err, out)
	}
	for _, want := range []string{"Config", "User", "Store", "Template", "Logs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunDoctor_BeforeInit(t *testing.T) {
	configTestEnv(t)

	out, err := run(t, func() error { return runDoctor(nil, nil) })
	if err == nil {
		t.Fatal("expected failure before init")
	}
	if !strings.Contains(out, "tally init") {
		t.Errorf("output should suggest init: %q", out)
	}
}
