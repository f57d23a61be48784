package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.TVPort != 3001 || !c.TLS || !c.TLSInsecure {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.KeyDir != "keys" || c.Port != 8080 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.WatchdogInterval != 2*time.Second {
		t.Fatalf("watchdog interval = %v", c.WatchdogInterval)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvbridge.yaml")
	data := []byte("tv_addr: 10.0.0.5\ntv_port: 3000\ntls: false\nwatchdog_output: external_arc\nwatchdog_interval: 5s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c := Default()
	c.ConfigFile = path
	if err := c.loadFile(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.TVAddr != "10.0.0.5" || c.TVPort != 3000 || c.TLS {
		t.Fatalf("file not applied: %+v", c)
	}
	if c.WatchdogOutput != "external_arc" || c.WatchdogInterval != 5*time.Second {
		t.Fatalf("watchdog settings not applied: %+v", c)
	}
	// Untouched keys keep their defaults.
	if c.KeyDir != "keys" {
		t.Fatalf("key dir = %q", c.KeyDir)
	}
}

func TestLoadFileMissingIsFine(t *testing.T) {
	c := Default()
	c.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	if err := c.loadFile(); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tv_addr: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c := Default()
	c.ConfigFile = path
	if err := c.loadFile(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateRequiresAddr(t *testing.T) {
	c := Default()
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error without tv address")
	}
	c.TVAddr = "10.0.0.5"
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TV_ADDR", "192.168.1.50")
	t.Setenv("TV_PORT", "3000")
	t.Setenv("TLS_INSECURE", "false")
	t.Setenv("WATCHDOG_INTERVAL", "3s")

	// BindFlags registers flags on the global FlagSet, so it can run only
	// once per process; this is the one test that calls it.
	var c Config
	if err := c.BindFlags(); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if c.TVAddr != "192.168.1.50" || c.TVPort != 3000 {
		t.Fatalf("env not applied: %+v", c)
	}
	if c.TLSInsecure {
		t.Fatalf("tls_insecure should be false")
	}
	if c.WatchdogInterval != 3*time.Second {
		t.Fatalf("watchdog interval = %v", c.WatchdogInterval)
	}
}
