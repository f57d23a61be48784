package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration. Precedence, lowest to highest:
// built-in defaults, YAML config file, environment, command line flags.
type Config struct {
	TVAddr      string `yaml:"tv_addr"`
	TVPort      int    `yaml:"tv_port"`
	TVMAC       string `yaml:"tv_mac"`
	TLS         bool   `yaml:"tls"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	KeyDir      string `yaml:"key_dir"`

	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	WatchdogOutput      string        `yaml:"watchdog_output"`
	WatchdogInterval    time.Duration `yaml:"watchdog_interval"`
	WatchdogQuirkTriple bool          `yaml:"watchdog_quirk_triple"`

	ConfigFile string `yaml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		TVPort:           3001,
		TLS:              true,
		TLSInsecure:      true,
		KeyDir:           "keys",
		Port:             8080,
		LogLevel:         "info",
		WatchdogInterval: 2 * time.Second,
	}
}

// BindFlags populates the struct from the config file and environment
// and binds command line flags so main can call flag.Parse().
func (c *Config) BindFlags() error {
	*c = Default()

	c.ConfigFile = getEnv("CONFIG_FILE", "")
	if err := c.loadFile(); err != nil {
		return err
	}

	c.TVAddr = getEnv("TV_ADDR", c.TVAddr)
	if v, err := strconv.Atoi(getEnv("TV_PORT", strconv.Itoa(c.TVPort))); err == nil {
		c.TVPort = v
	}
	c.TVMAC = getEnv("TV_MAC", c.TVMAC)
	c.TLS = getBool("TLS", c.TLS)
	c.TLSInsecure = getBool("TLS_INSECURE", c.TLSInsecure)
	c.KeyDir = getEnv("KEY_DIR", c.KeyDir)
	if v, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(c.Port))); err == nil {
		c.Port = v
	}
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.WatchdogOutput = getEnv("WATCHDOG_OUTPUT", c.WatchdogOutput)
	if d, err := time.ParseDuration(getEnv("WATCHDOG_INTERVAL", c.WatchdogInterval.String())); err == nil {
		c.WatchdogInterval = d
	}
	c.WatchdogQuirkTriple = getBool("WATCHDOG_QUIRK_TRIPLE", c.WatchdogQuirkTriple)

	flag.StringVar(&c.TVAddr, "tv-addr", c.TVAddr, "tv address")
	flag.IntVar(&c.TVPort, "tv-port", c.TVPort, "tv websocket port")
	flag.StringVar(&c.TVMAC, "tv-mac", c.TVMAC, "tv mac address for wake-on-lan")
	flag.BoolVar(&c.TLS, "tls", c.TLS, "connect with tls")
	flag.BoolVar(&c.TLSInsecure, "tls-insecure", c.TLSInsecure, "accept the tv's self-signed certificate")
	flag.StringVar(&c.KeyDir, "key-dir", c.KeyDir, "directory holding pairing credentials")
	flag.IntVar(&c.Port, "port", c.Port, "http listen port")
	flag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	flag.StringVar(&c.WatchdogOutput, "watchdog-output", c.WatchdogOutput, "sound output to enforce at startup; empty disables the watchdog")
	flag.DurationVar(&c.WatchdogInterval, "watchdog-interval", c.WatchdogInterval, "watchdog poll interval")
	flag.BoolVar(&c.WatchdogQuirkTriple, "watchdog-quirk-triple", c.WatchdogQuirkTriple, "issue the triple correction sequence on failed corrections")
	return nil
}

// Validate checks the fields main cannot run without.
func (c *Config) Validate() error {
	if c.TVAddr == "" {
		return fmt.Errorf("tv address is required (TV_ADDR or --tv-addr)")
	}
	return nil
}

func (c *Config) loadFile() error {
	if c.ConfigFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.ConfigFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
