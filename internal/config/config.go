// go-rig
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rig.
//
// go-rig is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rig is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rig; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package config loads the rig profile used by the command line tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// EnvConfig names the environment variable holding the profile path.
const EnvConfig = "RIG_CONFIG"

// Config is a complete rig profile.
type Config struct {
	Rig  RigConfig  `yaml:"rig"`
	Port PortConfig `yaml:"port"`
	PTT  PTTConfig  `yaml:"ptt"`
	Log  LogConfig  `yaml:"log"`
	Poll PollConfig `yaml:"poll"`
}

// RigConfig selects the model and overrides its protocol defaults.
type RigConfig struct {
	// Address is the CI-V address, e.g. "0x94". Empty uses the model default.
	Address string `yaml:"address"`
	// ControllerAddress is our own bus address. Empty uses E0.
	ControllerAddress string `yaml:"controllerAddress"`
	Model             int    `yaml:"model"`
	TimeoutMs         int    `yaml:"timeoutMs"`
	// Retries overrides the model's retry count; -1 keeps it.
	Retries int  `yaml:"retries"`
	Echo    bool `yaml:"echo"`
	Pad     bool `yaml:"pad"`
}

// PortConfig describes the link to the rig.
type PortConfig struct {
	// Type is "serial" or "tcp".
	Type string `yaml:"type"`
	// Path is the serial device, or host:port for tcp.
	Path     string `yaml:"path"`
	Baud     int    `yaml:"baud"`
	StopBits int    `yaml:"stopBits"`
	NoLock   bool   `yaml:"noLock"`
}

// PTTConfig selects how the transmitter is keyed.
type PTTConfig struct {
	// Type is "cat", "rts", "dtr" or "gpio".
	Type      string `yaml:"type"`
	Pin       string `yaml:"pin"`
	ActiveLow bool   `yaml:"activeLow"`
}

// LogConfig controls logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// PollConfig controls the monitor command.
type PollConfig struct {
	IntervalMs   int `yaml:"intervalMs"`
	OfflineAfter int `yaml:"offlineAfter"`
}

// Load builds the profile from defaults, then the file at path (or
// $RIG_CONFIG when path is empty), then RIG_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in profile.
func Default() *Config {
	return &Config{
		Rig: RigConfig{
			Retries: -1,
		},
		Port: PortConfig{
			Type: "serial",
			Baud: 19200,
		},
		PTT: PTTConfig{
			Type: "cat",
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Poll: PollConfig{
			IntervalMs:   250,
			OfflineAfter: 3,
		},
	}
}

func loadFromFile(cfg *Config, filename string) error {
	//nolint:gosec // the profile path is chosen by the user
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		dst  *int
		name string
	}{
		{&cfg.Rig.Model, "RIG_MODEL"},
		{&cfg.Rig.TimeoutMs, "RIG_TIMEOUT_MS"},
		{&cfg.Rig.Retries, "RIG_RETRIES"},
		{&cfg.Port.Baud, "RIG_BAUD"},
	}
	for _, v := range ints {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", v.name, s, err)
		}
		*v.dst = n
	}

	strs := []struct {
		dst  *string
		name string
	}{
		{&cfg.Rig.Address, "RIG_ADDRESS"},
		{&cfg.Port.Type, "RIG_PORT_TYPE"},
		{&cfg.Port.Path, "RIG_PORT"},
		{&cfg.PTT.Type, "RIG_PTT"},
		{&cfg.PTT.Pin, "RIG_PTT_PIN"},
		{&cfg.Log.Level, "RIG_LOG_LEVEL"},
		{&cfg.Log.File, "RIG_LOG_FILE"},
	}
	for _, v := range strs {
		if s := os.Getenv(v.name); s != "" {
			*v.dst = s
		}
	}
	return nil
}

var (
	validPortTypes = []string{"serial", "tcp"}
	validPTTTypes  = []string{"cat", "rts", "dtr", "gpio"}
	validLevels    = []string{"debug", "info", "warn", "error"}
)

// Validate checks the profile for values no rig accepts.
func (c *Config) Validate() error {
	if c.Rig.Model < 0 {
		return fmt.Errorf("invalid model %d", c.Rig.Model)
	}
	if _, _, err := c.Address(); err != nil {
		return err
	}
	if _, _, err := c.ControllerAddress(); err != nil {
		return err
	}
	if c.Rig.TimeoutMs < 0 || c.Rig.TimeoutMs > 60_000 {
		return fmt.Errorf("timeout %dms is outside reasonable range [0, 60000]", c.Rig.TimeoutMs)
	}
	if c.Rig.Retries < -1 || c.Rig.Retries > 20 {
		return fmt.Errorf("retries %d is outside reasonable range [-1, 20]", c.Rig.Retries)
	}

	if !contains(validPortTypes, c.Port.Type) {
		return fmt.Errorf("invalid port type %q, must be one of: %v", c.Port.Type, validPortTypes)
	}
	if c.Port.Type == "serial" && (c.Port.Baud < 300 || c.Port.Baud > 115200) {
		return fmt.Errorf("baud rate %d is outside supported range [300, 115200]", c.Port.Baud)
	}
	if c.Port.StopBits != 0 && c.Port.StopBits != 1 && c.Port.StopBits != 2 {
		return fmt.Errorf("invalid stop bits %d", c.Port.StopBits)
	}

	if !contains(validPTTTypes, c.PTT.Type) {
		return fmt.Errorf("invalid ptt type %q, must be one of: %v", c.PTT.Type, validPTTTypes)
	}
	if c.PTT.Type == "gpio" && c.PTT.Pin == "" {
		return fmt.Errorf("ptt type gpio needs a pin")
	}
	if (c.PTT.Type == "rts" || c.PTT.Type == "dtr") && c.Port.Type != "serial" {
		return fmt.Errorf("ptt type %s needs a serial port", c.PTT.Type)
	}

	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level %q, must be one of: %v", c.Log.Level, validLevels)
	}
	if c.Poll.IntervalMs <= 0 {
		return fmt.Errorf("poll interval must be positive, got %dms", c.Poll.IntervalMs)
	}
	return nil
}

// Address returns the configured rig address and whether one was set.
func (c *Config) Address() (byte, bool, error) {
	return parseAddress("address", c.Rig.Address)
}

// ControllerAddress returns the configured controller address and
// whether one was set.
func (c *Config) ControllerAddress() (byte, bool, error) {
	return parseAddress("controllerAddress", c.Rig.ControllerAddress)
}

// Timeout returns the reply timeout override, zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Rig.TimeoutMs) * time.Millisecond
}

// PollInterval returns the monitor interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMs) * time.Millisecond
}

// parseAddress accepts "0x94", "94h" and plain hex "94".
func parseAddress(field, s string) (byte, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(s), "0x"), "h")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if v == 0 || v >= 0xFA {
		return 0, false, fmt.Errorf("invalid %s %02X: reserved bus address", field, v)
	}
	return byte(v), true, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
