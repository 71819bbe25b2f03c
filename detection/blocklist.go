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

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB serial devices that are never rig
// interfaces and may misbehave when CI-V traffic is written to them.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno, resets on open
		"2341:0001", // Arduino Uno (early)
		"1366:0105", // SEGGER J-Link CDC
		"0483:374B", // ST-LINK/V2-1 virtual COM port
	}
}

// knownInterfaces maps the USB bridges found in rigs and CI-V cables to a
// description.
var knownInterfaces = map[string]string{
	"10C4:EA60": "Silicon Labs CP210x (Icom built-in USB)",
	"0403:6001": "FTDI FT232 (CT-17 style cable)",
	"0403:6015": "FTDI FT231X",
	"067B:2303": "Prolific PL2303",
	"1A86:7523": "WCH CH340",
}

// InterfaceName describes a known rig interface bridge.
func InterfaceName(vidpid string) (string, bool) {
	name, ok := knownInterfaces[strings.ToUpper(strings.TrimSpace(vidpid))]
	return name, ok
}

// IsBlocked reports whether vidpid appears in blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = normalizeVIDPID(vidpid)
	if vidpid == "" {
		return false
	}
	for _, blocked := range blocklist {
		if normalizeVIDPID(blocked) == vidpid {
			return true
		}
	}
	return false
}

func normalizeVIDPID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var (
	vidKeys = []string{"VID:", "VID_", "VENDOR=", "VID="}
	pidKeys = []string{"PID:", "PID_", "PRODUCT=", "PID="}
)

// ParseVIDPID extracts VID:PID from descriptor formats such as
// "VID:10C4 PID:EA60", "USB\VID_10C4&PID_EA60" or plain "10C4:EA60".
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(strings.TrimSpace(descriptor))

	vid := valueAfter(descriptor, vidKeys)
	pid := valueAfter(descriptor, pidKeys)
	if vid != "" && pid != "" {
		return vid + ":" + pid
	}

	if parts := strings.Split(descriptor, ":"); len(parts) == 2 && isHex(parts[0]) && isHex(parts[1]) {
		return descriptor
	}
	return ""
}

// FormatVIDPID builds the canonical form from enumerator ids.
func FormatVIDPID(vid, pid string) string {
	if vid == "" || pid == "" {
		return ""
	}
	return normalizeVIDPID(vid) + ":" + normalizeVIDPID(pid)
}

func valueAfter(s string, keys []string) string {
	for _, key := range keys {
		if idx := strings.Index(s, key); idx >= 0 {
			if v := leadingHex(s[idx+len(key):]); v != "" {
				return v
			}
		}
	}
	return ""
}

// leadingHex returns the hex digits s starts with.
func leadingHex(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool { return !isHexRune(r) })
	if end < 0 {
		return s
	}
	return s[:end]
}

func isHexRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func isHex(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !isHexRune(r) }) < 0
}

// IsPathIgnored reports whether devicePath matches one of ignorePaths after
// cleaning. The comparison ignores case so COM port names match on Windows.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := normalizedPath(devicePath)
	for _, ignored := range ignorePaths {
		if ignored != "" && (ignored == devicePath || normalizedPath(ignored) == device) {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
