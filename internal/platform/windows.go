// SPDX-License-Identifier: MPL-2.0

// Package platform holds filesystem compatibility checks used when
// extracting egg archives onto different host operating systems.
package platform

import "strings"

// reservedNames are the Windows device names that cannot exist as regular
// files or directories, with or without an extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsReservedFileName reports whether name collides with a Windows device
// name such as CON or COM1. Archive entries with such names cannot be
// created on Windows, so extraction skips them there instead of failing
// the whole install.
func IsReservedFileName(name string) bool {
	base := strings.ToUpper(name)
	if idx := strings.IndexByte(base, '.'); idx != -1 {
		base = base[:idx]
	}
	_, ok := reservedNames[base]
	return ok
}
