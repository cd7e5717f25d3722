package keys

import "runtime"

// Platform identifies the operating system whose modifier conventions apply
type Platform string

const (
	PlatformNone    Platform = "none" // detect from the running OS
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
)

// Abstract modifier tokens
const (
	ModifierMod   = "Mod" // primary accelerator, Meta on macOS and Ctrl elsewhere
	ModifierMeta  = "Meta"
	ModifierCtrl  = "Ctrl"
	ModifierAlt   = "Alt"
	ModifierShift = "Shift"
)

// ParsePlatform maps a user supplied name to a Platform.
// Unknown names resolve to PlatformNone.
func ParsePlatform(name string) Platform {
	switch name {
	case "windows", "win", "win32":
		return PlatformWindows
	case "macos", "mac", "darwin", "osx":
		return PlatformMacOS
	case "linux":
		return PlatformLinux
	default:
		return PlatformNone
	}
}

// Resolve returns the emulated platform, or the detected one when emulated is none
func Resolve(emulated Platform) Platform {
	switch emulated {
	case PlatformWindows, PlatformMacOS, PlatformLinux:
		return emulated
	}
	return detect(runtime.GOOS)
}

func detect(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

// Primary returns the concrete modifier standing in for Mod on this platform
func (p Platform) Primary() string {
	if Resolve(p) == PlatformMacOS {
		return ModifierMeta
	}
	return ModifierCtrl
}

// IsMac reports whether the resolved platform is macOS
func (p Platform) IsMac() bool {
	return Resolve(p) == PlatformMacOS
}
