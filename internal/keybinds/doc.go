/*
Package keybinds provides the customizable keymap of the command browser.

# Overview

Keys are matched to actions inside a context. The browser is always in
exactly one context:

  - Global: bindings available in browse and search
  - Browse: the command list
  - Search: editing the search line
  - Capture: recording a chord to filter the list by

Browse and search fall back to global when a key is not bound locally.
Capture does not: every key that is not bound in the capture context is
handed to the chord tracker, so Ctrl+B there means "the chord Ctrl+B" and
never a browser command. ctrl+c is bound in capture explicitly.

# Components

Registry (registry.go):
  - Central storage for keybindings
  - Context-aware key matching, with MatchLocal for capture
  - Multi-key sequence support (e.g., "gg" for go-to-top)

Validator (validator.go):
  - Unknown actions and modes that can no longer be left
  - Shadowing of global bindings (warnings)
  - Reserved key rebindings (warnings)
  - Single keys swallowed by a sequence (warnings)

Defaults (defaults.go):
  - Default keybinding configuration for every context

# Configuration File Format

User overrides live in ~/.hotkeyhub/keybinds.json. Comments are allowed.
Each section maps a key to an action; "noop" disables a default:

	{
	  // keep vim keys, add emacs ones
	  "browse": {
	    "ctrl+p": "navigate_up",
	    "ctrl+n": "navigate_down",
	    "d": "noop"
	  },
	  "capture": {
	    "ctrl+g": "capture_cancel"
	  }
	}

# Example Usage

	registry, err := LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	result := NewValidator().ValidateRegistry(registry)
	if result.HasErrors() {
		fmt.Println(result.String())
	}

	if action, ok := registry.Match(ContextBrowse, msg.String()); ok {
		// Handle action
	}

The Registry is not safe for concurrent writes. Build it before the
program starts.
*/
package keybinds
