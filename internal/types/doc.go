/*
Package types defines the data structures shared by the hotkey index, the
group manager and the mutation layer.

# Overview

  - HotkeyBinding: one chord (modifiers + key) bound to a command
  - CommandRecord: a command with its default, custom and effective bindings
  - FilterSettings: named boolean toggles resolved per group
  - CommandGroup: a user-defined list of commands with its own settings
  - Sentinel errors shared across packages

# Bindings

Modifiers are stored as abstract tokens (Mod, Meta, Ctrl, Alt, Shift). Mod
stands for the platform's primary accelerator so a binding recorded on one
platform stays portable. Two bindings are the same chord when their
signatures are equal, see HotkeyBinding.Signature.

# Settings Layering

A group's stored FilterSettings may be partial. The effective value of every
key is the group override when present and the global default otherwise:

	effective := ResolveFilterSettings(globalDefaults, group.FilterSettings)

# Ownership

CommandRecord values handed out by the commands index are clones. Mutating
them never affects the index.
*/
package types
