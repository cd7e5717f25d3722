/*
Package tui implements the terminal command browser.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state and initialization, defines the Model struct
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: Edits and other side effects, run as tea.Cmd
  - render.go: View rendering for the list, the status bar and help

# Modes

  - ModeBrowse: the command list of the current group
  - ModeSearch: typing the search text, the list follows every key
  - ModeCapture: recording a chord, either to filter the list or to
    assign it to the selected command
  - ModeHelp: the keybinding reference, built from the registry

Capture mode only honours keys bound in the capture context. Everything
else, ctrl and alt combinations included, is fed to a chord.Tracker.

Edits go through session.Editor and report back with actionDoneMsg. The
command index notifies the program through indexChangedMsg, so a rebuild
triggered elsewhere redraws the list.
*/
package tui
