package keybinds

import "sort"

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal  Context = "global"  // Available everywhere except capture
	ContextBrowse  Context = "browse"  // Command list
	ContextSearch  Context = "search"  // Search input mode
	ContextCapture Context = "capture" // Chord capture mode
)

// AllContexts lists the built-in contexts in display order
var AllContexts = []Context{ContextGlobal, ContextBrowse, ContextSearch, ContextCapture}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)
	ActionOpenHelp  Action = "open_help"  // Toggle help

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Move up one item
	ActionNavigateDown   Action = "navigate_down"     // Move down one item
	ActionPageUp         Action = "page_up"           // Move up one page
	ActionPageDown       Action = "page_down"         // Move down one page
	ActionHalfPageUp     Action = "half_page_up"      // Move up half page (ctrl+u)
	ActionHalfPageDown   Action = "half_page_down"    // Move down half page (ctrl+d)
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// Mode switches
	ActionOpenSearch   Action = "open_search"   // Edit the search line
	ActionStartCapture Action = "start_capture" // Capture a chord to filter by
	ActionClearChord   Action = "clear_chord"   // Drop the captured chord
	ActionClearSearch  Action = "clear_search"  // Drop the search text

	// Groups
	ActionNextGroup     Action = "next_group"     // Show the next group
	ActionPreviousGroup Action = "previous_group" // Show the previous group

	// Filter toggles
	ActionToggleStrict         Action = "toggle_strict"          // Strict modifier match
	ActionToggleOnlyCustom     Action = "toggle_only_custom"     // Only commands with custom hotkeys
	ActionToggleOnlyDuplicates Action = "toggle_only_duplicates" // Only commands with shared hotkeys
	ActionToggleShowUnbound    Action = "toggle_show_unbound"    // Show commands without hotkeys
	ActionToggleDisplayIDs     Action = "toggle_display_ids"     // Show command ids
	ActionToggleFeaturedFirst  Action = "toggle_featured_first"  // Sort featured commands first
	ActionToggleSystem         Action = "toggle_system"          // Show system shortcuts

	// Command operations
	ActionToggleFeatured  Action = "toggle_featured"  // Feature or unfeature the selected command
	ActionAssignChord     Action = "assign_chord"     // Assign the captured chord to the selected command
	ActionRemoveChord     Action = "remove_chord"     // Remove the captured chord from the selected command
	ActionRestoreDefaults Action = "restore_defaults" // Restore the selected command's defaults
	ActionUndo            Action = "undo"             // Undo the last binding change
	ActionCopyID          Action = "copy_id"          // Copy the selected command id
	ActionRefresh         Action = "refresh"          // Rebuild the command index

	// Text input actions
	ActionTextBackspace Action = "text_backspace" // Delete char before cursor
	ActionTextPaste     Action = "text_paste"     // Paste from clipboard
	ActionTextClear     Action = "text_clear"     // Clear the input
	ActionTextSubmit    Action = "text_submit"    // Submit text input
	ActionTextCancel    Action = "text_cancel"    // Cancel text input

	// Capture actions
	ActionCaptureFinish Action = "capture_finish" // Keep the captured chord and leave capture
	ActionCaptureCancel Action = "capture_cancel" // Drop the captured chord and leave capture

	// Other actions
	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:                 {ActionQuit, "Quit", "Global"},
	ActionQuitForce:            {ActionQuitForce, "Force quit", "Global"},
	ActionOpenHelp:             {ActionOpenHelp, "Toggle help", "Global"},
	ActionNavigateUp:           {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:         {ActionNavigateDown, "Move down", "Navigation"},
	ActionPageUp:               {ActionPageUp, "Page up", "Navigation"},
	ActionPageDown:             {ActionPageDown, "Page down", "Navigation"},
	ActionHalfPageUp:           {ActionHalfPageUp, "Half page up", "Navigation"},
	ActionHalfPageDown:         {ActionHalfPageDown, "Half page down", "Navigation"},
	ActionGoToTop:              {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:           {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionGoToTopPrepare:       {ActionGoToTopPrepare, "Start go-to-top sequence", "Navigation"},
	ActionOpenSearch:           {ActionOpenSearch, "Search", "Filter"},
	ActionStartCapture:         {ActionStartCapture, "Capture chord", "Filter"},
	ActionClearChord:           {ActionClearChord, "Clear chord", "Filter"},
	ActionClearSearch:          {ActionClearSearch, "Clear search", "Filter"},
	ActionNextGroup:            {ActionNextGroup, "Next group", "Groups"},
	ActionPreviousGroup:        {ActionPreviousGroup, "Previous group", "Groups"},
	ActionToggleStrict:         {ActionToggleStrict, "Toggle strict modifiers", "Settings"},
	ActionToggleOnlyCustom:     {ActionToggleOnlyCustom, "Toggle only custom", "Settings"},
	ActionToggleOnlyDuplicates: {ActionToggleOnlyDuplicates, "Toggle only duplicates", "Settings"},
	ActionToggleShowUnbound:    {ActionToggleShowUnbound, "Toggle commands without hotkeys", "Settings"},
	ActionToggleDisplayIDs:     {ActionToggleDisplayIDs, "Toggle command ids", "Settings"},
	ActionToggleFeaturedFirst:  {ActionToggleFeaturedFirst, "Toggle featured first", "Settings"},
	ActionToggleSystem:         {ActionToggleSystem, "Toggle system shortcuts", "Settings"},
	ActionToggleFeatured:       {ActionToggleFeatured, "Feature command", "Commands"},
	ActionAssignChord:          {ActionAssignChord, "Assign chord", "Commands"},
	ActionRemoveChord:          {ActionRemoveChord, "Remove chord", "Commands"},
	ActionRestoreDefaults:      {ActionRestoreDefaults, "Restore defaults", "Commands"},
	ActionUndo:                 {ActionUndo, "Undo last change", "Commands"},
	ActionCopyID:               {ActionCopyID, "Copy command id", "Commands"},
	ActionRefresh:              {ActionRefresh, "Refresh", "Commands"},
	ActionTextBackspace:        {ActionTextBackspace, "Delete character", "Text Input"},
	ActionTextPaste:            {ActionTextPaste, "Paste", "Text Input"},
	ActionTextClear:            {ActionTextClear, "Clear input", "Text Input"},
	ActionTextSubmit:           {ActionTextSubmit, "Submit", "Text Input"},
	ActionTextCancel:           {ActionTextCancel, "Cancel", "Text Input"},
	ActionCaptureFinish:        {ActionCaptureFinish, "Finish capture", "Capture"},
	ActionCaptureCancel:        {ActionCaptureCancel, "Cancel capture", "Capture"},
	ActionNoOp:                 {ActionNoOp, "Ignore key", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the TUI handles
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// KnownActions returns every action, sorted by name
func KnownActions() []Action {
	out := make([]Action, 0, len(actionInfos))
	for a := range actionInfos {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	globalActions := map[Action]bool{
		ActionQuit:      true,
		ActionQuitForce: true,
		ActionOpenHelp:  true,
	}
	return globalActions[action]
}
