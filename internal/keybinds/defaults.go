package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNavigationBindings(r)
	registerBrowseBindings(r)
	registerSearchBindings(r)
	registerCaptureBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerNavigationBindings sets up list navigation in browse mode
func registerNavigationBindings(r *Registry) {
	r.RegisterMultiple(ContextBrowse, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextBrowse, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextBrowse, "pgup", ActionPageUp)
	r.Register(ContextBrowse, "pgdown", ActionPageDown)
	r.Register(ContextBrowse, "ctrl+u", ActionHalfPageUp)
	r.Register(ContextBrowse, "ctrl+d", ActionHalfPageDown)
	r.Register(ContextBrowse, "g", ActionGoToTopPrepare)
	r.Register(ContextBrowse, "gg", ActionGoToTop)
	r.Register(ContextBrowse, "G", ActionGoToBottom)
	r.Register(ContextBrowse, "home", ActionGoToTop)
	r.Register(ContextBrowse, "end", ActionGoToBottom)
}

// registerBrowseBindings sets up the command list operations
func registerBrowseBindings(r *Registry) {
	r.Register(ContextBrowse, "q", ActionQuit)
	r.Register(ContextBrowse, "?", ActionOpenHelp)

	r.Register(ContextBrowse, "/", ActionOpenSearch)
	r.Register(ContextBrowse, "c", ActionStartCapture)
	r.Register(ContextBrowse, "x", ActionClearChord)
	r.Register(ContextBrowse, "esc", ActionClearSearch)

	r.Register(ContextBrowse, "tab", ActionNextGroup)
	r.Register(ContextBrowse, "shift+tab", ActionPreviousGroup)

	r.Register(ContextBrowse, "s", ActionToggleStrict)
	r.Register(ContextBrowse, "C", ActionToggleOnlyCustom)
	r.Register(ContextBrowse, "D", ActionToggleOnlyDuplicates)
	r.Register(ContextBrowse, "h", ActionToggleShowUnbound)
	r.Register(ContextBrowse, "i", ActionToggleDisplayIDs)
	r.Register(ContextBrowse, "F", ActionToggleFeaturedFirst)
	r.Register(ContextBrowse, "S", ActionToggleSystem)

	r.Register(ContextBrowse, "f", ActionToggleFeatured)
	r.Register(ContextBrowse, "a", ActionAssignChord)
	r.Register(ContextBrowse, "d", ActionRemoveChord)
	r.Register(ContextBrowse, "R", ActionRestoreDefaults)
	r.Register(ContextBrowse, "u", ActionUndo)
	r.Register(ContextBrowse, "y", ActionCopyID)
	r.Register(ContextBrowse, "r", ActionRefresh)
}

// registerSearchBindings sets up the search input
func registerSearchBindings(r *Registry) {
	r.Register(ContextSearch, "enter", ActionTextSubmit)
	r.Register(ContextSearch, "esc", ActionTextCancel)
	r.Register(ContextSearch, "backspace", ActionTextBackspace)
	r.RegisterMultiple(ContextSearch, []string{"ctrl+v", "shift+insert"}, ActionTextPaste)
	r.Register(ContextSearch, "ctrl+u", ActionTextClear)
	r.Register(ContextSearch, "up", ActionNavigateUp)
	r.Register(ContextSearch, "down", ActionNavigateDown)
}

// registerCaptureBindings sets up the keys that leave capture mode. Every
// other key is fed to the chord tracker.
func registerCaptureBindings(r *Registry) {
	r.Register(ContextCapture, "enter", ActionCaptureFinish)
	r.Register(ContextCapture, "esc", ActionCaptureCancel)
	r.Register(ContextCapture, "ctrl+c", ActionQuitForce)
}
