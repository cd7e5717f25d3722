package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound
	reservedKeys map[string]bool

	// contextHierarchy defines context inheritance
	contextHierarchy map[Context]Context

	// requiredActions must stay reachable in their context
	requiredActions map[Context][]Action
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]bool{
			"ctrl+c": true, // Force quit should always work
		},
		contextHierarchy: map[Context]Context{
			ContextBrowse: ContextGlobal,
			ContextSearch: ContextGlobal,
			// Capture never falls back to global; every other key is a chord
		},
		requiredActions: map[Context][]Action{
			ContextSearch:  {ActionTextSubmit, ActionTextCancel},
			ContextCapture: {ActionCaptureFinish, ActionCaptureCancel},
		},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	v.checkUnknownActions(registry, result)
	v.checkReservedKeys(registry, result)
	v.checkRequiredActions(registry, result)
	v.checkMultiKeySequences(registry, result)
	v.checkShadowing(registry, result)

	return result
}

// ValidateConfig validates a configuration on top of the defaults
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	registry := NewDefaultRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Message: err.Error(),
		})
		return result
	}

	return v.ValidateRegistry(registry)
}

// sortedKeys returns a context's keys in a stable order
func sortedKeys(bindings map[string]Action) []string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedContexts returns the registry's contexts in a stable order
func sortedContexts(registry *Registry) []Context {
	contexts := make([]Context, 0, len(registry.bindings))
	for c := range registry.bindings {
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	return contexts
}

// checkUnknownActions reports bindings to actions the TUI does not handle
func (v *Validator) checkUnknownActions(registry *Registry, result *ValidationResult) {
	for _, context := range sortedContexts(registry) {
		bindings := registry.bindings[context]
		for _, key := range sortedKeys(bindings) {
			if !IsKnownAction(bindings[key]) {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("unknown action '%s'", bindings[key]),
				})
			}
		}
	}
}

// checkReservedKeys checks if any reserved keys have been rebound
func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for _, context := range sortedContexts(registry) {
		bindings := registry.bindings[context]
		for _, key := range sortedKeys(bindings) {
			if !v.reservedKeys[key] {
				continue
			}
			if (context == ContextGlobal || context == ContextCapture) && bindings[key] != ActionQuitForce {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: "reserved key rebound (may cause issues)",
				})
			}
		}
	}
}

// checkRequiredActions reports modes that could not be left any more
func (v *Validator) checkRequiredActions(registry *Registry, result *ValidationResult) {
	contexts := make([]Context, 0, len(v.requiredActions))
	for c := range v.requiredActions {
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })

	for _, context := range contexts {
		for _, action := range v.requiredActions[context] {
			bound := false
			for _, a := range registry.bindings[context] {
				if a == action {
					bound = true
					break
				}
			}
			if !bound {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Message: fmt.Sprintf("action '%s' has no key", action),
				})
			}
		}
	}
}

// checkMultiKeySequences warns when a single key is bound to a real action
// and also starts a sequence, since the sequence swallows it
func (v *Validator) checkMultiKeySequences(registry *Registry, result *ValidationResult) {
	for _, context := range sortedContexts(registry) {
		bindings := registry.bindings[context]
		for _, key := range sortedKeys(bindings) {
			if !isSequence(key) {
				continue
			}
			firstChar := string(key[0])
			action, hasSingle := bindings[firstChar]
			if !hasSingle || action == ActionGoToTopPrepare || action == ActionNoOp {
				continue
			}
			result.Warnings = append(result.Warnings, ValidationError{
				Type:    "warning",
				Context: context,
				Key:     firstChar,
				Message: fmt.Sprintf("never fires: it starts the sequence '%s'", key),
			})
		}
	}
}

// checkShadowing checks for context-specific bindings that shadow global bindings
func (v *Validator) checkShadowing(registry *Registry, result *ValidationResult) {
	for _, context := range sortedContexts(registry) {
		parent, ok := v.contextHierarchy[context]
		if !ok {
			continue
		}
		parentBindings := registry.bindings[parent]
		bindings := registry.bindings[context]

		for _, key := range sortedKeys(bindings) {
			if parentAction, hasParent := parentBindings[key]; hasParent && bindings[key] != parentAction {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows %s binding (%s -> %s)", parent, parentAction, bindings[key]),
				})
			}
		}
	}
}

// FindConflicts finds all invalid bindings in a config
func FindConflicts(config *Config) []string {
	validator := NewValidator()
	result := validator.ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		conflicts = append(conflicts, err.Error())
	}

	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	validModifiers := []string{"ctrl+", "alt+", "shift+", "super+"}
	for _, mod := range validModifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(Action(actionStr)) {
		return fmt.Errorf("unknown action '%s'", actionStr)
	}
	return nil
}
