package groups

import (
	"context"

	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Membership mutators treat a missing group as a no-op and report whether
// anything was written.

// AddCommandToGroup appends a command unless it is already a member
func (m *Manager) AddCommandToGroup(ctx context.Context, groupID, commandID string) (bool, error) {
	changed, _, err := m.mutate(ctx, groupID, func(g *types.CommandGroup) bool {
		if commandID == "" || g.HasCommand(commandID) {
			return false
		}
		g.CommandIDs = append(g.CommandIDs, commandID)
		return true
	})
	return changed, err
}

// InsertCommandInGroup inserts a command at index, clamped to the list
func (m *Manager) InsertCommandInGroup(ctx context.Context, groupID, commandID string, index int) (bool, error) {
	changed, _, err := m.mutate(ctx, groupID, func(g *types.CommandGroup) bool {
		if commandID == "" || g.HasCommand(commandID) {
			return false
		}
		index = clamp(index, 0, len(g.CommandIDs))
		ids := make([]string, 0, len(g.CommandIDs)+1)
		ids = append(ids, g.CommandIDs[:index]...)
		ids = append(ids, commandID)
		ids = append(ids, g.CommandIDs[index:]...)
		g.CommandIDs = ids
		return true
	})
	return changed, err
}

// RemoveCommandFromGroup drops a command from the group
func (m *Manager) RemoveCommandFromGroup(ctx context.Context, groupID, commandID string) (bool, error) {
	changed, _, err := m.mutate(ctx, groupID, func(g *types.CommandGroup) bool {
		ids := make([]string, 0, len(g.CommandIDs))
		for _, id := range g.CommandIDs {
			if id != commandID {
				ids = append(ids, id)
			}
		}
		if len(ids) == len(g.CommandIDs) {
			return false
		}
		g.CommandIDs = ids
		return true
	})
	return changed, err
}

// MoveCommandInGroup moves a member to toIndex, clamped to the list
func (m *Manager) MoveCommandInGroup(ctx context.Context, groupID, commandID string, toIndex int) (bool, error) {
	changed, _, err := m.mutate(ctx, groupID, func(g *types.CommandGroup) bool {
		from := -1
		for i, id := range g.CommandIDs {
			if id == commandID {
				from = i
				break
			}
		}
		if from < 0 {
			return false
		}
		to := clamp(toIndex, 0, len(g.CommandIDs)-1)
		if to == from {
			return false
		}
		g.CommandIDs = moveItem(g.CommandIDs, from, to)
		return true
	})
	return changed, err
}

// SetGroupCommandOrder replaces the member list. Duplicates are dropped,
// first occurrence wins.
func (m *Manager) SetGroupCommandOrder(ctx context.Context, groupID string, commandIDs []string) (bool, error) {
	next := dedupe(commandIDs)
	changed, _, err := m.mutate(ctx, groupID, func(g *types.CommandGroup) bool {
		if equalStrings(g.CommandIDs, next) {
			return false
		}
		g.CommandIDs = next
		return true
	})
	return changed, err
}
