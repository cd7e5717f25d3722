package tui

import "time"

// UI Layout Constants
const (
	// HeaderLines is the title line plus the filter line
	HeaderLines = 2

	// DetailLines is the selected command panel below the list
	DetailLines = 3

	// StatusBarLines is the bottom status line
	StatusBarLines = 1

	// BorderLines is consumed by the list box border
	BorderLines = 2

	// MinimalBorderMargin is m.width - 2 for bordered boxes
	MinimalBorderMargin = 2

	// ContentOffsetHelp is m.height - 6 for the help viewport
	ContentOffsetHelp = 6

	// MaxStatusLength truncates footer messages
	MaxStatusLength = 100
)

// StatusTimeout clears footer messages
const StatusTimeout = 4 * time.Second
