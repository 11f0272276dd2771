package main

import (
	"log/slog"

	"procflow/internal/config"
	"procflow/internal/diagram"
)

// viewport maps world units onto terminal cells.
type viewport struct {
	panX, panY float64 // world position of the top-left cell
	zoom       float64
	unitsX     float64 // world units per column at zoom 1
	unitsY     float64 // world units per row at zoom 1
}

type model struct {
	store     *diagram.Store
	templates []diagram.Template
	config    *config.Config
	log       *slog.Logger

	width      int
	height     int
	cursorX    int
	cursorY    int
	zPanMode   bool
	view       viewport
	targetView bool
	mode       Mode
	help       bool
	helpScroll int

	paletteIndex int

	connectFrom string
	connectTo   string
	connectKind diagram.ConnectionKind
	labelText   string

	moveCardID string
	moveX      float64
	moveY      float64

	confirmAction ConfirmAction
	confirmID     string
	fileOp        FileOperation
	filename      string

	errorMessage   string
	successMessage string
}

type point struct {
	X, Y int
}
