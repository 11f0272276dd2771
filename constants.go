package main

type Mode int

const (
	ModeNormal Mode = iota
	ModePalette
	ModeConnect
	ModeLabel
	ModeMove
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteCard ConfirmAction = iota
	ConfirmDeleteConnection
	ConfirmClearAll
	ConfirmClearSaved
	ConfirmLoadDemo
	ConfirmQuit
	ConfirmOverwriteFile
)

const (
	minBoxWidth  = 6
	minBoxHeight = 3

	minZoom  = 0.25
	maxZoom  = 4.0
	zoomStep = 1.25

	// fitPadding is world units left around the content by fit-to-screen.
	fitPadding = 100.0
)
