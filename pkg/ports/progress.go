package ports

// Progress reports how many files of a run have been handled.
type Progress interface {
	// Start announces the number of files the run will process.
	Start(total int, description string)

	// Advance marks one more file as handled.
	Advance()

	// Finish completes the display.
	Finish()
}
