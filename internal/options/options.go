// Package options contains the program options.
package options

// Parameters contains path and reference options.
type Parameters struct {
	ProjectRoot string // directory searched for SMART projects
	Reference   string // git reference providing the comparison snapshot
	Output      string // directory rendered images are written to
	Room        string // single room to process, empty for all modified rooms
}

// Flags contains behavior options.
type Flags struct {
	Baseline float64 // darkening coefficient for unchanged pixels in diff images

	ListOnly bool // list modified rooms without rendering
	Debug    bool
	Quiet    bool
}

// Program options of the diff tool.
type Program struct {
	Parameters
	Flags
}
