package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldSource     = "source"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Configuration fields.
	FieldEngine     = "engine"
	FieldContentDir = "content_dir"
	FieldOutputDir  = "output_dir"
	FieldJobs       = "jobs"
	FieldAddr       = "addr"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesBuilt      = "files_built"
	FieldFilesWritten    = "files_written"
	FieldFilesErrored    = "files_errored"
	FieldDiagnostics     = "diagnostics"
	FieldBrokenLinks     = "broken_links"
	FieldDuration        = "duration"

	// Watch fields.
	FieldOp     = "op"
	FieldEvents = "events"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
