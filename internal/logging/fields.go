package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldSource = "source"
	FieldOutput = "output"
	FieldConfig = "config"
	FieldDryRun = "dry_run"

	// Document fields.
	FieldDocument  = "document"
	FieldAssetDir  = "asset_dir"
	FieldAsset     = "asset"
	FieldReference = "reference"
	FieldRewrites  = "rewrites"

	// Statistics fields.
	FieldDocuments = "documents"
	FieldAssets    = "assets"
	FieldSkipped   = "skipped_remote"
	FieldElapsed   = "elapsed"
	FieldVersion   = "version"
)
