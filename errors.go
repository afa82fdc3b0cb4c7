package postag

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNoBackend indicates a Tagger was constructed without an engine.
	ErrNoBackend = errors.New("postag: no backend configured")

	// ErrNoTerminalTag indicates a flat backend was given without a sentence-final tag marker.
	ErrNoTerminalTag = errors.New("postag: terminal tag marker is empty")

	// ErrUnsupportedLanguage indicates the engine has no model for the requested language.
	ErrUnsupportedLanguage = errors.New("postag: unsupported language")

	// ErrEngineUnavailable indicates the tagging engine could not be reached or started.
	ErrEngineUnavailable = errors.New("postag: tagging engine unavailable")

	// ErrModelNotFound indicates a model or resource file does not exist.
	ErrModelNotFound = errors.New("postag: model file not found")

	// ErrBackendFailed wraps failures reported by the engine while tagging.
	ErrBackendFailed = errors.New("postag: backend failed")

	// ErrReconstructionTruncated indicates the token stream ran out before the
	// text was consumed. Only returned with WithStrictReconstruction.
	ErrReconstructionTruncated = errors.New("postag: token stream exhausted before end of text")

	// ErrMalformedFlat indicates a flat-encoded string could not be decoded.
	ErrMalformedFlat = errors.New("postag: malformed flat encoding")
)
