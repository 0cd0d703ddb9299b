package render

import "log/slog"

// Options controls what the renderer produces. The zero value renders plain
// line diffs with no highlighting and no post-processing.
type Options struct {
	// CharDiff refines paired changed lines with character segments.
	CharDiff bool
	// Highlight adds chroma class spans to unrefined diff lines.
	Highlight bool
	// CopyButtons attaches copy buttons to code and edit blocks at final.
	CopyButtons bool
	// FileRefs marks inline code spans naming a known file at final.
	FileRefs bool
	// KnownPaths are file paths recognised as references in addition to the
	// paths of the message's own edit blocks.
	KnownPaths []string

	// Logger receives debug events. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions enables every feature.
func DefaultOptions() Options {
	return Options{
		CharDiff:    true,
		Highlight:   true,
		CopyButtons: true,
		FileRefs:    true,
	}
}

// postProcessing reports whether finalization has deferred work to do.
func (o Options) postProcessing() bool {
	return o.CopyButtons || o.FileRefs
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
