package fetch

// ProgressFunc receives the number of bytes held so far and the declared
// total. Total is -1 when the server did not declare a length.
type ProgressFunc func(received, total int64)

// Options configures a single Fetch call.
type Options struct {
	// Verbose enables progress reporting after every receive iteration.
	Verbose bool
	// Progress is called when Verbose is set. May be nil.
	Progress ProgressFunc
	// WantMetadata requests the ETag and Content-MD5 response headers.
	WantMetadata bool
	// Resume holds a previously received prefix of the same resource. The
	// request asks for the remainder with a Range header.
	Resume []byte
}

// Metadata holds the response headers used for integrity checks. An empty
// field means the header was absent.
type Metadata struct {
	ETag       string
	ContentMD5 string
}

// Result is a completed download. Data is owned by the caller.
type Result struct {
	Data      []byte
	Size      int64
	Metadata  *Metadata // nil unless Options.WantMetadata
	URL       string    // final URL after redirects
	Redirects int
	Resumed   bool // true when the server honoured Options.Resume
}
