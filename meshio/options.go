package meshio

type options struct {
	normals bool
	color   bool
	clean   bool
}

// Option configures Import.
type Option func(*options)

// WithNormals requests area weighted per-vertex normals. They are skipped for files without faces.
func WithNormals(on bool) Option {
	return func(o *options) {
		o.normals = on
	}
}

// WithColor requests per-vertex colors and texture coordinates. Vertices without a color in the
// file are white.
func WithColor(on bool) Option {
	return func(o *options) {
		o.color = on
	}
}

// WithClean removes duplicate vertices, duplicate faces and unreferenced vertices after reading.
func WithClean(on bool) Option {
	return func(o *options) {
		o.clean = on
	}
}
