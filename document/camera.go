package document

// CameraType selects which of Perspective/Orthographic is populated.
type CameraType int

const (
	CameraPerspective CameraType = iota
	CameraOrthographic
)

// PerspectiveParams mirrors glTF camera.perspective field names, filled in
// from the other_examples glTF struct references (spec.md §3 only says
// "perspective ... parameters" without enumerating fields).
type PerspectiveParams struct {
	AspectRatio float32 // 0 means "use viewport aspect ratio"
	YFov        float32
	Zfar        float32 // 0 means infinite far plane
	Znear       float32
}

// OrthographicParams mirrors glTF camera.orthographic field names.
type OrthographicParams struct {
	Xmag  float32
	Ymag  float32
	Zfar  float32
	Znear float32
}

// Camera holds perspective or orthographic parameters (spec §3).
type Camera struct {
	base
	extendable
	Type        CameraType
	Perspective PerspectiveParams
	Orthographic OrthographicParams
}

func (c *Camera) TypeName() string { return "Camera" }

func (c *Camera) Dispose() { c.doc.g.Dispose(c.id, nil) }
