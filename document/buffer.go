package document

import "github.com/mrigankad/gltfkit/ext"

// Buffer is a raw byte container with a URI (spec §3). At read time it
// holds the resolved bytes verbatim. At write time the codec packs every
// accessor into its own single output buffer and does not use Data or
// which accessors are assigned to this buffer.
type Buffer struct {
	base
	extendable
	URI  string
	Data []byte
}

func (b *Buffer) TypeName() string { return "Buffer" }

// SetExtension attaches (or, given nil, detaches) an extension property on
// this buffer, rejecting it as a ValidationError if the extension's
// declared ParentTypes does not include "Buffer" (spec §3/§7) — the parent
// type EXT_meshopt_compression declares for its fallback-buffer marker.
func (b *Buffer) SetExtension(name string, e ext.Property) error {
	if e != nil {
		if err := b.doc.CheckExtensionParent(name, "Buffer"); err != nil {
			return err
		}
	}
	b.extendable.setExtensionUnchecked(name, e)
	return nil
}

// ByteLength is the buffer's current payload size.
func (b *Buffer) ByteLength() int { return len(b.Data) }

// Dispose detaches the buffer from Root and from every accessor that
// referenced it, whose Buffer() then returns nil. A buffer is shared, so
// those accessors are not disposed along with it.
func (b *Buffer) Dispose() { b.doc.g.Dispose(b.id, nil) }
