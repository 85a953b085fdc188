package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// probeImage decodes just enough of an image's header to recover its
// dimensions and channel count (spec §3: Texture.Width/Height/Channels),
// without ever producing a decoded pixel buffer that would need
// re-encoding on write. PNG/JPEG are handled by the standard library's own
// registered decoders; WebP and BMP, which the standard library doesn't
// carry, come from golang.org/x/image.
func probeImage(mime string, data []byte) (w, h, channels int, ok bool) {
	if len(data) == 0 {
		return 0, 0, 0, false
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, 0, false
	}
	return cfg.Width, cfg.Height, channelsFor(format, cfg), true
}

func channelsFor(format string, cfg image.Config) int {
	switch format {
	case "png":
		switch cfg.ColorModel {
		case color.RGBAModel, color.NRGBAModel:
			return 4
		default:
			return 3
		}
	case "jpeg":
		return 3
	case "webp":
		return 4
	case "bmp":
		return 3
	default:
		return 4
	}
}

// resizeRGBA is used by the texture-compress transform (spec §4.H
// "textureCompress") to downsample a probed image's full decode before
// re-encoding; kept here alongside the decoder registrations it depends on.
func resizeRGBA(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// DecodeImage decodes an encoded texture payload to a pixel buffer. The mime
// argument is informational only — image.Decode sniffs the real format, so a
// mismatched glTF mimeType field still decodes correctly.
func DecodeImage(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

// ResizeImage downsamples or upsamples src to exactly w by h, exported for
// the texture-compress transform (codec keeps the golang.org/x/image/draw
// dependency; transform reuses it rather than carrying its own).
func ResizeImage(src image.Image, w, h int) *image.RGBA {
	return resizeRGBA(src, w, h)
}

// EncodeImage re-encodes img for the given mime type. PNG and JPEG use the
// standard library's own encoders; any other mime (the golang.org/x/image
// formats only register decoders) falls back to PNG, the one format every
// glTF-conformant viewer is required to support.
func EncodeImage(mime string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	switch mime {
	case "image/jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
