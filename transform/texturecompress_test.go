package transform

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/mrigankad/gltfkit/document"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

func opaqueImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func transparentImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
		}
	}
	return img
}

func newTexture(d *document.Document, name string, data []byte, w, h int) *document.Texture {
	tex := d.CreateTexture(name)
	tex.MIMEType = "image/png"
	tex.Data = data
	tex.Width, tex.Height, tex.Channels = w, h, 4
	tex.URI = name + ".png"
	return tex
}

func TestTextureCompressConvertsOpaqueTextureToJPEG(t *testing.T) {
	d := newTestDoc()
	tex := newTexture(d, "albedo", encodePNG(t, opaqueImage(8, 8)), 8, 8)

	if err := d.Transform(TextureCompress(TextureCompressConfig{Format: "image/jpeg"})); err != nil {
		t.Fatalf("textureCompress: %v", err)
	}

	if tex.MIMEType != "image/jpeg" {
		t.Fatalf("expected texture converted to image/jpeg, got %s", tex.MIMEType)
	}
	if tex.URI != "albedo.jpg" {
		t.Fatalf("expected URI extension rewritten to .jpg, got %s", tex.URI)
	}
}

func TestTextureCompressSkipsAlphaLossyConversionByDefault(t *testing.T) {
	d := newTestDoc()
	tex := newTexture(d, "albedo", encodePNG(t, transparentImage(8, 8)), 8, 8)

	if err := d.Transform(TextureCompress(TextureCompressConfig{Format: "image/jpeg"})); err != nil {
		t.Fatalf("textureCompress: %v", err)
	}

	if tex.MIMEType != "image/png" {
		t.Fatalf("expected transparent texture left as PNG without AllowAlphaLoss, got %s", tex.MIMEType)
	}
}

func TestTextureCompressDownsamplesOversizedTextures(t *testing.T) {
	d := newTestDoc()
	tex := newTexture(d, "albedo", encodePNG(t, opaqueImage(16, 16)), 16, 16)

	cfg := TextureCompressConfig{Format: "image/jpeg", MaxDimension: 8}
	if err := d.Transform(TextureCompress(cfg)); err != nil {
		t.Fatalf("textureCompress: %v", err)
	}

	if tex.Width > 8 || tex.Height > 8 {
		t.Fatalf("expected texture downsampled to fit within 8x8, got %dx%d", tex.Width, tex.Height)
	}
}
