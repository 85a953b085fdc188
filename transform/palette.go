package transform

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/mrigankad/gltfkit/accessor"
	"github.com/mrigankad/gltfkit/codec"
	"github.com/mrigankad/gltfkit/document"
)

// PaletteConfig configures Palette (spec §4.H "palette"). Grid is the
// palette texture's side length in cells (default 4, giving room for
// Grid*Grid distinct material tuples); 0 uses the default.
type PaletteConfig struct {
	Grid int
}

// paletteKey is the (baseColor, emissive, metallic, roughness) tuple spec
// §4.H groups primitives by.
type paletteKey struct {
	baseColor [4]float32
	emissive  [3]float32
	metallic  float32
	roughness float32
}

// Palette collapses primitives that have no TEXCOORD_0 and whose bound
// material reduces to a handful of distinct (baseColorFactor,
// emissiveFactor, metallicFactor, roughnessFactor) tuples into a single
// shared material sampling a small NxN palette texture, with each
// primitive assigned a constant UV pointing at its tuple's cell (spec
// §4.H). This trades per-primitive material switches for one draw-call
// friendly texture lookup — useful for scenes built from many small,
// flat-shaded parts (CAD exports, voxel meshes).
func Palette(cfg PaletteConfig) document.Transform {
	grid := cfg.Grid
	if grid <= 0 {
		grid = 4
	}
	return document.Transform{
		Name: "palette",
		Run: func(d *document.Document) error {
			candidates := collectPaletteCandidates(d)
			if len(candidates) == 0 {
				return nil
			}

			keys, byPrim := indexPaletteKeys(candidates, grid*grid, d)
			if len(keys) == 0 {
				return nil
			}

			mat, err := buildPaletteMaterial(d, keys, grid)
			if err != nil {
				return err
			}

			n := 0
			for prim, idx := range byPrim {
				if err := applyPaletteUV(d, prim, idx, grid, n); err != nil {
					return err
				}
				prim.SetMaterial(mat)
				n++
			}
			return nil
		},
	}
}

func collectPaletteCandidates(d *document.Document) []*document.Primitive {
	var out []*document.Primitive
	for _, mesh := range d.Root().ListMeshes() {
		for _, prim := range mesh.ListPrimitives() {
			if prim.GetAttribute("TEXCOORD_0") != nil {
				continue
			}
			if prim.GetAttribute("POSITION") == nil {
				continue
			}
			out = append(out, prim)
		}
	}
	return out
}

func keyOf(m *document.Material) paletteKey {
	if m == nil {
		return paletteKey{baseColor: [4]float32{1, 1, 1, 1}, metallic: 1, roughness: 1}
	}
	return paletteKey{
		baseColor: m.BaseColorFactor,
		emissive:  m.EmissiveFactor,
		metallic:  m.MetallicFactor,
		roughness: m.RoughnessFactor,
	}
}

// indexPaletteKeys assigns each distinct tuple a grid cell index in order
// of first appearance, dropping (with a log) any tuple beyond capacity.
func indexPaletteKeys(prims []*document.Primitive, capacity int, d *document.Document) ([]paletteKey, map[*document.Primitive]int) {
	seen := make(map[paletteKey]int)
	var keys []paletteKey
	byPrim := make(map[*document.Primitive]int, len(prims))

	for _, p := range prims {
		k := keyOf(p.Material())
		idx, ok := seen[k]
		if !ok {
			if len(keys) >= capacity {
				d.Logger().Warnf("palette: dropping tuple %v, grid capacity %d exhausted", k, capacity)
				continue
			}
			idx = len(keys)
			seen[k] = idx
			keys = append(keys, k)
		}
		byPrim[p] = idx
	}
	return keys, byPrim
}

func buildPaletteMaterial(d *document.Document, keys []paletteKey, grid int) (*document.Material, error) {
	cell := 8
	size := grid * cell
	baseColorImg := image.NewNRGBA(image.Rect(0, 0, size, size))
	mrImg := image.NewNRGBA(image.Rect(0, 0, size, size))
	hasEmissive := false

	for _, k := range keys {
		if k.emissive != [3]float32{0, 0, 0} {
			hasEmissive = true
		}
	}

	var emissiveImg *image.NRGBA
	if hasEmissive {
		emissiveImg = image.NewNRGBA(image.Rect(0, 0, size, size))
	}

	for i, k := range keys {
		col, row := i%grid, i/grid
		fillCell(baseColorImg, col, row, cell, color.NRGBA{
			R: to8(k.baseColor[0]), G: to8(k.baseColor[1]), B: to8(k.baseColor[2]), A: to8(k.baseColor[3]),
		})
		fillCell(mrImg, col, row, cell, color.NRGBA{R: 255, G: to8(k.roughness), B: to8(k.metallic), A: 255})
		if emissiveImg != nil {
			fillCell(emissiveImg, col, row, cell, color.NRGBA{
				R: to8(k.emissive[0]), G: to8(k.emissive[1]), B: to8(k.emissive[2]), A: 255,
			})
		}
	}

	mat := d.CreateMaterial("palette")
	mat.MetallicFactor, mat.RoughnessFactor = 1, 1
	mat.BaseColorFactor = [4]float32{1, 1, 1, 1}

	baseTex, err := newPaletteTexture(d, "palette-baseColor", baseColorImg)
	if err != nil {
		return nil, err
	}
	mat.SetBaseColorTexture(baseTex)

	mrTex, err := newPaletteTexture(d, "palette-metallicRoughness", mrImg)
	if err != nil {
		return nil, err
	}
	mat.SetMetallicRoughnessTexture(mrTex)

	if emissiveImg != nil {
		mat.EmissiveFactor = [3]float32{1, 1, 1}
		emTex, err := newPaletteTexture(d, "palette-emissive", emissiveImg)
		if err != nil {
			return nil, err
		}
		mat.SetEmissiveTexture(emTex)
	}
	return mat, nil
}

func fillCell(img *image.NRGBA, col, row, cell int, c color.NRGBA) {
	x0, y0 := col*cell, row*cell
	for y := y0; y < y0+cell; y++ {
		for x := x0; x < x0+cell; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func to8(v float32) uint8 {
	v = float32(math.Round(float64(v) * 255))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func newPaletteTexture(d *document.Document, name string, img *image.NRGBA) (*document.Texture, error) {
	data, err := codec.EncodeImage("image/png", img)
	if err != nil {
		return nil, validationErrorf("palette: encode %s: %v", name, err)
	}
	tex := d.CreateTexture(name)
	tex.MIMEType = "image/png"
	tex.Data = data
	tex.Width, tex.Height, tex.Channels = img.Bounds().Dx(), img.Bounds().Dy(), 4
	return tex, nil
}

// applyPaletteUV stamps a constant UV at the center of cell idx across
// every vertex of prim.
func applyPaletteUV(d *document.Document, prim *document.Primitive, idx, grid, seq int) error {
	pos := prim.GetAttribute("POSITION")
	if pos == nil {
		return validationErrorf("palette: primitive has no POSITION")
	}
	count := pos.Count()
	col, row := idx%grid, idx/grid
	u := (float64(col) + 0.5) / float64(grid)
	v := (float64(row) + 0.5) / float64(grid)

	arr := accessor.NewArray(accessor.Float, accessor.VEC2, false, count)
	for i := 0; i < count; i++ {
		arr.WriteRaw(i, []float64{u, v})
	}
	a := d.CreateAccessor(fmt.Sprintf("paletteUV-%d", seq))
	a.SetArray(arr)
	prim.SetAttribute("TEXCOORD_0", a)
	return nil
}
