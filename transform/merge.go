package transform

import "github.com/mrigankad/gltfkit/document"

// Merge copies every mesh/material/texture/accessor/camera/skin/animation
// and the full node/scene hierarchy from src into d, the way a "merge two
// assets into one" CLI command composes multiple files (spec §6 "merge").
// Node/Scene live outside copyToDocument's copyable set (spec §4.G), so
// Merge rebuilds the hierarchy itself against the cloned meshes/cameras,
// the caller role copyToDocument's own doc comment anticipates. Skin
// joints are not rewired against the destination's cloned node tree — the
// same limitation cloneSkin already documents for a bare copyToDocument
// call — so a merged skinned mesh needs its skin rebuilt by hand.
func Merge(src *document.Document) document.Transform {
	return document.Transform{
		Name: "merge",
		Run: func(d *document.Document) error {
			clones, err := copyToDocument(d, src, collectAllProps(src))
			if err != nil {
				return err
			}

			nodeClones := make(map[*document.Node]*document.Node, len(src.Root().ListNodes()))
			for _, n := range src.Root().ListNodes() {
				nodeClones[n] = d.CreateNode(n.Name)
			}
			for _, n := range src.Root().ListNodes() {
				nn := nodeClones[n]
				nn.SetTranslation(n.Translation())
				nn.SetRotation(n.Rotation())
				nn.SetScale(n.Scale())
				if m := n.Mesh(); m != nil {
					if nm, ok := clones[m].(*document.Mesh); ok {
						nn.SetMesh(nm)
					}
				}
				if c := n.Camera(); c != nil {
					if nc, ok := clones[c].(*document.Camera); ok {
						nn.SetCamera(nc)
					}
				}
				for _, child := range n.ListChildren() {
					nn.AddChild(nodeClones[child])
				}
			}

			for _, s := range src.Root().ListScenes() {
				ns := d.CreateScene(s.Name)
				for _, c := range s.ListChildren() {
					ns.AddChild(nodeClones[c])
				}
			}
			return nil
		},
	}
}

func collectAllProps(src *document.Document) []document.Property {
	r := src.Root()
	var out []document.Property
	for _, b := range r.ListBuffers() {
		out = append(out, b)
	}
	for _, a := range r.ListAccessors() {
		out = append(out, a)
	}
	for _, t := range r.ListTextures() {
		out = append(out, t)
	}
	for _, m := range r.ListMaterials() {
		out = append(out, m)
	}
	for _, m := range r.ListMeshes() {
		out = append(out, m)
	}
	for _, c := range r.ListCameras() {
		out = append(out, c)
	}
	for _, s := range r.ListSkins() {
		out = append(out, s)
	}
	for _, a := range r.ListAnimations() {
		out = append(out, a)
	}
	return out
}
