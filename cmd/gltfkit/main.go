// Command gltfkit is a thin CLI adapter over the core library (spec §6
// "CLI surface (external to core; listed for completeness)"): each
// subcommand parses its own flags and calls into ioadapter/transform,
// nothing more. Argument parsing itself is explicitly out of the core's
// scope, so this stays on the standard library's flag package rather than
// pulling in a framework.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrigankad/gltfkit/document"
	"github.com/mrigankad/gltfkit/ext"
	"github.com/mrigankad/gltfkit/ioadapter"
	"github.com/mrigankad/gltfkit/logging"
	"github.com/mrigankad/gltfkit/transform"
)

var commands = map[string]func([]string) error{
	"inspect": runInspect,
	"copy":    runCopy,
	"prune":   runPrune,
	"dedup":   runDedup,
	"merge":   runMerge,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "gltfkit: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err := cmd(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "gltfkit: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gltfkit <inspect|copy|prune|dedup> <input> [output] [flags]")
	fmt.Fprintln(os.Stderr, "       gltfkit merge <input>... <output>")
}

func openInput(path string) (*document.Document, error) {
	log := logging.Default()
	opts := ioadapter.ReadBinaryOptions{Logger: log, Registry: ext.Builtins}
	if hasGLBMagic(path) {
		return ioadapter.ReadBinary(path, opts)
	}
	return ioadapter.ReadJSON(path, opts)
}

func hasGLBMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var magic [4]byte
	if _, err := f.Read(magic[:]); err != nil {
		return false
	}
	return string(magic[:]) == "glTF"
}

func writeOutput(d *document.Document, path string) error {
	if len(path) > 5 && path[len(path)-4:] == ".glb" {
		return ioadapter.WriteBinary(d, path)
	}
	return ioadapter.WriteJSON(d, path)
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("inspect requires an input path")
	}
	d, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	printSummary(d)
	return nil
}

func printSummary(d *document.Document) {
	r := d.Root()
	fmt.Printf("scenes:     %d\n", len(r.ListScenes()))
	fmt.Printf("nodes:      %d\n", len(r.ListNodes()))
	fmt.Printf("meshes:     %d\n", len(r.ListMeshes()))
	fmt.Printf("materials:  %d\n", len(r.ListMaterials()))
	fmt.Printf("textures:   %d\n", len(r.ListTextures()))
	fmt.Printf("accessors:  %d\n", len(r.ListAccessors()))
	fmt.Printf("animations: %d\n", len(r.ListAnimations()))
	fmt.Printf("skins:      %d\n", len(r.ListSkins()))
	fmt.Printf("cameras:    %d\n", len(r.ListCameras()))
	fmt.Printf("buffers:    %d\n", len(r.ListBuffers()))
}

func runCopy(args []string) error {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("copy requires an input and output path")
	}
	d, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	return writeOutput(d, fs.Arg(1))
}

func runPrune(args []string) error {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	keepNames := fs.Bool("keep-named", false, "never prune a property with a non-empty name")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("prune requires an input and output path")
	}
	d, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := d.Transform(transform.Prune(transform.PruneConfig{KeepUniqueNames: *keepNames})); err != nil {
		return err
	}
	return writeOutput(d, fs.Arg(1))
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 3 {
		return fmt.Errorf("merge requires at least two input paths and an output path")
	}
	paths := fs.Args()
	out := paths[len(paths)-1]
	inputs := paths[:len(paths)-1]

	base, err := openInput(inputs[0])
	if err != nil {
		return err
	}
	for _, p := range inputs[1:] {
		other, err := openInput(p)
		if err != nil {
			return err
		}
		if err := base.Transform(transform.Merge(other)); err != nil {
			return err
		}
	}
	return writeOutput(base, out)
}

func runDedup(args []string) error {
	fs := flag.NewFlagSet("dedup", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("dedup requires an input and output path")
	}
	d, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	cfg := transform.DedupConfig{Accessors: true, Meshes: true, Textures: true, Materials: true}
	if err := d.Transform(transform.Dedup(cfg)); err != nil {
		return err
	}
	return writeOutput(d, fs.Arg(1))
}
