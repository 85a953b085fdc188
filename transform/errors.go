package transform

import (
	"fmt"

	gltfkit "github.com/mrigankad/gltfkit"
)

func validationErrorf(format string, args ...any) error {
	return &gltfkit.ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func dependencyMissing(key string) error {
	return &gltfkit.DependencyMissing{Key: key}
}
