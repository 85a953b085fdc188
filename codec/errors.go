package codec

import (
	"fmt"

	gltfkit "github.com/mrigankad/gltfkit"
)

func parseErrorf(format string, args ...any) error {
	return &gltfkit.ParseError{Msg: fmt.Sprintf(format, args...)}
}

func validationErrorf(format string, args ...any) error {
	return &gltfkit.ValidationError{Msg: fmt.Sprintf(format, args...)}
}
