// Package codec implements the bidirectional GLB/JSON <-> document.Document
// translation (spec §4.E). GLB chunk framing and the low-level glTF JSON
// schema are delegated to github.com/qmuntal/gltf — the single most
// corpus-grounded domain dependency available (it is a direct teacher
// dependency and is required by five other repos in the retrieval pack).
// This package owns everything the spec calls "the hard engineering": the
// graph <-> wire-schema translation, buffer-view layout policy, accessor
// quantization bookkeeping, and the ordered extension read/prewrite/write
// protocol.
package codec

import (
	"github.com/mrigankad/gltfkit/accessor"
	"github.com/qmuntal/gltf"
)

func wireComponentType(c accessor.ComponentType) gltf.ComponentType {
	switch c {
	case accessor.Byte:
		return gltf.ComponentByte
	case accessor.UnsignedByte:
		return gltf.ComponentUbyte
	case accessor.Short:
		return gltf.ComponentShort
	case accessor.UnsignedShort:
		return gltf.ComponentUshort
	case accessor.UnsignedInt:
		return gltf.ComponentUint
	case accessor.Float:
		return gltf.ComponentFloat
	default:
		return gltf.ComponentFloat
	}
}

func fromWireComponentType(c gltf.ComponentType) accessor.ComponentType {
	switch c {
	case gltf.ComponentByte:
		return accessor.Byte
	case gltf.ComponentUbyte:
		return accessor.UnsignedByte
	case gltf.ComponentShort:
		return accessor.Short
	case gltf.ComponentUshort:
		return accessor.UnsignedShort
	case gltf.ComponentUint:
		return accessor.UnsignedInt
	case gltf.ComponentFloat:
		return accessor.Float
	default:
		return accessor.Float
	}
}

func wireElementType(e accessor.ElementType) gltf.AccessorType {
	switch e {
	case accessor.SCALAR:
		return gltf.AccessorScalar
	case accessor.VEC2:
		return gltf.AccessorVec2
	case accessor.VEC3:
		return gltf.AccessorVec3
	case accessor.VEC4:
		return gltf.AccessorVec4
	case accessor.MAT2:
		return gltf.AccessorMat2
	case accessor.MAT3:
		return gltf.AccessorMat3
	case accessor.MAT4:
		return gltf.AccessorMat4
	default:
		return gltf.AccessorScalar
	}
}

func fromWireElementType(e gltf.AccessorType) accessor.ElementType {
	switch e {
	case gltf.AccessorScalar:
		return accessor.SCALAR
	case gltf.AccessorVec2:
		return accessor.VEC2
	case gltf.AccessorVec3:
		return accessor.VEC3
	case gltf.AccessorVec4:
		return accessor.VEC4
	case gltf.AccessorMat2:
		return accessor.MAT2
	case gltf.AccessorMat3:
		return accessor.MAT3
	case gltf.AccessorMat4:
		return accessor.MAT4
	default:
		return accessor.SCALAR
	}
}
