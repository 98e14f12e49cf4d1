package mti

import (
	"fmt"
	"math/big"
)

// MeshKind selects the semantics of a tile's tile_id.
type MeshKind uint8

const (
	MeshKindJISX0410 MeshKind = 1
	MeshKindXYZ      MeshKind = 2
)

func meshKindFromCode(code uint8) (MeshKind, error) {
	switch code {
	case uint8(MeshKindJISX0410):
		return MeshKindJISX0410, nil
	case uint8(MeshKindXYZ):
		return MeshKindXYZ, nil
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("invalid mesh_kind code %d", code))
	}
}

func (k MeshKind) String() string {
	switch k {
	case MeshKindJISX0410:
		return "JIS_X0410"
	case MeshKindXYZ:
		return "XYZ"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
	}
}

// ParseMeshKind parses the CLI/JSON spelling of a mesh kind.
func ParseMeshKind(s string) (MeshKind, error) {
	switch s {
	case "jis_x0410", "JIS_X0410":
		return MeshKindJISX0410, nil
	case "xyz", "XYZ":
		return MeshKindXYZ, nil
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("unrecognized mesh_kind %q", s))
	}
}

const (
	zoomBits    = 6
	quadkeyBits = 58
	maxZoom     = 29
	quadkeyMask = uint64(1)<<quadkeyBits - 1
)

// XYZTileID is the decoded form of an XYZ-scheme tile_id.
type XYZTileID struct {
	Zoom    uint8
	X       uint32
	Y       uint32
	Quadkey uint64
}

// EncodeXYZ packs (zoom, x, y) into the 64-bit tile_id MTI1 uses for
// MeshKindXYZ (spec.md §4.5): the top 6 bits hold zoom, the low 58 bits hold
// the quadkey integer built by interleaving x/y bits from the highest zoom
// bit down to bit 0.
func EncodeXYZ(zoom uint8, x, y uint32) (uint64, error) {
	if zoom > maxZoom {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("zoom must be <= %d, got %d", maxZoom, zoom))
	}
	limit := uint32(1) << zoom
	if x >= limit || y >= limit {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("x,y must be in [0, 2^%d), got x=%d y=%d", zoom, x, y))
	}

	var quadkey uint64
	for level := int(zoom) - 1; level >= 0; level-- {
		xBit := (x >> level) & 1
		yBit := (y >> level) & 1
		digit := uint64(xBit) | uint64(yBit)<<1
		quadkey = quadkey<<2 | digit
	}

	return uint64(zoom)<<quadkeyBits | quadkey, nil
}

// DecodeXYZ unpacks an XYZ-scheme tile_id back into (zoom, x, y, quadkey).
func DecodeXYZ(tileID uint64) (XYZTileID, error) {
	if err := assertValidXYZInternal(tileID); err != nil {
		return XYZTileID{}, err
	}

	zoom := uint8(tileID >> quadkeyBits)
	quadkey := tileID & quadkeyMask

	var x, y uint32
	for level := 0; level < int(zoom); level++ {
		shift := (int(zoom) - level - 1) * 2
		digit := (quadkey >> shift) & 0x3
		x = x<<1 | uint32(digit&0b01)
		y = y<<1 | uint32((digit&0b10)>>1)
	}

	return XYZTileID{Zoom: zoom, X: x, Y: y, Quadkey: quadkey}, nil
}

// AssertValidXYZ validates tileID as an XYZ-scheme tile_id and returns it
// unchanged on success (spec.md §6 library surface).
func AssertValidXYZ(tileID uint64) (uint64, error) {
	if err := assertValidXYZInternal(tileID); err != nil {
		return 0, err
	}
	return tileID, nil
}

func assertValidXYZInternal(tileID uint64) error {
	zoom := tileID >> quadkeyBits
	if zoom > maxZoom {
		return newErr(InvalidFieldValue, fmt.Sprintf("XYZ tile_id zoom must be <= %d, got %d", maxZoom, zoom))
	}

	quadkey := tileID & quadkeyMask
	if 2*zoom < quadkeyBits {
		maxQuadkey := uint64(1) << (2 * zoom)
		if quadkey >= maxQuadkey {
			return newErr(InvalidFieldValue, "XYZ tile_id quadkey_integer must be < 4^zoom")
		}
	}

	return nil
}

// validateTileIDForMeshKind applies the structural check required for
// tileID given meshKind (spec.md invariant 5/6): XYZ ids are bit-structure
// checked, JIS X0410 ids are accepted as any unsigned 64-bit value.
func validateTileIDForMeshKind(tileID uint64, meshKind MeshKind) error {
	if meshKind == MeshKindXYZ {
		return assertValidXYZInternal(tileID)
	}
	return nil
}

// NormalizeTileID accepts a tile id expressed as an integer, an
// unsigned-digit string, or a native big integer, and returns it as a u64,
// rejecting negatives, non-digit strings, and values outside [0, 2^64)
// (spec.md §4.5).
func NormalizeTileID(value any) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case int64:
		if v < 0 {
			return 0, newErr(InvalidFieldValue, "tile_id must not be negative")
		}
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, newErr(InvalidFieldValue, "tile_id must not be negative")
		}
		return uint64(v), nil
	case string:
		return normalizeTileIDString(v)
	case *big.Int:
		return normalizeTileIDBigInt(v)
	default:
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("unsupported tile_id representation %T", value))
	}
}

func normalizeTileIDString(s string) (uint64, error) {
	if s == "" {
		return 0, newErr(InvalidFieldValue, "tile_id string must not be empty")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, newErr(InvalidFieldValue, fmt.Sprintf("tile_id string %q contains non-digit characters", s))
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, newErr(InvalidFieldValue, fmt.Sprintf("tile_id string %q is not a valid unsigned integer", s))
	}
	return normalizeTileIDBigInt(n)
}

func normalizeTileIDBigInt(n *big.Int) (uint64, error) {
	if n.Sign() < 0 {
		return 0, newErr(InvalidFieldValue, "tile_id must not be negative")
	}
	if n.BitLen() > 64 {
		return 0, newErr(InvalidFieldValue, "tile_id must be within [0, 2^64)")
	}
	return n.Uint64(), nil
}
