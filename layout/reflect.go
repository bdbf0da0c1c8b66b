package layout

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/wippyai/byvalue/errors"
)

// FromGo derives a layout description from a Go struct type using the
// offsets the Go compiler chose. Field names map to contract names through a
// `wit:"name"` tag or kebab-casing (FirstStruct -> first-struct). Blank fields
// such as structs.HostLayout markers are skipped.
func FromGo(t reflect.Type) (Info, error) {
	if t.Kind() != reflect.Struct {
		return Info{}, errors.TypeMismatch(errors.PhaseLayout, nil, t.String(), "record")
	}

	info := Info{
		FieldOffs: make(map[string]uint32),
		Size:      uint32(t.Size()),
		Align:     uint32(t.Align()),
	}
	if err := collectSlots(t, "", 0, &info); err != nil {
		return Info{}, err
	}
	return info, nil
}

func collectSlots(t reflect.Type, prefix string, base uint32, info *Info) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Name == "_" {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}
		path := joinPath(prefix, name)
		offset := base + uint32(field.Offset)

		if prefix == "" {
			info.FieldOffs[name] = offset
		}

		if field.Type.Kind() == reflect.Struct {
			if err := collectSlots(field.Type, path, offset, info); err != nil {
				return err
			}
			continue
		}

		kind := scalarFromKind(field.Type.Kind())
		if kind == ScalarInvalid {
			return errors.New(errors.PhaseLayout, errors.KindUnsupported).
				Path(strings.Split(path, ".")...).
				GoType(field.Type.String()).
				Detail("no fixed-width contract scalar").
				Build()
		}
		info.Slots = append(info.Slots, Slot{Path: path, Kind: kind, Offset: offset})
	}
	return nil
}

func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("wit"); tag != "" {
		return tag
	}
	return toKebabCase(field.Name)
}

func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// int, uint and uintptr are platform sized and have no contract scalar.
func scalarFromKind(k reflect.Kind) Scalar {
	switch k {
	case reflect.Bool:
		return ScalarBool
	case reflect.Int8:
		return ScalarS8
	case reflect.Uint8:
		return ScalarU8
	case reflect.Int16:
		return ScalarS16
	case reflect.Uint16:
		return ScalarU16
	case reflect.Int32:
		return ScalarS32
	case reflect.Uint32:
		return ScalarU32
	case reflect.Int64:
		return ScalarS64
	case reflect.Uint64:
		return ScalarU64
	case reflect.Float32:
		return ScalarF32
	case reflect.Float64:
		return ScalarF64
	default:
		return ScalarInvalid
	}
}
