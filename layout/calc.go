package layout

import (
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/byvalue/errors"
)

type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

// Calculate returns the layout of t. Types that cannot cross the boundary by
// value (strings, lists, variants, resources) yield an empty Info; use
// Validate to reject them.
func (c *Calculator) Calculate(t wit.Type) Info {
	if s := scalarOf(t); s != ScalarInvalid {
		return Info{Size: s.Size(), Align: s.Size(), Slots: []Slot{{Kind: s}}}
	}
	if td, ok := t.(*wit.TypeDef); ok {
		return c.calculateTypeDef(td)
	}
	return Info{Size: 0, Align: 1}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		names := make([]string, len(kind.Fields))
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			names[i] = f.Name
			types[i] = f.Type
		}
		info = c.calculateSequence(names, types)
	case *wit.Tuple:
		names := make([]string, len(kind.Types))
		for i := range kind.Types {
			names[i] = strconv.Itoa(i)
		}
		info = c.calculateSequence(names, kind.Types)
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

func (c *Calculator) calculateSequence(names []string, types []wit.Type) Info {
	if len(types) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fieldOffs := make(map[string]uint32, len(types))
	var slots []Slot
	maxAlign := uint32(1)
	offset := uint32(0)

	for i, typ := range types {
		fieldLayout := c.Calculate(typ)

		offset = AlignTo(offset, fieldLayout.Align)
		fieldOffs[names[i]] = offset

		for _, s := range fieldLayout.Slots {
			slots = append(slots, Slot{
				Path:   joinPath(names[i], s.Path),
				Kind:   s.Kind,
				Offset: offset + s.Offset,
			})
		}

		if fieldLayout.Align > maxAlign {
			maxAlign = fieldLayout.Align
		}

		offset += fieldLayout.Size
	}

	return Info{
		Size:      AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
		Slots:     slots,
	}
}

// Validate reports an error when t, or anything nested in it, cannot be
// passed by value as plain bytes.
func Validate(t wit.Type) error {
	return validate(t, nil)
}

func validate(t wit.Type, path []string) error {
	if scalarOf(t) != ScalarInvalid {
		return nil
	}
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(path...).
			WitType(typeName(t)).
			Detail("not representable by value").
			Build()
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		for _, f := range kind.Fields {
			if err := validate(f.Type, appendPath(path, f.Name)); err != nil {
				return err
			}
		}
		return nil
	case *wit.Tuple:
		for i, typ := range kind.Types {
			if err := validate(typ, appendPath(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil
	case wit.Type:
		return validate(kind, path)
	default:
		return errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(path...).
			WitType(typeName(td)).
			Detail("not representable by value").
			Build()
	}
}

func appendPath(path []string, name string) []string {
	return append(path[:len(path):len(path)], name)
}

func scalarOf(t wit.Type) Scalar {
	switch t.(type) {
	case wit.Bool:
		return ScalarBool
	case wit.S8:
		return ScalarS8
	case wit.U8:
		return ScalarU8
	case wit.S16:
		return ScalarS16
	case wit.U16:
		return ScalarU16
	case wit.S32:
		return ScalarS32
	case wit.U32:
		return ScalarU32
	case wit.S64:
		return ScalarS64
	case wit.U64:
		return ScalarU64
	case wit.F32:
		return ScalarF32
	case wit.F64:
		return ScalarF64
	case wit.Char:
		return ScalarChar
	default:
		return ScalarInvalid
	}
}

func typeName(t wit.Type) string {
	if s := scalarOf(t); s != ScalarInvalid {
		return s.String()
	}
	switch v := t.(type) {
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch v.Kind.(type) {
		case *wit.Record:
			return "record"
		case *wit.Tuple:
			return "tuple"
		case *wit.List:
			return "list"
		case *wit.Variant:
			return "variant"
		case *wit.Option:
			return "option"
		case *wit.Result:
			return "result"
		}
		return "typedef"
	default:
		return "unknown"
	}
}
