package layout

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/wippyai/byvalue/errors"
)

// Compare checks got against the contract want and returns nil when both
// describe the same bytes. Otherwise every diverging slot is reported as a
// layout_mismatch error, combined with multierr.
func Compare(want, got Info) error {
	var err error

	for _, w := range want.Slots {
		g, ok := got.Slot(w.Path)
		if !ok {
			err = multierr.Append(err, errors.LayoutMismatch(splitPath(w.Path), "missing on the compared side"))
			continue
		}
		if g.Kind != w.Kind {
			err = multierr.Append(err, errors.New(errors.PhaseLayout, errors.KindLayoutMismatch).
				Path(splitPath(w.Path)...).
				WitType(w.Kind.String()).
				Detail("kind %s", g.Kind).
				Build())
		}
		if g.Offset != w.Offset {
			err = multierr.Append(err, errors.LayoutMismatch(splitPath(w.Path),
				fmt.Sprintf("offset %d, contract offset %d", g.Offset, w.Offset)))
		}
	}

	for i, g := range got.Slots {
		if _, ok := want.Slot(g.Path); !ok {
			err = multierr.Append(err, errors.LayoutMismatch(splitPath(g.Path), "not in contract"))
			continue
		}
		if i < len(want.Slots) && want.Slots[i].Path != g.Path {
			err = multierr.Append(err, errors.LayoutMismatch(splitPath(g.Path),
				fmt.Sprintf("declared at position %d, contract has %s", i, want.Slots[i].Path)))
		}
	}

	if got.Size != want.Size {
		err = multierr.Append(err, errors.LayoutMismatch(nil,
			fmt.Sprintf("size %d, contract size %d", got.Size, want.Size)))
	}
	if got.Align != want.Align {
		err = multierr.Append(err, errors.LayoutMismatch(nil,
			fmt.Sprintf("align %d, contract align %d", got.Align, want.Align)))
	}

	return err
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
