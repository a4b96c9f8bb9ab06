package workload

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
)

// maxDiffLines caps the mismatch excerpt embedded in a divergence error.
const maxDiffLines = 16

// compareTraversal checks that an in-order walk of the tree lists exactly the
// oracle's entries in comparator order.
func (r *runner) compareTraversal() error {
	keys := make([]int, 0, len(r.oracle))
	for key := range r.oracle {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	if r.cfg.Order == config.OrderDescending {
		slices.Reverse(keys)
	}

	var want, got strings.Builder

	for _, key := range keys {
		writeEntry(&want, key, r.oracle[key])
	}

	for key, value := range r.tree.All() {
		writeEntry(&got, key, value)
	}

	if want.String() == got.String() {
		return nil
	}

	return fmt.Errorf("%w: traversal mismatch\n%s", ErrDivergence, lineDiff(want.String(), got.String()))
}

func writeEntry(sb *strings.Builder, key, value int) {
	sb.WriteString(strconv.Itoa(key))
	sb.WriteByte('=')
	sb.WriteString(strconv.Itoa(value))
	sb.WriteByte('\n')
}

// lineDiff renders the differing lines between want and got, "-" for lines
// only the oracle has and "+" for lines only the tree has.
func lineDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	wantChars, gotChars, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(wantChars, gotChars, false), lines)

	var (
		sb      strings.Builder
		written int
	)

	for _, diff := range diffs {
		var prefix string

		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
			continue
		}

		for _, line := range strings.Split(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			if written == maxDiffLines {
				sb.WriteString("...\n")

				return sb.String()
			}

			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')

			written++
		}
	}

	return sb.String()
}
