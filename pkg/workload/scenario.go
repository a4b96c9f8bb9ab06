package workload

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/rbtree/pkg/rbtree"
)

// Step is one checked assertion of the reference scenario.
type Step struct {
	Description string `json:"description" yaml:"description"`
	Expected    string `json:"expected"    yaml:"expected"`
	Actual      string `json:"actual"      yaml:"actual"`
	OK          bool   `json:"ok"          yaml:"ok"`
}

// Passed reports whether every step succeeded.
func Passed(steps []Step) bool {
	for _, step := range steps {
		if !step.OK {
			return false
		}
	}

	return true
}

// Scenario inserts 10, 20 and 30, deletes 20, then calls GetOrInsert(15),
// checking shape, order and size after each phase.
func Scenario() []Step {
	var steps []Step

	check := func(description, expected, actual string) {
		steps = append(steps, Step{
			Description: description,
			Expected:    expected,
			Actual:      actual,
			OK:          expected == actual,
		})
	}

	checkAny := func(description string, accepted []string, actual string) {
		steps = append(steps, Step{
			Description: description,
			Expected:    fmt.Sprintf("one of %v", accepted),
			Actual:      actual,
			OK:          slices.Contains(accepted, actual),
		})
	}

	tree := rbtree.NewOrdered[int, string]()
	for _, key := range []int{10, 20, 30} {
		tree.Put(key, "v"+strconv.Itoa(key))
	}

	root := tree.Root()
	check("insert 10, 20, 30: root", "20", nodeKey(root))
	check("insert 10, 20, 30: root children", "10 30", nodeKey(root.Left())+" "+nodeKey(root.Right()))
	check("insert 10, 20, 30: traversal", "[10 20 30]", traversal(tree))
	check("insert 10, 20, 30: invariants", "valid", validity(tree))

	check("delete 20: found", "true", strconv.FormatBool(tree.Delete(20)))
	check("delete 20: traversal", "[10 30]", traversal(tree))
	checkAny("delete 20: root", []string{"10", "30"}, nodeKey(tree.Root()))
	check("delete 20: black-height", "1", strconv.Itoa(tree.BlackHeight()))
	check("delete 20: invariants", "valid", validity(tree))

	value := tree.GetOrInsert(15)
	check("GetOrInsert(15): default value", strconv.Quote(""), strconv.Quote(*value))
	check("GetOrInsert(15): size", "3", strconv.Itoa(tree.Size()))
	check("GetOrInsert(15): traversal", "[10 15 30]", traversal(tree))
	check("GetOrInsert(15): invariants", "valid", validity(tree))

	return steps
}

func nodeKey(nd rbtree.Node[int, string]) string {
	if nd.IsNil() {
		return "<nil>"
	}

	return strconv.Itoa(nd.Key())
}

func traversal(tree *rbtree.Tree[int, string]) string {
	return fmt.Sprint(slices.Collect(tree.Keys()))
}

func validity(tree *rbtree.Tree[int, string]) string {
	err := tree.Validate()
	if err != nil {
		return err.Error()
	}

	return "valid"
}
