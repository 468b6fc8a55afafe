package stattest

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/errcode"
)

func DegenerateGroupError(group string, size int) error {
	msg := "Group <em>%s</em> has %d sample(s); at least 2 are needed " +
		"for a variance-based test"
	vars := []any{group, size}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DegenerateGroupError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: group %s has %d samples",
			fn.Name(), group, size),
	}
}

func SingleGroupError(k int) error {
	msg := "Found %d group level(s); at least 2 are needed"
	vars := []any{k}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SingleGroupError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %d group levels", fn.Name(), k),
	}
}

func MissingCellError(missing int) error {
	msg := "%d factor level combination(s) have no samples; " +
		"the interaction cannot be estimated"
	vars := []any{missing}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DegenerateGroupError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %d empty cells", fn.Name(), missing),
	}
}

func NoResidualError(n, cells int) error {
	msg := "No residual degrees of freedom: %d samples across %d cells"
	vars := []any{n, cells}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DegenerateGroupError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: n=%d, cells=%d",
			fn.Name(), n, cells),
	}
}

func lengthMismatchError(want, got int) error {
	msg := "Values and group labels differ in length: %d vs %d"
	vars := []any{want, got}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DistanceShapeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %d vs %d", fn.Name(), want, got),
	}
}
