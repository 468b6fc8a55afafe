package iotable

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot read table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func EmptyTableError(path string) error {
	msg := "Table <em>%s</em> has no data rows"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: empty table %s", fn.Name(), path),
	}
}

func FieldCountError(path string, line, want, got int) error {
	msg := "<em>%s:%d</em> has %d fields, expected %d"
	vars := []any{path, line, got, want}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s:%d bad field count %d (want %d)",
			fn.Name(), path, line, got, want),
	}
}

func BadCountError(path string, line int, field string, err error) error {
	msg := "<em>%s:%d</em> has a non-integer count '%s'"
	vars := []any{path, line, field}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s:%d bad count %q: %w",
			fn.Name(), path, line, field, err),
	}
}

func DuplicateRowError(path string, line int, id string) error {
	msg := "<em>%s:%d</em> repeats identifier '%s'"
	vars := []any{path, line, id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableDuplicateSampleError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s:%d duplicate id %s",
			fn.Name(), path, line, id),
	}
}
