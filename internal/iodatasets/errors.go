package iodatasets

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/errcode"
)

func ReadError(path string, err error) error {
	msg := "Cannot read datasets manifest <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetsReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func ParseError(path string, err error) error {
	msg := "Datasets manifest <em>%s</em> is invalid: %v"
	vars := []any{path, err}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetsParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: bad manifest %s: %w", fn.Name(), path, err),
	}
}

func InvalidError(path string, err error) error {
	msg := "Datasets manifest <em>%s</em> failed validation: %v"
	vars := []any{path, err}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetsInvalidError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: invalid manifest %s: %w", fn.Name(), path, err),
	}
}

func NoDatasetsError(path string) error {
	msg := "No datasets are configured yet; describe them in <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: empty manifest %s", fn.Name(), path),
	}
}

func NotFoundError(name string) error {
	msg := "Dataset <em>%s</em> is not in the manifest"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown dataset %s", fn.Name(), name),
	}
}
