package iocache

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/errcode"
)

func NotOpenError() error {
	msg := "Cache database is not open"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheNotOpenError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cache not open", fn.Name()),
	}
}

func DirError(dir string, err error) error {
	msg := "Cannot prepare cache directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cache dir %s: %w", fn.Name(), dir, err),
	}
}

func EncodeError(key string, err error) error {
	msg := "Cannot encode cache entry %s"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheEncodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: encode %s: %w", fn.Name(), key, err),
	}
}

func DecodeError(key string, err error) error {
	msg := "Cannot decode cache entry %s"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: decode %s: %w", fn.Name(), key, err),
	}
}
