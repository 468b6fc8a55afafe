package ecostats

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/errcode"
)

func ShapeError(samples, rows int) error {
	msg := "Abundance table has %d samples but %d count rows"
	vars := []any{samples, rows}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %d samples, %d rows",
			fn.Name(), samples, rows),
	}
}

func RowShapeError(sample string, want, got int) error {
	msg := "Sample <em>%s</em> has %d counts, expected %d"
	vars := []any{sample, got, want}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: sample %s: %d counts, want %d",
			fn.Name(), sample, got, want),
	}
}

func DuplicateSampleError(sample string) error {
	msg := "Sample <em>%s</em> appears more than once"
	vars := []any{sample}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableDuplicateSampleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: duplicate sample %s", fn.Name(), sample),
	}
}

func DuplicateTaxonError(taxon string) error {
	msg := "Taxon <em>%s</em> appears more than once"
	vars := []any{taxon}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableDuplicateTaxonError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: duplicate taxon %s", fn.Name(), taxon),
	}
}

func NegativeAbundanceError(sample, taxon string, count int) error {
	msg := "Sample <em>%s</em>, taxon <em>%s</em> has negative count %d"
	vars := []any{sample, taxon, count}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NegativeAbundanceError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: negative count %d for %s/%s",
			fn.Name(), count, sample, taxon),
	}
}

func EmptySampleError(sample string) error {
	msg := "Sample <em>%s</em> has zero total abundance, " +
		"diversity indices are undefined for it"
	vars := []any{sample}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EmptySampleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: empty sample %s", fn.Name(), sample),
	}
}

func SampleMismatchError(missing, extra []string) error {
	msg := "Abundance table and metadata samples differ " +
		"(missing from metadata: [%s]; missing from table: [%s])"
	vars := []any{strings.Join(missing, " "), strings.Join(extra, " ")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SampleMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: sample sets differ: -%v +%v",
			fn.Name(), missing, extra),
	}
}

func UnknownFactorError(factor string, known []string) error {
	msg := "Factor <em>%s</em> is not in the metadata (has: %s)"
	vars := []any{factor, strings.Join(known, ", ")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnknownFactorError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown factor %s", fn.Name(), factor),
	}
}

func RarefactionDepthError(depth, minTotal int, sample string) error {
	msg := "Rarefaction depth %d exceeds the total of sample <em>%s</em> (%d)"
	vars := []any{depth, sample, minTotal}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RarefactionDepthError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: depth %d > %d for %s",
			fn.Name(), depth, minTotal, sample),
	}
}

func OrdinationError(err error) error {
	msg := "Eigendecomposition failed during ordination"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.OrdinationError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
