package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Table loading errors
	TableOpenError
	TableParseError
	TableEmptyError
	TableDuplicateSampleError
	TableDuplicateTaxonError

	// Input validation errors
	NegativeAbundanceError
	EmptySampleError
	SampleMismatchError
	UnknownFactorError

	// Statistics errors
	DegenerateGroupError
	SingleGroupError
	RarefactionDepthError
	DistanceShapeError
	OrdinationError

	// Taxonomy annotation errors
	TaxaParseError

	// Cache errors
	CacheNotOpenError
	CacheDirError
	CacheEncodeError
	CacheDecodeError

	// Dataset manifest errors
	DatasetsReadError
	DatasetsParseError
	DatasetsInvalidError
	DatasetNotFoundError

	// Report errors
	ReportWriteError
)
