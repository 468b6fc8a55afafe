// Package iotable reads the flat whitespace-delimited input tables of
// GNdiv: abundance counts, sample metadata and taxonomy. The first
// row of every file is a header; blank lines and '#' comments are
// skipped. Parsing stops at the first malformed line, reported with
// its file and line number.
package iotable

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gndiv/pkg/ecostats"
)

// LoadAbundance reads a samples x taxa counts table. The header row
// holds taxon identifiers (its first field labels the sample column
// and is ignored); every data row is a sample identifier followed by
// one non-negative integer per taxon.
func LoadAbundance(path string) (*ecostats.AbundanceTable, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows.data) == 0 {
		return nil, EmptyTableError(path)
	}
	taxa := rows.header[1:]

	samples := make([]string, 0, len(rows.data))
	counts := make([][]int, 0, len(rows.data))
	for _, r := range rows.data {
		if len(r.fields) != len(taxa)+1 {
			return nil, FieldCountError(path, r.line, len(taxa)+1, len(r.fields))
		}
		samples = append(samples, r.fields[0])
		row := make([]int, len(taxa))
		for j, f := range r.fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, BadCountError(path, r.line, f, err)
			}
			row[j] = v
		}
		counts = append(counts, row)
	}
	return ecostats.NewAbundanceTable(samples, taxa, counts)
}

// LoadMetadata reads a sample grouping table. The header row holds
// factor names after the sample column; every data row is a sample
// identifier followed by one level per factor.
func LoadMetadata(path string) (*ecostats.SampleMetadata, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows.data) == 0 {
		return nil, EmptyTableError(path)
	}
	factors := rows.header[1:]

	res := &ecostats.SampleMetadata{
		Factors: factors,
		Values:  make(map[string]map[string]string, len(rows.data)),
	}
	for _, r := range rows.data {
		if len(r.fields) != len(factors)+1 {
			return nil, FieldCountError(path, r.line, len(factors)+1, len(r.fields))
		}
		sample := r.fields[0]
		if _, ok := res.Values[sample]; ok {
			return nil, DuplicateRowError(path, r.line, sample)
		}
		res.Samples = append(res.Samples, sample)
		vals := make(map[string]string, len(factors))
		for j, f := range factors {
			vals[f] = r.fields[j+1]
		}
		res.Values[sample] = vals
	}
	return res, nil
}

// LoadTaxonomy reads a taxon hierarchy table. The header row holds
// rank names after the taxon column; missing labels may be written as
// "NA" or "-" and are normalized to empty strings.
func LoadTaxonomy(path string) (*ecostats.TaxonomyTable, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows.data) == 0 {
		return nil, EmptyTableError(path)
	}
	ranks := rows.header[1:]

	res := &ecostats.TaxonomyTable{
		Ranks:  ranks,
		Labels: make(map[string][]string, len(rows.data)),
	}
	for _, r := range rows.data {
		if len(r.fields) != len(ranks)+1 {
			return nil, FieldCountError(path, r.line, len(ranks)+1, len(r.fields))
		}
		taxon := r.fields[0]
		if _, ok := res.Labels[taxon]; ok {
			return nil, DuplicateRowError(path, r.line, taxon)
		}
		labels := make([]string, len(ranks))
		for j, f := range r.fields[1:] {
			if f == "NA" || f == "-" {
				f = ""
			}
			labels[j] = f
		}
		res.Labels[taxon] = labels
	}
	return res, nil
}

type tableRow struct {
	line   int
	fields []string
}

type tableRows struct {
	header []string
	data   []tableRow
}

func readRows(path string) (*tableRows, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer func() { _ = fh.Close() }()

	res := &tableRows{}
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if res.header == nil {
			if len(fields) < 2 {
				return nil, FieldCountError(path, ln, 2, len(fields))
			}
			res.header = fields
			continue
		}
		res.data = append(res.data, tableRow{line: ln, fields: fields})
	}
	if err := sc.Err(); err != nil {
		return nil, OpenError(path, err)
	}
	if res.header == nil {
		return nil, EmptyTableError(path)
	}
	return res, nil
}
