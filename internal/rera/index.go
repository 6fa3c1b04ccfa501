// Package rera loads a rental index CSV and resolves the average annual rent
// for a property. It lives outside the audit core: the engine only ever sees
// the resolved benchmark number.
package rera

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one rental index record. BedroomsMin/Max bound the bedroom count
// the average applies to; Furnished is optional and empty means any.
type Row struct {
	City              string
	Area              string
	PropertyType      string
	BedroomsMin       int
	BedroomsMax       int
	Furnished         string
	AverageAnnualRent float64
}

// Query selects a rental index row.
type Query struct {
	City         string
	Area         string
	PropertyType string
	Bedrooms     int
	Furnished    string
}

// requiredColumns are the headers a rental index CSV must carry.
var requiredColumns = []string{
	"city", "area", "property_type", "bedrooms_min", "bedrooms_max", "average_annual_rent_aed",
}

// Load parses a rental index CSV. The header row is mandatory; column order
// is free. Rows with unparseable numbers are rejected, not skipped, since a
// silent gap in the index would skew audits.
func Load(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("rera: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("rera: missing column %q", want)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("rera: line %d: %w", line, err)
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		bmin, err := strconv.Atoi(get("bedrooms_min"))
		if err != nil {
			return nil, fmt.Errorf("rera: line %d: bedrooms_min: %w", line, err)
		}
		bmax, err := strconv.Atoi(get("bedrooms_max"))
		if err != nil {
			return nil, fmt.Errorf("rera: line %d: bedrooms_max: %w", line, err)
		}
		avg, err := strconv.ParseFloat(get("average_annual_rent_aed"), 64)
		if err != nil {
			return nil, fmt.Errorf("rera: line %d: average_annual_rent_aed: %w", line, err)
		}

		rows = append(rows, Row{
			City:              get("city"),
			Area:              get("area"),
			PropertyType:      get("property_type"),
			BedroomsMin:       bmin,
			BedroomsMax:       bmax,
			Furnished:         get("furnished"),
			AverageAnnualRent: avg,
		})
	}
	return rows, nil
}

// LoadFile loads a rental index CSV from disk.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rera: open index: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the average annual rent for the first row matching the
// query. Text fields compare case-insensitively; an empty Furnished on
// either side matches anything.
func Lookup(rows []Row, q Query) (float64, bool) {
	for _, r := range rows {
		if !strings.EqualFold(r.City, q.City) ||
			!strings.EqualFold(r.Area, q.Area) ||
			!strings.EqualFold(r.PropertyType, q.PropertyType) {
			continue
		}
		if q.Bedrooms < r.BedroomsMin || q.Bedrooms > r.BedroomsMax {
			continue
		}
		if r.Furnished != "" && q.Furnished != "" && !strings.EqualFold(r.Furnished, q.Furnished) {
			continue
		}
		return r.AverageAnnualRent, true
	}
	return 0, false
}
