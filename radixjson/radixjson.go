// Package radixjson renders radix conversion results as RFC 8785 canonical
// JSON records, one record per converted value.
//
// The record's input number is emitted in ECMAScript decimal form, so a
// record can be checked against (input).toString(base) in any conforming
// JavaScript engine.
package radixjson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Record is a single conversion result.
type Record struct {
	Base int    `json:"base"`
	Bits string `json:"bits"`
	// Input is nil for NaN and ±Infinity, which JSON cannot represent.
	Input  *float64 `json:"input,omitempty"`
	Output string   `json:"output"`
}

// NewRecord builds the record for formatting f in base as output.
func NewRecord(f float64, base int, output string) Record {
	r := Record{
		Base:   base,
		Bits:   fmt.Sprintf("%016x", math.Float64bits(f)),
		Output: output,
	}
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		in := f
		r.Input = &in
	}
	return r
}

// Marshal returns the JCS canonical encoding of r, without a trailing LF.
func Marshal(r Record) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("radixjson: encode record: %w", err)
	}
	canonical, err := cyberphone.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("radixjson: canonicalize record: %w", err)
	}
	return canonical, nil
}

// DecimalString returns the ECMAScript Number::toString text of a finite f.
func DecimalString(f float64) (string, error) {
	s, err := cyberphone.NumberToJSON(f)
	if err != nil {
		return "", fmt.Errorf("radixjson: format %s: %w", strconv.FormatFloat(f, 'g', -1, 64), err)
	}
	return s, nil
}
