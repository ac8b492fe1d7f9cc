package binding

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrHeaderMismatch reports an append whose header row differs from the
// fields of the existing dataset. The dataset is left untouched.
var ErrHeaderMismatch = errors.New("csv header mismatch")

// Dataset is an ordered field list plus the imported rows. Every record's
// keys are a subset of Fields.
type Dataset struct {
	Fields  []string
	Records []Record
}

// ImportCSV builds a new dataset from CSV content. The first non-empty line
// is the header defining the fields (trimmed, order preserved); following
// lines map positionally, with ragged rows padded by empty strings.
func ImportCSV(r io.Reader) (*Dataset, error) {
	fields, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return &Dataset{Fields: fields, Records: records}, nil
}

// Append imports more rows into an existing dataset. The incoming header
// must equal the dataset's fields exactly (same names, same order);
// otherwise the append is rejected and the dataset is unchanged.
func (d *Dataset) Append(r io.Reader) error {
	fields, records, err := readCSV(r)
	if err != nil {
		return err
	}
	if !equalFields(d.Fields, fields) {
		return fmt.Errorf("%w: dataset has [%s], file has [%s]",
			ErrHeaderMismatch, strings.Join(d.Fields, ","), strings.Join(fields, ","))
	}
	d.Records = append(d.Records, records...)
	return nil
}

// Replace swaps the dataset content for a fresh import. Unlike Append it
// accepts any header; it is the explicit "start over" operation.
func (d *Dataset) Replace(r io.Reader) error {
	fields, records, err := readCSV(r)
	if err != nil {
		return err
	}
	d.Fields = fields
	d.Records = records
	return nil
}

// HasField reports whether the dataset defines the given field.
func (d *Dataset) HasField(name string) bool {
	if d == nil {
		return false
	}
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Len returns the number of records; safe on a nil dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

func readCSV(r io.Reader) ([]string, []Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are padded, not rejected
	cr.TrimLeadingSpace = true

	var fields []string
	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}
		if fields == nil {
			fields = make([]string, 0, len(row))
			seen := map[string]bool{}
			for _, cell := range row {
				name := strings.TrimSpace(cell)
				if name == "" || seen[name] {
					return nil, nil, fmt.Errorf("invalid csv header: empty or duplicate field %q", name)
				}
				seen[name] = true
				fields = append(fields, name)
			}
			continue
		}
		rec := make(Record, len(fields))
		for i, name := range fields {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	if fields == nil {
		return nil, nil, fmt.Errorf("invalid csv: no header row")
	}
	return fields, records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
