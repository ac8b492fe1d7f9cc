package binding

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustImport(t *testing.T, csv string) *Dataset {
	t.Helper()
	d, err := ImportCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return d
}

func TestImportCSV(t *testing.T) {
	d := mustImport(t, "sku, name ,qty\nA-100,Widget,3\nB-200,Gadget,7\n")
	if !reflect.DeepEqual(d.Fields, []string{"sku", "name", "qty"}) {
		t.Fatalf("fields: %v", d.Fields)
	}
	if d.Len() != 2 {
		t.Fatalf("records: %d", d.Len())
	}
	if d.Records[1]["name"] != "Gadget" {
		t.Fatalf("record value: %q", d.Records[1]["name"])
	}
}

func TestImportCSVRaggedRows(t *testing.T) {
	d := mustImport(t, "a,b,c\n1,2\n4,5,6\n")
	want := Record{"a": "1", "b": "2", "c": ""}
	if !reflect.DeepEqual(d.Records[0], want) {
		t.Fatalf("ragged row: %v", d.Records[0])
	}
}

func TestImportCSVSkipsLeadingBlankLines(t *testing.T) {
	d := mustImport(t, "\n\nsku\nA-100\n")
	if !reflect.DeepEqual(d.Fields, []string{"sku"}) {
		t.Fatalf("fields: %v", d.Fields)
	}
	if d.Len() != 1 {
		t.Fatalf("records: %d", d.Len())
	}
}

func TestImportCSVRejectsBadHeader(t *testing.T) {
	for _, csv := range []string{"", "a,,c\n1,2,3\n", "a,a\n1,2\n"} {
		if _, err := ImportCSV(strings.NewReader(csv)); err == nil {
			t.Fatalf("expected error for header %q", csv)
		}
	}
}

// TestAppendHeaderMismatch: an append with different columns is rejected
// and the original dataset is unchanged, fields and rows.
func TestAppendHeaderMismatch(t *testing.T) {
	d := mustImport(t, "A,B,C\n1,2,3\n")
	fieldsBefore := append([]string(nil), d.Fields...)
	recordsBefore := make([]Record, len(d.Records))
	copy(recordsBefore, d.Records)

	err := d.Append(strings.NewReader("A,B\n4,5\n"))
	if err == nil {
		t.Fatal("expected header mismatch")
	}
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("expected ErrHeaderMismatch, got %v", err)
	}
	if !reflect.DeepEqual(d.Fields, fieldsBefore) || !reflect.DeepEqual(d.Records, recordsBefore) {
		t.Fatal("rejected append modified the dataset")
	}

	// Reordered columns are also a mismatch: equality is exact, order included.
	if err := d.Append(strings.NewReader("B,A,C\n4,5,6\n")); !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("reordered header: %v", err)
	}
}

func TestAppendMatchingHeader(t *testing.T) {
	d := mustImport(t, "A,B\n1,2\n")
	if err := d.Append(strings.NewReader("A,B\n3,4\n5,6\n")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("after append: %d records", d.Len())
	}
}

// TestReplace swaps content wholesale and accepts a different header; it is
// the explicit alternative to Append.
func TestReplace(t *testing.T) {
	d := mustImport(t, "A,B\n1,2\n")
	if err := d.Replace(strings.NewReader("X\nfoo\n")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !reflect.DeepEqual(d.Fields, []string{"X"}) || d.Len() != 1 {
		t.Fatalf("replace result: %v, %d records", d.Fields, d.Len())
	}
}

func TestDatasetNilSafety(t *testing.T) {
	var d *Dataset
	if d.Len() != 0 {
		t.Fatal("nil dataset length")
	}
	if d.HasField("a") {
		t.Fatal("nil dataset field")
	}
}
