package jsontable

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ungerik/go-fs"

	"github.com/domonda/go-memtable"
)

func mustTable(t *testing.T, records [][]string) *memtable.Table {
	t.Helper()
	table, err := memtable.NewTableFromStrings(records)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestWriter_WriteView(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		writer   *Writer
		records  [][]string
		wantDest string
	}{
		{
			name:   "mixed kinds",
			writer: NewWriter(),
			records: [][]string{
				{"Name", "Born", "Count", "Ratio", "Note"},
				{"Alice", "1984-05-14", "42", "6.5", "hello"},
				{"Bob", "2001-01-02 15:04:05", "-7", "-0.5", ""},
			},
			wantDest: `{"Name":"Alice","Born":"1984-05-14","Count":42,"Ratio":6.5,"Note":"hello"}` + "\n" +
				`{"Name":"Bob","Born":"2001-01-02 15:04:05","Count":-7,"Ratio":-0.5,"Note":null}` + "\n",
		},
		{
			name:   "no rows",
			writer: NewWriter(),
			records: [][]string{
				{"A", "B"},
			},
			wantDest: "",
		},
		{
			name:   "escaped strings and keys",
			writer: NewWriter(),
			records: [][]string{
				{`Quo"te`, "B"},
				{`He said "hi"`, "multi\nline"},
			},
			wantDest: `{"Quo\"te":"He said \"hi\"","B":"multi\nline"}` + "\n",
		},
		{
			name:   "omit empty",
			writer: NewWriter().WithOmitEmpty(true),
			records: [][]string{
				{"A", "B"},
				{"x", ""},
				{"", ""},
			},
			wantDest: `{"A":"x"}` + "\n" + `{}` + "\n",
		},
		{
			name:   "custom newline",
			writer: NewWriter().WithNewLine("\r\n"),
			records: [][]string{
				{"A"},
				{"1"},
				{"2"},
			},
			wantDest: `{"A":1}` + "\r\n" + `{"A":2}` + "\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest bytes.Buffer
			err := tt.writer.WriteView(ctx, &dest, mustTable(t, tt.records))
			if err != nil {
				t.Fatalf("WriteView() error = %v", err)
			}
			if dest.String() != tt.wantDest {
				t.Errorf("WriteView() wrote %q, want %q", dest.String(), tt.wantDest)
			}
		})
	}
}

func TestWriter_WriteView_nonFiniteFloats(t *testing.T) {
	table, err := memtable.NewTable("A", "B", "C")
	if err != nil {
		t.Fatal(err)
	}
	err = table.AppendRow(
		memtable.FloatValue(math.NaN()),
		memtable.FloatValue(math.Inf(1)),
		memtable.FloatValue(math.Inf(-1)),
	)
	if err != nil {
		t.Fatal(err)
	}

	var dest bytes.Buffer
	err = NewWriter().WriteView(context.Background(), &dest, table)
	if err != nil {
		t.Fatalf("WriteView() error = %v", err)
	}
	want := `{"A":null,"B":null,"C":null}` + "\n"
	if dest.String() != want {
		t.Errorf("WriteView() wrote %q, want %q", dest.String(), want)
	}
}

func TestWriter_WriteView_contextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dest bytes.Buffer
	table := mustTable(t, [][]string{{"A"}, {"1"}})
	err := NewWriter().WriteView(ctx, &dest, table)
	if err == nil {
		t.Fatal("WriteView() expected context error")
	}
	if dest.Len() != 0 {
		t.Errorf("WriteView() wrote %q after cancellation", dest.String())
	}
}

func TestWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.jsonl")
	table := mustTable(t, [][]string{
		{"A", "B"},
		{"1", "x"},
	})
	err := NewWriter().WriteFile(context.Background(), fs.File(path), table)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"A":1,"B":"x"}` + "\n"
	if string(data) != want {
		t.Errorf("WriteFile() wrote %q, want %q", string(data), want)
	}
}
