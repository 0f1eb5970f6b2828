package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row は 1 レコードを列名から生文字列への対応に変換したものです。
type Row struct {
	Line   int
	Values map[string]string
}

// RowReader は区切り文字付きテキストを固定の列順で Row に変換します。
type RowReader struct {
	csv    *csv.Reader
	fields []string
}

// NewRowReader は fields の順序で各レコードを解釈する RowReader を生成します。
func NewRowReader(src io.Reader, fields []string) *RowReader {
	br := bufio.NewReader(src)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	return &RowReader{csv: r, fields: fields}
}

// Next は次の Row を返します。終端では io.EOF を返します。
func (r *RowReader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return Row{}, rowError(pe.Line, "", pe.Err)
		}
		return Row{}, fmt.Errorf("ingest: read record: %w", err)
	}

	line, _ := r.csv.FieldPos(0)
	return ParseRecord(line, r.fields, record)
}

// ParseRecord は 1 レコードを fields の順に対応付けます。列数が一致しない場合は RowError を返します。
func ParseRecord(line int, fields, record []string) (Row, error) {
	if len(record) != len(fields) {
		return Row{}, rowError(line, "", fmt.Errorf("%w: want %d, got %d", ErrColumnCount, len(fields), len(record)))
	}

	values := make(map[string]string, len(fields))
	for i, name := range fields {
		values[name] = record[i]
	}
	return Row{Line: line, Values: values}, nil
}
