// Package dbtest provides pgx test doubles for repository unit tests.
package dbtest

import (
	"context"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockDBTX is a testify mock of database.DBTX.
type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// Row is a pgx.Row that scans Values into the destinations, or fails with Err.
type Row struct {
	Values []any
	Err    error
}

func (r *Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Values, dest)
}

// Rows is a pgx.Rows over in-memory data.
type Rows struct {
	Data    [][]any
	ScanErr error
	ErrVal  error

	idx    int
	closed bool
}

// NewRows returns Rows positioned before the first row.
func NewRows(data ...[]any) *Rows {
	return &Rows{Data: data, idx: -1}
}

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	r.idx++
	return r.idx < len(r.Data)
}

func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	return assign(r.Data[r.idx], dest)
}

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return r.ErrVal }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Values() ([]any, error)                       { return nil, nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

// assign copies values into scan destinations. A nil value zeroes the target.
func assign(values []any, dest []any) error {
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if i >= len(values) || values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(values[i]))
	}
	return nil
}
