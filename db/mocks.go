package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func NewSessionMock() *SessionMock {
	return &SessionMock{}
}

func (o *SessionMock) Select(ctx context.Context, dest interface{}, query string, values ...interface{}) error {
	args := o.Called(dest, query, values)
	return args.Error(0)
}

func (o *SessionMock) Get(ctx context.Context, dest interface{}, query string, values ...interface{}) error {
	args := o.Called(dest, query, values)
	return args.Error(0)
}

func (o *SessionMock) ExecuteIter(ctx context.Context, query string, values ...interface{}) (ResultSet, error) {
	args := o.Called(query, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ResultSet), args.Error(1)
}

func (o *SessionMock) Close() error {
	return o.Called().Error(0)
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) Columns() []string {
	args := o.Called()
	return args.Get(0).([]string)
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}

// NewResultMock returns a result set of rows, columns are taken from the first row
func NewResultMock(rows ...map[string]interface{}) *ResultMock {
	result := &ResultMock{}
	columns := make([]string, 0)
	if len(rows) > 0 {
		for column := range rows[0] {
			columns = append(columns, column)
		}
	}
	result.On("Columns").Return(columns)
	result.On("Values").Return(rows)
	return result
}
