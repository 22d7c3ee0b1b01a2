package student

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/voter-api/internal/domain"
)

type mockRosterWriter struct{ mock.Mock }

func (m *mockRosterWriter) Put(ctx context.Context, s *domain.Student) error {
	return m.Called(ctx, s).Error(0)
}

func TestParseRoster_HeaderAndRows(t *testing.T) {
	in := `id_no,full_name,email,admin
# staff
2021001, Ada Lovelace, Ada@Example.com
2021002,Alan Turing,alan@example.com,true
`
	got, err := ParseRoster(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Student{IDNo: "2021001", FullName: "Ada Lovelace", Email: "ada@example.com"}, got[0])
	assert.True(t, got[1].Admin)
	assert.False(t, got[1].Registered)
}

func TestParseRoster_NoHeader(t *testing.T) {
	got, err := ParseRoster(strings.NewReader("7,Grace Hopper,grace@example.com\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].IDNo)
}

func TestParseRoster_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"too few fields", "1,Ada\n", "line 1: expected 3 or 4 fields, got 2"},
		{"bad email", "1,Ada,not-an-email\n", "line 1: email must be a valid email address"},
		{"missing name", "1,,ada@example.com\n", "line 1: full_name is required"},
		{"bad admin flag", "1,Ada,ada@example.com,maybe\n", "line 1: admin must be true or false"},
		{"duplicate id", "1,Ada,ada@example.com\n1,Alan,alan@example.com\n", "line 2: id_no 1 already listed on line 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRoster(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestImportRoster(t *testing.T) {
	students := []domain.Student{{IDNo: "1"}, {IDNo: "2"}, {IDNo: "3"}}
	store := new(mockRosterWriter)
	store.On("Put", mock.Anything, &students[0]).Return(nil)
	store.On("Put", mock.Anything, &students[1]).Return(errors.New("throttled"))

	n, err := ImportRoster(context.Background(), store, students)
	assert.Equal(t, 1, n)
	assert.EqualError(t, err, "put 2: throttled")
	store.AssertNumberOfCalls(t, "Put", 2)
}

func TestImportRoster_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := new(mockRosterWriter)

	n, err := ImportRoster(ctx, store, []domain.Student{{IDNo: "1"}})
	assert.Zero(t, n)
	assert.ErrorIs(t, err, context.Canceled)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}
