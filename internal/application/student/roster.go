package student

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/pkg/validate"
)

// rosterRow is one line of a roster CSV: id_no,full_name,email[,admin].
type rosterRow struct {
	IDNo     string `json:"id_no" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Admin    bool   `json:"admin"`
}

// ParseRoster reads roster rows from r. A first line starting with "id_no"
// is treated as a header. Rows are validated; the first bad row aborts the
// parse with its line number.
func ParseRoster(r io.Reader) ([]domain.Student, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []domain.Student
	seen := make(map[string]int)
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first && strings.EqualFold(strings.TrimSpace(rec[0]), "id_no") {
			continue
		}
		row, err := parseRosterRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if prev, dup := seen[row.IDNo]; dup {
			return nil, fmt.Errorf("line %d: id_no %s already listed on line %d", line, row.IDNo, prev)
		}
		seen[row.IDNo] = line
		out = append(out, domain.Student{
			IDNo:     row.IDNo,
			FullName: row.FullName,
			Email:    row.Email,
			Admin:    row.Admin,
		})
	}
	return out, nil
}

func parseRosterRecord(rec []string) (rosterRow, error) {
	if len(rec) < 3 || len(rec) > 4 {
		return rosterRow{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(rec))
	}
	row := rosterRow{
		IDNo:     strings.TrimSpace(rec[0]),
		FullName: strings.TrimSpace(rec[1]),
		Email:    strings.ToLower(strings.TrimSpace(rec[2])),
	}
	if len(rec) == 4 && strings.TrimSpace(rec[3]) != "" {
		admin, err := strconv.ParseBool(strings.TrimSpace(rec[3]))
		if err != nil {
			return rosterRow{}, errors.New("admin must be true or false")
		}
		row.Admin = admin
	}
	if err := validate.Struct(row); err != nil {
		return rosterRow{}, err
	}
	return row, nil
}

type rosterWriter interface {
	Put(ctx context.Context, s *domain.Student) error
}

// ImportRoster upserts every student and returns how many were written.
// It stops at the first store error.
func ImportRoster(ctx context.Context, store rosterWriter, students []domain.Student) (int, error) {
	for i := range students {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := store.Put(ctx, &students[i]); err != nil {
			return i, fmt.Errorf("put %s: %w", students[i].IDNo, err)
		}
	}
	return len(students), nil
}
