// Package results aggregates raw votes into ranked per-candidate counts.
package results

import (
	"math"
	"sort"

	"github.com/voter-api/internal/domain"
)

// Entry is a candidate as seen by the tally.
type Entry struct {
	ID   string
	Name string
}

// Tally counts votes per candidate. Percentages are relative to the total number
// of ballots, including ones for ids not in candidates. Ties keep input order.
func Tally(candidates []Entry, ballots []string) domain.Results {
	counts := make(map[string]int, len(candidates))
	for _, id := range ballots {
		counts[id]++
	}
	total := len(ballots)

	rows := make([]domain.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		k := counts[c.ID]
		rows = append(rows, domain.CandidateResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       k,
			Percentage:  percentage(k, total),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Votes > rows[j].Votes })

	return domain.Results{TotalVotes: total, Results: rows}
}

// ForSession tallies a session's candidates and votes.
func ForSession(candidates []domain.Candidate, votes []domain.Vote) domain.Results {
	entries := make([]Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = Entry{ID: c.CandidateID, Name: c.Name}
	}
	ballots := make([]string, len(votes))
	for i, v := range votes {
		ballots[i] = v.CandidateID
	}
	return Tally(entries, ballots)
}

// ForStudents tallies approved student candidates over the global student votes.
func ForStudents(candidates []domain.Student, votes []domain.StudentVote) domain.Results {
	entries := make([]Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = Entry{ID: c.IDNo, Name: c.FullName}
	}
	ballots := make([]string, len(votes))
	for i, v := range votes {
		ballots[i] = v.CandidateID
	}
	return Tally(entries, ballots)
}

func percentage(k, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(k) / float64(total)))
}
