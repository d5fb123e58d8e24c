package store

import (
	"strings"

	"servenet/internal/utils"
	"servenet/pkg/types"
)

// FilterByStatus returns the records with the given status, keeping their order.
func FilterByStatus(records []types.Submission, status types.SubmissionStatus) []types.Submission {
	out := make([]types.Submission, 0, len(records))
	for _, record := range records {
		if record.Status == status {
			out = append(out, record)
		}
	}
	return out
}

// FilterByCategoryAndSearch keeps records in category (empty matches all)
// whose title or category contains term, ignoring case.
func FilterByCategoryAndSearch(records []types.Submission, category, term string) []types.Submission {
	category = strings.TrimSpace(category)
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]types.Submission, 0, len(records))
	for _, record := range records {
		if category != "" && !strings.EqualFold(record.Category, category) {
			continue
		}

		if term != "" &&
			!strings.Contains(strings.ToLower(record.Title), term) &&
			!strings.Contains(strings.ToLower(record.Category), term) {
			continue
		}

		out = append(out, record)
	}
	return out
}

func MyData(records []types.Submission) []types.Submission {
	return records
}

func Validated(records []types.Submission) []types.Submission {
	return FilterByStatus(records, types.SubmissionStatusVerified)
}

func Summarize(records []types.Submission) types.RewardSummary {
	summary := types.RewardSummary{Submitted: len(records)}
	for _, record := range records {
		summary.TotalEarned += utils.PtrInt(record.Reward)

		switch record.Status {
		case types.SubmissionStatusPending:
			summary.PendingCount++
		case types.SubmissionStatusVerified:
			summary.ValidatedCount++
		}
	}
	return summary
}
