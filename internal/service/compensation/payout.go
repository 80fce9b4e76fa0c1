package compensation

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

// CommitPayout recomputes the month and freezes the requested shifts with the
// values the summary shows. The store writes every snapshot in one transaction.
func (s *CompensationServiceImpl) CommitPayout(ctx context.Context, clubID string, req compensation.PayoutRequest) (compensation.PayoutResponse, error) {
	if clubID == "" {
		return compensation.PayoutResponse{}, compensation.ErrClubIDRequired
	}
	if err := req.Validate(); err != nil {
		return compensation.PayoutResponse{}, err
	}

	summaries, err := s.GetCompensationSummary(ctx, clubID, req.Month, req.Year)
	if err != nil {
		return compensation.PayoutResponse{}, err
	}

	lines := make(map[string]compensation.ShiftSummary)
	for _, summary := range summaries {
		for _, line := range summary.Shifts {
			lines[line.ID] = line
		}
	}

	payoutID := s.opts.NewID()
	paidAt := s.opts.Now().UTC()

	seen := make(map[string]bool, len(req.ShiftIDs))
	writes := make([]compensation.SnapshotWrite, 0, len(req.ShiftIDs))
	total := decimal.Zero
	for _, id := range req.ShiftIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		line, ok := lines[id]
		switch {
		case !ok:
			return compensation.PayoutResponse{}, fmt.Errorf("%w: %s", compensation.ErrShiftNotFound, id)
		case line.IsActive:
			return compensation.PayoutResponse{}, fmt.Errorf("%w: %s", compensation.ErrShiftNotFinished, id)
		case line.IsFrozen:
			return compensation.PayoutResponse{}, fmt.Errorf("%w: %s", compensation.ErrShiftAlreadyPaid, id)
		}

		writes = append(writes, compensation.SnapshotWrite{
			ShiftID:          id,
			CalculatedSalary: line.CalculatedSalary,
			SalaryBreakdown:  line.SalaryBreakdown,
			Snapshot: compensation.SalarySnapshot{
				PaidAt:   &paidAt,
				PaidBy:   req.PaidBy,
				PayoutID: payoutID,
			},
		})
		total = total.Add(line.CalculatedSalary)
	}
	if len(writes) == 0 {
		return compensation.PayoutResponse{}, compensation.ErrEmptyPayout
	}

	if err := s.repos.Shifts.SaveSnapshots(ctx, clubID, writes); err != nil {
		return compensation.PayoutResponse{}, fmt.Errorf("save payout snapshots: %w", err)
	}

	return compensation.PayoutResponse{
		PayoutID:    payoutID,
		ShiftCount:  len(writes),
		TotalAmount: total,
		PaidAt:      paidAt,
	}, nil
}
