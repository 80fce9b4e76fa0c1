package compensation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Repositories groups the collaborators the engine reads from.
type Repositories struct {
	Schemas     compensation.SchemaProvider
	Registry    compensation.MetricRegistry
	Assignments compensation.AssignmentRepository
	Schemes     compensation.SchemeRepository
	Shifts      compensation.ShiftStore
	Schedule    compensation.ScheduleProvider
	Payments    compensation.PaymentLedger
	Evaluations compensation.EvaluationService
	Maintenance compensation.MaintenanceService
}

type Options struct {
	Workers        int
	StandardShifts int
	Location       *time.Location

	Now   func() time.Time
	NewID func() string
}

type CompensationServiceImpl struct {
	repos Repositories
	opts  Options
}

func NewCompensationService(repos Repositories, opts Options) compensation.CompensationService {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.StandardShifts <= 0 {
		opts.StandardShifts = DefaultStandardShifts
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	return &CompensationServiceImpl{
		repos: repos,
		opts:  opts,
	}
}

// PeriodWindow returns the first and last instant of the month in loc.
func PeriodWindow(month, year int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to
}

// period - request scoped values shared by every employee task
type period struct {
	clubID string
	month  int
	year   int
	from   time.Time
	to     time.Time
	cc     *ClassificationContext
}

func (s *CompensationServiceImpl) GetCompensationSummary(ctx context.Context, clubID string, month, year int) ([]compensation.EmployeeSummary, error) {
	if clubID == "" {
		return nil, compensation.ErrClubIDRequired
	}
	req := compensation.SummaryRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := PeriodWindow(month, year, s.opts.Location)
	cc, err := s.classification(ctx, clubID)
	if err != nil {
		return nil, err
	}
	p := period{clubID: clubID, month: month, year: year, from: from, to: to, cc: cc}

	assignments, err := s.repos.Assignments.ListActive(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list active assignments: %w", err)
	}
	if len(assignments) == 0 {
		return []compensation.EmployeeSummary{}, nil
	}

	schemes, err := s.loadSchemes(ctx, clubID, assignments)
	if err != nil {
		return nil, err
	}

	shifts, err := s.repos.Shifts.ListByClubPeriod(ctx, clubID, from, to, compensation.SummaryStatuses)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	byEmployee := make(map[string][]compensation.Shift)
	for _, sh := range shifts {
		byEmployee[sh.EmployeeID] = append(byEmployee[sh.EmployeeID], sh)
	}

	results := make([]*compensation.EmployeeSummary, len(assignments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, a := range assignments {
		i, a := i, a
		g.Go(func() error {
			summary, err := s.summarizeEmployee(gctx, p, a, schemes[a.SchemeID], byEmployee[a.EmployeeID])
			if err != nil {
				return fmt.Errorf("employee %s: %w", a.EmployeeID, err)
			}
			results[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]compensation.EmployeeSummary, 0, len(results))
	for _, r := range results {
		if r == nil || !hasActivity(*r) {
			continue
		}
		summaries = append(summaries, *r)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].FullName != summaries[j].FullName {
			return summaries[i].FullName < summaries[j].FullName
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})

	return summaries, nil
}

func (s *CompensationServiceImpl) classification(ctx context.Context, clubID string) (*ClassificationContext, error) {
	fields, err := s.repos.Schemas.GetActiveSchema(ctx, clubID)
	if err != nil {
		if !errors.Is(err, compensation.ErrTemplateNotFound) {
			return nil, fmt.Errorf("get active report template: %w", err)
		}
		slog.WarnContext(ctx, "no active report template, classifying metrics by key only", "club_id", clubID)
		fields = nil
	}

	registry, err := s.repos.Registry.ListMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metric registry: %w", err)
	}

	return NewClassificationContext(fields, registry), nil
}

// loadSchemes fetches each distinct scheme once. A missing scheme pays zero
// for its employees; if none of the schemes exist the request fails.
func (s *CompensationServiceImpl) loadSchemes(ctx context.Context, clubID string, assignments []compensation.Assignment) (map[string]compensation.Scheme, error) {
	schemes := make(map[string]compensation.Scheme)
	found := 0
	for _, a := range assignments {
		if _, ok := schemes[a.SchemeID]; ok {
			continue
		}

		scheme, err := s.repos.Schemes.GetByID(ctx, a.SchemeID, clubID)
		if err != nil {
			if !errors.Is(err, compensation.ErrSchemeNotFound) {
				return nil, fmt.Errorf("get scheme %s: %w", a.SchemeID, err)
			}
			slog.WarnContext(ctx, "compensation scheme not found, paying zero",
				"club_id", clubID,
				"scheme_id", a.SchemeID,
			)
			schemes[a.SchemeID] = compensation.Scheme{ID: a.SchemeID, ClubID: clubID}
			continue
		}

		for _, r := range scheme.Rejected {
			slog.WarnContext(ctx, "invalid period bonus dropped",
				"club_id", clubID,
				"scheme_id", scheme.ID,
				"index", r.Index,
				"error", r.Err,
			)
		}
		schemes[a.SchemeID] = scheme
		found++
	}

	if found == 0 {
		return nil, compensation.ErrSchemeMissing
	}
	return schemes, nil
}

func (s *CompensationServiceImpl) summarizeEmployee(
	ctx context.Context,
	p period,
	a compensation.Assignment,
	scheme compensation.Scheme,
	shifts []compensation.Shift,
) (*compensation.EmployeeSummary, error) {
	payments, err := s.repos.Payments.ListPayments(ctx, p.clubID, a.EmployeeID, p.month, p.year)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	planned, err := s.repos.Schedule.CountPlannedShifts(ctx, p.clubID, a.EmployeeID, p.from, p.to)
	if err != nil {
		return nil, fmt.Errorf("count planned shifts: %w", err)
	}

	evaluation, err := s.repos.Evaluations.GetAverage(ctx, p.clubID, a.EmployeeID, p.from, p.to)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.WarnContext(ctx, "evaluation unavailable, using zero",
			"employee_id", a.EmployeeID,
			"error", err,
		)
		evaluation = compensation.EvaluationScore{EmployeeID: a.EmployeeID, AverageScore: decimal.Zero}
	}

	maintenance, err := s.repos.Maintenance.GetBonus(ctx, p.clubID, a.EmployeeID, p.month, p.year)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.WarnContext(ctx, "maintenance bonus unavailable, using zero",
			"employee_id", a.EmployeeID,
			"error", err,
		)
		maintenance = compensation.MaintenanceBonus{EmployeeID: a.EmployeeID}
	}

	summary := &compensation.EmployeeSummary{
		EmployeeID:       a.EmployeeID,
		FullName:         a.FullName,
		Role:             a.Role,
		SchemeID:         scheme.ID,
		SchemeVersion:    scheme.Version,
		PlannedShifts:    planned,
		MaintenanceBonus: maintenance.Total(),
		Evaluation: compensation.EvaluationSummary{
			AverageScore: evaluation.AverageScore,
			Count:        evaluation.Count,
		},
		Shifts:   make([]compensation.ShiftSummary, 0, len(shifts)),
		Payments: payments,
	}
	if summary.Payments == nil {
		summary.Payments = []compensation.PaymentRecord{}
	}

	var finished []compensation.Shift
	var finishedMetrics []ShiftMetrics
	monthly := make(map[string]decimal.Decimal)
	for _, sh := range shifts {
		if sh.Status == compensation.ShiftStatusActive {
			summary.Shifts = append(summary.Shifts, compensation.ShiftSummary{
				ID:               sh.ID,
				CheckIn:          sh.CheckIn,
				CheckOut:         sh.CheckOut,
				Status:           sh.Status,
				IsActive:         true,
				CalculatedSalary: decimal.Zero,
			})
			continue
		}
		m := AggregateShiftMetrics(ctx, sh, p.cc)
		for k, v := range m.Values {
			monthly[k] = monthly[k].Add(v)
		}
		finished = append(finished, sh)
		finishedMetrics = append(finishedMetrics, m)
		summary.DataIssues = append(summary.DataIssues, m.Issues...)
	}

	shiftsCount := len(finished)
	injected := map[string]decimal.Decimal{
		compensation.MetricEvaluationScore: evaluation.AverageScore,
		compensation.MetricEvaluationCount: decimal.NewFromInt(int64(evaluation.Count)),
	}
	for k, v := range injected {
		monthly[k] = v
	}
	monthly[compensation.MetricMaintenanceBonus] = maintenance.Total()
	monthly[compensation.MetricShiftsCount] = decimal.NewFromInt(int64(shiftsCount))
	if _, ok := monthly[compensation.MetricTotalRevenue]; !ok {
		monthly[compensation.MetricTotalRevenue] = decimal.Zero
	}
	if _, ok := monthly[compensation.MetricTotalHours]; !ok {
		monthly[compensation.MetricTotalHours] = decimal.Zero
	}
	avg := decimal.Zero
	if shiftsCount > 0 {
		avg = money.Round2(monthly[compensation.MetricTotalRevenue].Div(decimal.NewFromInt(int64(shiftsCount))))
	}
	monthly[compensation.MetricAvgRevenuePerShift] = avg

	standard := StandardShifts(a, scheme, s.opts.StandardShifts)
	att := Attendance{Shifts: shiftsCount, Planned: planned}
	statuses := make([]compensation.BonusStatus, 0, len(scheme.Bonuses))
	for _, b := range scheme.Bonuses {
		statuses = append(statuses, ResolveBonus(b, att, standard, monthly[b.MetricKey]))
	}

	input := EvaluationInput{
		Scheme:      scheme,
		Bonuses:     statuses,
		Injected:    injected,
		ShiftsCount: shiftsCount,
	}
	accrued := decimal.Zero
	for i, sh := range finished {
		m := finishedMetrics[i]
		salary, err := EvaluateShift(sh, m, input)
		if err != nil {
			return nil, err
		}
		line := compensation.ShiftSummary{
			ID:               sh.ID,
			CheckIn:          sh.CheckIn,
			CheckOut:         sh.CheckOut,
			Status:           sh.Status,
			IsFrozen:         salary.Frozen,
			TotalHours:       m.Values[compensation.MetricTotalHours],
			TotalRevenue:     m.Values[compensation.MetricTotalRevenue],
			CalculatedSalary: salary.CalculatedSalary,
			SalaryBreakdown:  salary.Breakdown,
			Metrics:          m.Values,
		}
		if sh.SalarySnapshot != nil {
			line.PaidAt = sh.SalarySnapshot.PaidAt
		}
		accrued = accrued.Add(salary.CalculatedSalary)
		summary.Shifts = append(summary.Shifts, line)
	}

	sort.SliceStable(summary.Shifts, func(i, j int) bool {
		if !summary.Shifts[i].CheckIn.Equal(summary.Shifts[j].CheckIn) {
			return summary.Shifts[i].CheckIn.After(summary.Shifts[j].CheckIn)
		}
		return summary.Shifts[i].ID < summary.Shifts[j].ID
	})

	paid := decimal.Zero
	for _, pay := range summary.Payments {
		paid = paid.Add(pay.Amount)
	}

	catalog := make(map[string]compensation.MetricInfo, len(monthly))
	for k := range monthly {
		catalog[k] = p.cc.Classify(k)
	}

	summary.ShiftsCount = shiftsCount
	summary.TotalHours = monthly[compensation.MetricTotalHours]
	summary.TotalRevenue = monthly[compensation.MetricTotalRevenue]
	summary.AvgRevenuePerShift = avg
	summary.TotalAccrued = accrued
	summary.TotalPaid = paid
	summary.Balance = accrued.Sub(paid)
	summary.BonusesStatus = statuses
	summary.MonthlyMetrics = monthly
	summary.MetricCatalog = catalog

	return summary, nil
}

func hasActivity(s compensation.EmployeeSummary) bool {
	return s.ShiftsCount > 0 || !s.TotalAccrued.IsZero() || !s.TotalPaid.IsZero()
}
