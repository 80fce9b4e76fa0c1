package compensation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("connection refused")

type fakeSchemas struct {
	fields []compensation.ReportField
	err    error
}

func (f *fakeSchemas) GetActiveSchema(ctx context.Context, clubID string) ([]compensation.ReportField, error) {
	return f.fields, f.err
}

type fakeRegistry struct {
	defs []compensation.MetricDefinition
	err  error
}

func (f *fakeRegistry) ListMetrics(ctx context.Context) ([]compensation.MetricDefinition, error) {
	return f.defs, f.err
}

type fakeAssignments struct {
	items []compensation.Assignment
	err   error
}

func (f *fakeAssignments) ListActive(ctx context.Context, clubID string) ([]compensation.Assignment, error) {
	return f.items, f.err
}

type fakeSchemes struct {
	mu      sync.Mutex
	schemes map[string]compensation.Scheme
	err     error
	created []compensation.Scheme
}

func (f *fakeSchemes) GetByID(ctx context.Context, id string, clubID string) (compensation.Scheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return compensation.Scheme{}, f.err
	}
	s, ok := f.schemes[id]
	if !ok || s.ClubID != clubID {
		return compensation.Scheme{}, compensation.ErrSchemeNotFound
	}
	return s, nil
}

func (f *fakeSchemes) GetLatestByName(ctx context.Context, name string, clubID string) (compensation.Scheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *compensation.Scheme
	for _, s := range f.schemes {
		s := s
		if s.Name != name || s.ClubID != clubID {
			continue
		}
		if latest == nil || s.Version > latest.Version {
			latest = &s
		}
	}
	if latest == nil {
		return compensation.Scheme{}, compensation.ErrSchemeNotFound
	}
	return *latest, nil
}

func (f *fakeSchemes) CreateVersion(ctx context.Context, scheme compensation.Scheme) (compensation.Scheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.schemes == nil {
		f.schemes = make(map[string]compensation.Scheme)
	}
	scheme.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.schemes[scheme.ID] = scheme
	f.created = append(f.created, scheme)
	return scheme, nil
}

type fakeShifts struct {
	mu     sync.Mutex
	shifts []compensation.Shift
	err    error
	saved  [][]compensation.SnapshotWrite
}

func (f *fakeShifts) ListByClubPeriod(ctx context.Context, clubID string, from, to time.Time, statuses []compensation.ShiftStatus) ([]compensation.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []compensation.Shift
	for _, s := range f.shifts {
		if s.ClubID != clubID || s.CheckIn.Before(from) || s.CheckIn.After(to) {
			continue
		}
		for _, st := range statuses {
			if s.Status == st {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeShifts) SaveSnapshots(ctx context.Context, clubID string, writes []compensation.SnapshotWrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, writes)
	for _, w := range writes {
		for i := range f.shifts {
			if f.shifts[i].ID != w.ShiftID {
				continue
			}
			salary := w.CalculatedSalary
			snapshot := w.Snapshot
			f.shifts[i].CalculatedSalary = &salary
			f.shifts[i].SalaryBreakdown = w.SalaryBreakdown
			f.shifts[i].SalarySnapshot = &snapshot
			f.shifts[i].Status = compensation.ShiftStatusPaid
		}
	}
	return nil
}

type fakeSchedule struct {
	planned map[string]int
	err     error
}

func (f *fakeSchedule) CountPlannedShifts(ctx context.Context, clubID string, employeeID string, from, to time.Time) (int, error) {
	return f.planned[employeeID], f.err
}

type fakeLedger struct {
	payments map[string][]compensation.PaymentRecord
	err      error
}

func (f *fakeLedger) ListPayments(ctx context.Context, clubID string, employeeID string, month, year int) ([]compensation.PaymentRecord, error) {
	return f.payments[employeeID], f.err
}

type fakeEvaluations struct {
	scores map[string]compensation.EvaluationScore
	err    error
}

func (f *fakeEvaluations) GetAverage(ctx context.Context, clubID string, employeeID string, from, to time.Time) (compensation.EvaluationScore, error) {
	return f.scores[employeeID], f.err
}

type fakeMaintenance struct {
	bonuses map[string]compensation.MaintenanceBonus
	err     error
}

func (f *fakeMaintenance) GetBonus(ctx context.Context, clubID string, employeeID string, month, year int) (compensation.MaintenanceBonus, error) {
	return f.bonuses[employeeID], f.err
}

type fixture struct {
	schemas     *fakeSchemas
	registry    *fakeRegistry
	assignments *fakeAssignments
	schemes     *fakeSchemes
	shifts      *fakeShifts
	schedule    *fakeSchedule
	ledger      *fakeLedger
	evaluations *fakeEvaluations
	maintenance *fakeMaintenance
}

const (
	testClub     = "0199a0c0-0000-7000-8000-000000000001"
	testScheme   = "0199a0c0-0000-7000-8000-0000000000a1"
	testEmployee = "0199a0c0-0000-7000-8000-0000000000e1"
)

func newFixture() *fixture {
	return &fixture{
		schemas:     &fakeSchemas{err: compensation.ErrTemplateNotFound},
		registry:    &fakeRegistry{},
		assignments: &fakeAssignments{},
		schemes:     &fakeSchemes{schemes: map[string]compensation.Scheme{}},
		shifts:      &fakeShifts{},
		schedule:    &fakeSchedule{planned: map[string]int{}},
		ledger:      &fakeLedger{payments: map[string][]compensation.PaymentRecord{}},
		evaluations: &fakeEvaluations{scores: map[string]compensation.EvaluationScore{}},
		maintenance: &fakeMaintenance{bonuses: map[string]compensation.MaintenanceBonus{}},
	}
}

func (f *fixture) service() *CompensationServiceImpl {
	svc := NewCompensationService(Repositories{
		Schemas:     f.schemas,
		Registry:    f.registry,
		Assignments: f.assignments,
		Schemes:     f.schemes,
		Shifts:      f.shifts,
		Schedule:    f.schedule,
		Payments:    f.ledger,
		Evaluations: f.evaluations,
		Maintenance: f.maintenance,
	}, Options{
		Workers: 2,
		Now:     func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) },
		NewID:   func() string { return "0199a0c0-0000-7000-8000-0000000000f1" },
	})
	return svc.(*CompensationServiceImpl)
}

func (f *fixture) assign(id, name string) {
	f.assignments.items = append(f.assignments.items, compensation.Assignment{
		EmployeeID: id,
		FullName:   name,
		Role:       "admin",
		SchemeID:   testScheme,
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func closedShift(id, employeeID string, day int, hours, cash, card string) compensation.Shift {
	checkIn := time.Date(2025, 3, day, 10, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	return compensation.Shift{
		ID:         id,
		ClubID:     testClub,
		EmployeeID: employeeID,
		CheckIn:    checkIn,
		CheckOut:   &checkOut,
		Status:     compensation.ShiftStatusClosed,
		TotalHours: strPtr(hours),
		CashIncome: strPtr(cash),
		CardIncome: strPtr(card),
		ReportData: map[string]interface{}{},
	}
}

func mustBonus(t *testing.T, raw string) compensation.PeriodBonus {
	t.Helper()
	b, err := compensation.ParsePeriodBonus(json.RawMessage(raw))
	require.NoError(t, err)
	return b
}

func findSummary(summaries []compensation.EmployeeSummary, employeeID string) *compensation.EmployeeSummary {
	for i := range summaries {
		if summaries[i].EmployeeID == employeeID {
			return &summaries[i]
		}
	}
	return nil
}
