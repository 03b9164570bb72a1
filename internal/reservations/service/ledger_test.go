package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reservationerrors "shuttle/internal/reservations/errors"
	"shuttle/pkg/config"
	mongotx "shuttle/pkg/db/mongo"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/logger"
	"shuttle/pkg/model"
)

// ────────────────────────────────────────────────
// In-memory repositories for testing
// ────────────────────────────────────────────────

type memoryReservationRepo struct {
	mu           sync.Mutex
	reservations []*model.Reservation
	nextID       int
	clock        time.Time
}

func newMemoryReservationRepo() *memoryReservationRepo {
	return &memoryReservationRepo{clock: time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)}
}

func (m *memoryReservationRepo) Create(ctx context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Millisecond)
	r.ID = fmt.Sprintf("res%04d", m.nextID)
	r.CreatedAt = m.clock
	stored := *r
	m.reservations = append(m.reservations, &stored)
	return nil
}

func (m *memoryReservationRepo) FindCurrent(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.EmployeeID == employeeID && r.ScheduleID == scheduleID && r.Date == date && r.Status != model.ReservationCancelled {
			copied := *r
			return &copied, nil
		}
	}
	return nil, reservationerrors.ErrNotFound
}

func (m *memoryReservationRepo) FindLatest(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.Reservation
	for _, r := range m.reservations {
		if r.EmployeeID != employeeID || r.ScheduleID != scheduleID || r.Date != date {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) || (r.CreatedAt.Equal(latest.CreatedAt) && r.ID > latest.ID) {
			latest = r
		}
	}
	if latest == nil {
		return nil, reservationerrors.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *memoryReservationRepo) CountActive(ctx context.Context, scheduleID, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.reservations {
		if r.ScheduleID == scheduleID && r.Date == date && r.Status == model.ReservationActive {
			count++
		}
	}
	return count, nil
}

func (m *memoryReservationRepo) FindEarliestWaitlisted(ctx context.Context, scheduleID, date string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var waitlisted []*model.Reservation
	for _, r := range m.reservations {
		if r.ScheduleID == scheduleID && r.Date == date && r.Status == model.ReservationWaitlisted {
			waitlisted = append(waitlisted, r)
		}
	}
	if len(waitlisted) == 0 {
		return nil, reservationerrors.ErrNoWaitlisted
	}
	sort.Slice(waitlisted, func(i, j int) bool {
		if !waitlisted[i].CreatedAt.Equal(waitlisted[j].CreatedAt) {
			return waitlisted[i].CreatedAt.Before(waitlisted[j].CreatedAt)
		}
		return waitlisted[i].ID < waitlisted[j].ID
	})
	copied := *waitlisted[0]
	return &copied, nil
}

func (m *memoryReservationRepo) SetStatus(ctx context.Context, id, status string, cancelledAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			r.Status = status
			if cancelledAt != nil {
				r.CancelledAt = cancelledAt
			}
			return nil
		}
	}
	return reservationerrors.ErrNotFound
}

func (m *memoryReservationRepo) FindByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.EmployeeID == employeeID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryReservationRepo) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.reservations {
		if r.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (m *memoryReservationRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

// timeoutCountRepo fails the seat count the way a slow store would.
type timeoutCountRepo struct {
	*memoryReservationRepo
	err error
}

func (t *timeoutCountRepo) CountActive(ctx context.Context, scheduleID, date string) (int64, error) {
	return 0, t.err
}

func (m *memoryReservationRepo) activeCount(scheduleID, date string) int {
	count, _ := m.CountActive(context.Background(), scheduleID, date)
	return int(count)
}

type memorySeatLockRepo struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newMemorySeatLockRepo() *memorySeatLockRepo {
	return &memorySeatLockRepo{locks: map[string]bool{}}
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (m *memorySeatLockRepo) Acquire(ctx context.Context, lock *model.SeatLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[lock.ID] {
		return duplicateKeyError()
	}
	m.locks[lock.ID] = true
	return nil
}

func (m *memorySeatLockRepo) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockID)
	return nil
}

func testConfig(waitlist bool) *config.Config {
	log := logger.New(logger.Config{
		Level:   "error",
		Service: "test",
	})
	return &config.Config{
		Log:                  log,
		WaitlistEnabled:      waitlist,
		SeatLockTTL:          time.Second,
		SeatLockMaxAttempts:  50,
		SeatLockRetryBackoff: time.Millisecond,
		StoreMaxRetries:      2,
		StoreRetryBackoff:    time.Millisecond,
	}
}

func newTestLedger(waitlist bool) (SeatLedger, *memoryReservationRepo, *memorySeatLockRepo) {
	repo := newMemoryReservationRepo()
	locks := newMemorySeatLockRepo()
	return NewSeatLedger(repo, locks, testConfig(waitlist)), repo, locks
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

// ────────────────────────────────────────────────
// Reserve
// ────────────────────────────────────────────────

func TestReserve_GrantsSeatUnderCapacity(t *testing.T) {
	ledger, _, _ := newTestLedger(false)

	r, err := ledger.Reserve(context.Background(), "emp1", "sched1", "2026-03-04", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != model.ReservationActive {
		t.Errorf("expected active, got %s", r.Status)
	}
	if r.ID == "" {
		t.Error("expected reservation ID to be assigned")
	}
}

func TestReserve_RejectsDuplicate(t *testing.T) {
	ledger, _, _ := newTestLedger(false)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 2); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	_, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 2)
	assertCode(t, err, "DUPLICATE_BOOKING")
}

func TestReserve_RejectsDuplicateWhileWaitlisted(t *testing.T) {
	ledger, _, _ := newTestLedger(true)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "empX", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve X failed: %v", err)
	}
	waiting, err := ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 1)
	if err != nil || waiting.Status != model.ReservationWaitlisted {
		t.Fatalf("expected A waitlisted, got %v status %s", err, waiting.Status)
	}

	_, err = ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 1)
	assertCode(t, err, "DUPLICATE_BOOKING")
}

func TestReserve_StoreTimeoutIsTransient(t *testing.T) {
	repo := &timeoutCountRepo{
		memoryReservationRepo: newMemoryReservationRepo(),
		err:                   fmt.Errorf("failed to count active reservations: %w", context.DeadlineExceeded),
	}
	ledger := NewSeatLedger(repo, newMemorySeatLockRepo(), testConfig(false))

	_, err := ledger.Reserve(context.Background(), "emp1", "sched1", "2026-03-04", 2)
	assertCode(t, err, "STORE_UNAVAILABLE")
	if !apperrors.IsTransient(err) {
		t.Error("store timeout must be retryable")
	}
}

func TestReserve_SameEmployeeDifferentDate(t *testing.T) {
	ledger, _, _ := newTestLedger(false)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 2); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-05", 2); err != nil {
		t.Fatalf("reserve on another date failed: %v", err)
	}
}

func TestReserve_RejectsWhenFull(t *testing.T) {
	ledger, _, _ := newTestLedger(false)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	_, err := ledger.Reserve(ctx, "emp2", "sched1", "2026-03-04", 1)
	assertCode(t, err, "CAPACITY_EXCEEDED")
}

func TestReserve_WaitlistsWhenFull(t *testing.T) {
	ledger, _, _ := newTestLedger(true)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	r, err := ledger.Reserve(ctx, "emp2", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != model.ReservationWaitlisted {
		t.Errorf("expected waitlisted, got %s", r.Status)
	}
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	ledger, repo, _ := newTestLedger(false)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := ledger.Reserve(context.Background(), fmt.Sprintf("emp%d", n), "sched1", "2026-03-04", 1)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var granted, rejected int
	for err := range results {
		if err == nil {
			granted++
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != "CAPACITY_EXCEEDED" {
			t.Fatalf("unexpected error: %v", err)
		}
		rejected++
	}
	if granted != 1 {
		t.Errorf("expected exactly 1 granted seat, got %d", granted)
	}
	if rejected != callers-1 {
		t.Errorf("expected %d rejections, got %d", callers-1, rejected)
	}
	if got := repo.activeCount("sched1", "2026-03-04"); got != 1 {
		t.Errorf("expected 1 active reservation in store, got %d", got)
	}
}

func TestReserve_LockContentionExhaustsAttempts(t *testing.T) {
	repo := newMemoryReservationRepo()
	locks := newMemorySeatLockRepo()
	cfg := testConfig(false)
	cfg.SeatLockMaxAttempts = 3
	ledger := NewSeatLedger(repo, locks, cfg)

	// Hold the lock for the whole test so every attempt collides.
	held := &model.SeatLock{ID: "seat_lock_sched1_2026-03-04", ExpiresAt: time.Now().Add(time.Minute)}
	if err := locks.Acquire(context.Background(), held); err != nil {
		t.Fatalf("failed to pre-acquire lock: %v", err)
	}

	_, err := ledger.Reserve(context.Background(), "emp1", "sched1", "2026-03-04", 1)
	assertCode(t, err, "CONFLICT")
}

func TestReserve_ReleasesLockAfterRejection(t *testing.T) {
	ledger, _, locks := newTestLedger(false)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "emp2", "sched1", "2026-03-04", 1); err == nil {
		t.Fatal("expected capacity rejection")
	}
	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Errorf("expected all locks released, %d still held", len(locks.locks))
	}
}

// ────────────────────────────────────────────────
// Cancel
// ────────────────────────────────────────────────

func TestCancel_NoActiveBooking(t *testing.T) {
	ledger, _, _ := newTestLedger(false)

	_, _, err := ledger.Cancel(context.Background(), "emp1", "sched1", "2026-03-04", 1)
	assertCode(t, err, "NOT_FOUND")
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	ledger, _, _ := newTestLedger(false)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, _, err := ledger.Cancel(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_, _, err := ledger.Cancel(ctx, "emp1", "sched1", "2026-03-04", 1)
	assertCode(t, err, "NOT_FOUND")
}

func TestCancel_ThenRebookGetsFreshReservation(t *testing.T) {
	ledger, _, _ := newTestLedger(false)
	ctx := context.Background()

	first, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	cancelled, _, err := ledger.Cancel(ctx, "emp1", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("expected cancelled_at to be stamped")
	}

	second, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("rebook failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("rebooking must create a fresh reservation, not revive the cancelled one")
	}
	if second.Status != model.ReservationActive {
		t.Errorf("expected active, got %s", second.Status)
	}
}

func TestCancel_PromotesEarliestWaitlisted(t *testing.T) {
	ledger, _, _ := newTestLedger(true)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "empX", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve X failed: %v", err)
	}
	waitA, err := ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 1)
	if err != nil || waitA.Status != model.ReservationWaitlisted {
		t.Fatalf("expected A waitlisted, got %v status %s", err, waitA.Status)
	}
	waitB, err := ledger.Reserve(ctx, "empB", "sched1", "2026-03-04", 1)
	if err != nil || waitB.Status != model.ReservationWaitlisted {
		t.Fatalf("expected B waitlisted, got %v status %s", err, waitB.Status)
	}

	_, promoted, err := ledger.Cancel(ctx, "empX", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if promoted == nil {
		t.Fatal("expected a promotion")
	}
	if promoted.EmployeeID != "empA" {
		t.Errorf("expected earliest waitlisted empA to be promoted, got %s", promoted.EmployeeID)
	}
	if promoted.Status != model.ReservationActive {
		t.Errorf("expected promoted reservation active, got %s", promoted.Status)
	}

	status, err := ledger.Latest(ctx, "empB", "sched1", "2026-03-04")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if status.Status != model.ReservationWaitlisted {
		t.Errorf("expected empB still waitlisted, got %s", status.Status)
	}
}

func TestCancel_WaitlistedFreesNoSeat(t *testing.T) {
	ledger, _, _ := newTestLedger(true)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "empX", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve X failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve A failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "empB", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve B failed: %v", err)
	}

	cancelled, promoted, err := ledger.Cancel(ctx, "empA", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if promoted != nil {
		t.Errorf("cancelling a waitlisted entry must not promote, promoted %s", promoted.EmployeeID)
	}

	active, err := ledger.Latest(ctx, "empX", "sched1", "2026-03-04")
	if err != nil || active.Status != model.ReservationActive {
		t.Errorf("expected empX still active, got %v status %v", err, active)
	}
}

func TestCancel_ConcurrentCancellationsPromoteDistinctEntries(t *testing.T) {
	ledger, repo, _ := newTestLedger(true)
	ctx := context.Background()

	// Capacity 2: X and Y hold seats, A and B wait.
	for _, emp := range []string{"empX", "empY", "empA", "empB"} {
		if _, err := ledger.Reserve(ctx, emp, "sched1", "2026-03-04", 2); err != nil {
			t.Fatalf("reserve %s failed: %v", emp, err)
		}
	}

	var wg sync.WaitGroup
	promotions := make(chan *model.Reservation, 2)
	for _, emp := range []string{"empX", "empY"} {
		wg.Add(1)
		go func(e string) {
			defer wg.Done()
			_, promoted, err := ledger.Cancel(ctx, e, "sched1", "2026-03-04", 2)
			if err != nil {
				t.Errorf("cancel %s failed: %v", e, err)
				return
			}
			if promoted != nil {
				promotions <- promoted
			}
		}(emp)
	}
	wg.Wait()
	close(promotions)

	seen := map[string]bool{}
	for p := range promotions {
		if seen[p.EmployeeID] {
			t.Fatalf("employee %s promoted twice", p.EmployeeID)
		}
		seen[p.EmployeeID] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 distinct promotions, got %d", len(seen))
	}
	if got := repo.activeCount("sched1", "2026-03-04"); got != 2 {
		t.Errorf("expected 2 active reservations after promotions, got %d", got)
	}
}

func TestCancel_PromotionsNeverDoubleSeatOneEmployee(t *testing.T) {
	ledger, repo, _ := newTestLedger(true)
	ctx := context.Background()

	// Capacity 2: X and Y hold seats, A waits. A second attempt by A must
	// not queue another waitlist entry.
	for _, emp := range []string{"empX", "empY", "empA"} {
		if _, err := ledger.Reserve(ctx, emp, "sched1", "2026-03-04", 2); err != nil {
			t.Fatalf("reserve %s failed: %v", emp, err)
		}
	}
	_, err := ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 2)
	assertCode(t, err, "DUPLICATE_BOOKING")

	for _, emp := range []string{"empX", "empY"} {
		if _, _, err := ledger.Cancel(ctx, emp, "sched1", "2026-03-04", 2); err != nil {
			t.Fatalf("cancel %s failed: %v", emp, err)
		}
	}

	var activeA int
	repo.mu.Lock()
	for _, r := range repo.reservations {
		if r.EmployeeID == "empA" && r.Status == model.ReservationActive {
			activeA++
		}
	}
	repo.mu.Unlock()
	if activeA != 1 {
		t.Errorf("expected empA to hold exactly 1 active reservation, got %d", activeA)
	}
}

func TestCancel_ActiveSeatAfterWaitlistRefusal(t *testing.T) {
	ledger, _, _ := newTestLedger(true)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "empA", "sched1", "2026-03-04", 1); err == nil {
		t.Fatal("expected duplicate rejection")
	}

	cancelled, _, err := ledger.Cancel(ctx, "empA", "sched1", "2026-03-04", 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
}

// ────────────────────────────────────────────────
// Occupancy and status reads
// ────────────────────────────────────────────────

func TestOccupancy_CountsOnlyActive(t *testing.T) {
	ledger, _, _ := newTestLedger(true)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 2); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "emp2", "sched1", "2026-03-04", 2); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "emp3", "sched1", "2026-03-04", 2); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	occ, err := ledger.Occupancy(ctx, "sched1", "2026-03-04", 2)
	if err != nil {
		t.Fatalf("occupancy failed: %v", err)
	}
	if occ.Reserved != 2 {
		t.Errorf("expected 2 reserved (waitlisted excluded), got %d", occ.Reserved)
	}
	if occ.Capacity != 2 {
		t.Errorf("expected capacity 2, got %d", occ.Capacity)
	}
}

func TestLatest_ReflectsMostRecentStatus(t *testing.T) {
	ledger, _, _ := newTestLedger(false)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, _, err := ledger.Cancel(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := ledger.Reserve(ctx, "emp1", "sched1", "2026-03-04", 1); err != nil {
		t.Fatalf("rebook failed: %v", err)
	}

	latest, err := ledger.Latest(ctx, "emp1", "sched1", "2026-03-04")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.Status != model.ReservationActive {
		t.Errorf("expected latest status active, got %s", latest.Status)
	}
}
