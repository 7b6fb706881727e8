package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KISORE-A/akshuutransports/internal/models"
)

// fakeLedger counts appends in memory so engine behaviour can be tested
// without a database.
type fakeLedger struct {
	mu      sync.Mutex
	records []models.Attendance
	fail    error
	nextID  uint
}

func (f *fakeLedger) AppendPresent(_ context.Context, studentID uint) (models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return models.Attendance{}, f.fail
	}
	f.nextID++
	rec := models.Attendance{StudentID: studentID, Status: "Present", Date: time.Now()}
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func TestGenerateProducesSixDigitCode(t *testing.T) {
	engine := NewEngine(&fakeLedger{}, time.Minute)

	for i := 0; i < 50; i++ {
		code := engine.Generate(7)
		assert.Len(t, code.Value, 6)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, code.Value)
		assert.Equal(t, uint(7), code.IssuedBy)
		assert.True(t, code.ExpiresAt.After(code.IssuedAt))
	}
}

func TestSubmitMatchCreatesOneRecordAndConsumes(t *testing.T) {
	ledger := &fakeLedger{}
	engine := NewEngine(ledger, time.Minute)

	code := engine.Generate(7)

	rec, err := engine.Submit(context.Background(), 42, code.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.StudentID)
	assert.Equal(t, "Present", rec.Status)
	assert.Equal(t, 1, ledger.count())

	// A consumed code is one-shot: every later submission is rejected
	// with the consumed signal, not a mismatch.
	_, err = engine.Submit(context.Background(), 43, code.Value)
	assert.ErrorIs(t, err, ErrCodeConsumed)
	assert.Equal(t, 1, ledger.count())
}

func TestSubmitMismatchLeavesCodeActive(t *testing.T) {
	ledger := &fakeLedger{}
	engine := NewEngine(ledger, time.Minute)

	code := engine.Generate(7)

	wrong := "000000"
	if wrong == code.Value {
		wrong = "000001"
	}
	_, err := engine.Submit(context.Background(), 42, wrong)
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, 0, ledger.count())

	// The active code survives a wrong guess and is still submittable.
	rec, err := engine.Submit(context.Background(), 42, code.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.StudentID)
}

func TestSubmitWithNoActiveCode(t *testing.T) {
	engine := NewEngine(&fakeLedger{}, time.Minute)

	_, err := engine.Submit(context.Background(), 42, "123456")
	assert.ErrorIs(t, err, ErrNoActiveCode)
}

func TestSubmitRejectsMalformedCode(t *testing.T) {
	engine := NewEngine(&fakeLedger{}, time.Minute)
	engine.Generate(7)

	for _, candidate := range []string{"", "12345", "1234567", "12a456", "12 456"} {
		_, err := engine.Submit(context.Background(), 42, candidate)
		assert.ErrorIs(t, err, ErrInvalidCode, "candidate %q", candidate)
	}
}

func TestSubmitAfterExpiry(t *testing.T) {
	ledger := &fakeLedger{}
	engine := NewEngine(ledger, 30*time.Millisecond)

	code := engine.Generate(7)
	time.Sleep(60 * time.Millisecond)

	// Expiry is checked at the moment of comparison, independent of the
	// background sweeper (which is not even running here).
	_, err := engine.Submit(context.Background(), 42, code.Value)
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.Equal(t, 0, ledger.count())
}

func TestGenerateReplacesPriorCode(t *testing.T) {
	ledger := &fakeLedger{}
	engine := NewEngine(ledger, time.Minute)

	first := engine.Generate(7)
	second := engine.Generate(7)

	if first.Value != second.Value {
		_, err := engine.Submit(context.Background(), 42, first.Value)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}

	rec, err := engine.Submit(context.Background(), 42, second.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.StudentID)
	assert.Equal(t, 1, ledger.count())
}

func TestConcurrentSubmitsProduceExactlyOneRecord(t *testing.T) {
	ledger := &fakeLedger{}
	engine := NewEngine(ledger, time.Minute)

	code := engine.Generate(7)

	const n = 32
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(studentID uint) {
			defer wg.Done()
			<-start
			_, err := engine.Submit(context.Background(), studentID, code.Value)
			errs <- err
		}(uint(100 + i))
	}
	close(start)
	wg.Wait()
	close(errs)

	wins, consumed := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrCodeConsumed):
			consumed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, consumed)
	assert.Equal(t, 1, ledger.count())
}

func TestLedgerFailureRollsBackReservation(t *testing.T) {
	ledger := &fakeLedger{fail: errors.New("upstream unavailable")}
	engine := NewEngine(ledger, time.Minute)

	code := engine.Generate(7)

	_, err := engine.Submit(context.Background(), 42, code.Value)
	require.Error(t, err)
	assert.Equal(t, 0, ledger.count())

	// No partial effects: after the failed append the code is usable again.
	ledger.mu.Lock()
	ledger.fail = nil
	ledger.mu.Unlock()

	rec, err := engine.Submit(context.Background(), 42, code.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.StudentID)
	assert.Equal(t, 1, ledger.count())
}

func TestSweeperExpiresOverdueCodes(t *testing.T) {
	ledger := &fakeLedger{}
	engine := NewEngine(ledger, 20*time.Millisecond)

	code := engine.Generate(7)
	engine.expireOverdue(time.Now().Add(50 * time.Millisecond))

	_, err := engine.Submit(context.Background(), 42, code.Value)
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.Equal(t, 0, ledger.count())
}
