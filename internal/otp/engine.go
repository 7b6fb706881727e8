package otp

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"strconv"
	"sync"
	"time"

	logrus "github.com/sirupsen/logrus"

	"github.com/KISORE-A/akshuutransports/internal/models"
)

// DefaultTTL is the validity window of a generated code. The dashboard
// countdown mirrors this value.
const DefaultTTL = 30 * time.Second

var (
	ErrNoActiveCode = errors.New("no active code")
	ErrCodeMismatch = errors.New("code does not match")
	ErrCodeExpired  = errors.New("code has expired")
	ErrCodeConsumed = errors.New("code already used")
	ErrInvalidCode  = errors.New("code must be exactly 6 digits")
)

// State of a verification code slot.
type State string

const (
	StateActive   State = "active"
	StateConsumed State = "consumed"
	StateExpired  State = "expired"
)

// Code is the issued verification code handed back to the driver.
// The same value is rendered as a QR payload; scanning and manual entry
// are equivalent inputs to Submit.
type Code struct {
	Value     string    `json:"code"`
	IssuedBy  uint      `json:"issued_by"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Ledger is the sink for verified attendance events.
type Ledger interface {
	AppendPresent(ctx context.Context, studentID uint) (models.Attendance, error)
}

type slot struct {
	value     string
	issuedAt  time.Time
	expiresAt time.Time
	state     State
}

// Engine owns the per-driver verification code state. All slot
// transitions happen under one mutex: expiry is re-checked at the
// moment of comparison, so a code can never be accepted past its
// deadline even if the sweeper has not run yet.
type Engine struct {
	mu    sync.Mutex
	slots map[uint]*slot // keyed by issuing driver id

	ttl    time.Duration
	ledger Ledger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewEngine(ledger Ledger, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Engine{
		slots:  make(map[uint]*slot),
		ttl:    ttl,
		ledger: ledger,
		stop:   make(chan struct{}),
	}
}

// TTL returns the configured validity window.
func (e *Engine) TTL() time.Duration {
	return e.ttl
}

// Generate issues a fresh uniformly random 6-digit code for the issuing
// driver. Any earlier code for that driver is replaced outright, so at
// most one active code exists per issuer.
func (e *Engine) Generate(issuerID uint) Code {
	value := strconv.Itoa(100000 + rand.IntN(900000))
	now := time.Now()
	exp := now.Add(e.ttl)

	e.mu.Lock()
	e.slots[issuerID] = &slot{
		value:     value,
		issuedAt:  now,
		expiresAt: exp,
		state:     StateActive,
	}
	e.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"driver_id":  issuerID,
		"expires_at": exp,
	}).Info("verification code issued")

	return Code{Value: value, IssuedBy: issuerID, IssuedAt: now, ExpiresAt: exp}
}

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

// Submit checks a candidate code against the active codes and, on a
// match, records a Present event for the student. The winning slot is
// reserved (Consumed) before the ledger call so concurrent submitters
// observe ErrCodeConsumed rather than double-appending; if the ledger
// append fails the reservation is rolled back and no record exists.
func (e *Engine) Submit(ctx context.Context, studentID uint, candidate string) (models.Attendance, error) {
	if !sixDigits.MatchString(candidate) {
		return models.Attendance{}, ErrInvalidCode
	}

	now := time.Now()

	e.mu.Lock()
	var matched *slot
	var issuerID uint
	activeExists := false
	for id, s := range e.slots {
		if s.state == StateActive && now.After(s.expiresAt) {
			s.state = StateExpired
		}
		if s.state == StateActive {
			activeExists = true
		}
		if s.value == candidate {
			matched = s
			issuerID = id
		}
	}

	if matched == nil {
		e.mu.Unlock()
		if activeExists {
			return models.Attendance{}, ErrCodeMismatch
		}
		return models.Attendance{}, ErrNoActiveCode
	}

	switch matched.state {
	case StateConsumed:
		e.mu.Unlock()
		return models.Attendance{}, ErrCodeConsumed
	case StateExpired:
		e.mu.Unlock()
		return models.Attendance{}, ErrCodeExpired
	}

	matched.state = StateConsumed
	e.mu.Unlock()

	record, err := e.ledger.AppendPresent(ctx, studentID)
	if err != nil {
		e.mu.Lock()
		if matched.state == StateConsumed {
			if time.Now().After(matched.expiresAt) {
				matched.state = StateExpired
			} else {
				matched.state = StateActive
			}
		}
		e.mu.Unlock()
		return models.Attendance{}, err
	}

	logrus.WithFields(logrus.Fields{
		"driver_id":  issuerID,
		"student_id": studentID,
		"record_id":  record.ID,
	}).Info("attendance verified via code")

	return record, nil
}

// Start launches the 1-second expiry sweeper. Submit re-checks expiry
// under the lock, so the sweeper only keeps slot states current between
// submissions.
func (e *Engine) Start() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.expireOverdue(time.Now())
			case <-e.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *Engine) expireOverdue(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, s := range e.slots {
		if s.state == StateActive && now.After(s.expiresAt) {
			s.state = StateExpired
			logrus.WithField("driver_id", id).Info("verification code expired")
		}
	}
}
