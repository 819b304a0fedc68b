package models

import (
	"log"
	"os"
	"time"
)

var (
	InfoLog = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	ErrLog  = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
)

// Verdict is the outcome of a single login attempt.
type Verdict string

const (
	VerdictGranted           Verdict = "GRANTED"
	VerdictChallengeRequired Verdict = "CHALLENGE_REQUIRED"
	VerdictDenied            Verdict = "DENIED"
)

// AuthState tracks how far a session has progressed through authentication.
// A session carries no privileges until it reaches StateAuthenticated.
type AuthState string

const (
	StateAnonymous     AuthState = "ANONYMOUS"
	StateAuthenticated AuthState = "AUTHENTICATED"
	StateOTPPending    AuthState = "OTP_PENDING"
	StateRejected      AuthState = "REJECTED"
)

// AttemptResult is what gets persisted in the audit log for an attempt.
type AttemptResult string

const (
	ResultSuccess     AttemptResult = "SUCCESS"
	ResultOTPRequired AttemptResult = "OTP_REQUIRED"
	ResultFailed      AttemptResult = "FAILED"
)

type User struct {
	Id             int
	Email          string
	Username       string
	Password       string
	RepeatPassword string
	Created_at     time.Time
}

// LoginRequest carries everything the transport layer knows about an
// inbound attempt.
type LoginRequest struct {
	Username    string
	Password    string
	CountryHint string
	IP          string
	DeviceID    string
}

// LoginResult is returned to the transport layer, which owns the session
// cookie. SessionToken is empty on DENIED.
type LoginResult struct {
	Verdict      Verdict `json:"verdict"`
	Location     string  `json:"location"`
	SessionToken string  `json:"-"`
}

// LoginAttempt is one immutable audit record. Sequence is assigned by the
// audit log itself, never by the caller.
type LoginAttempt struct {
	Sequence int64         `json:"sequence"`
	Username string        `json:"username"`
	IP       string        `json:"ip_address"`
	DeviceID string        `json:"device_id"`
	Location string        `json:"geo_location"`
	Result   AttemptResult `json:"login_result"`
	Time     time.Time     `json:"login_time"`
}

type Session struct {
	Username string    `json:"username"`
	Location string    `json:"location"`
	State    AuthState `json:"state"`
}
