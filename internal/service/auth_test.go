package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"loginwatch/internal/models"
	"loginwatch/internal/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeCredentials struct {
	hashes map[string]string
	err    error
}

func (f *fakeCredentials) CreateUser(user models.User) error { return f.err }

func (f *fakeCredentials) GetUserByUsername(username string) (models.User, error) {
	if _, ok := f.hashes[username]; !ok {
		return models.User{}, sql.ErrNoRows
	}
	return models.User{Username: username}, nil
}

func (f *fakeCredentials) GetPasswordByUsername(username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	hash, ok := f.hashes[username]
	if !ok {
		return "", sql.ErrNoRows
	}
	return hash, nil
}

func (f *fakeCredentials) CheckUserByNameEmail(email, username string) (bool, error) {
	_, ok := f.hashes[username]
	return ok, f.err
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.LoginAttempt
	err     error
}

func (f *fakeAudit) Append(entry models.LoginAttempt) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.Sequence = int64(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return entry.Sequence, nil
}

func (f *fakeAudit) ReadAll() ([]models.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.LoginAttempt, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

type fakeResolver struct {
	location string
	calls    int
}

func (f *fakeResolver) Resolve(ctx context.Context, hint, ip string) string {
	f.calls++
	if hint != "" {
		return hint
	}
	return f.location
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	saveErr  error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]models.Session)}
}

func (f *fakeSessions) Save(ctx context.Context, token string, sess models.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[token] = sess
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, token string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[token]
	if !ok {
		return models.Session{}, models.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeSessions) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestAuth(
	t *testing.T,
	creds *fakeCredentials,
	audit *fakeAudit,
	resolver *fakeResolver,
	sessions *fakeSessions,
) *AuthService {
	t.Helper()
	store := &storage.Storage{Credentials: creds, AuditIR: audit}
	return NewAuthService(store, resolver, AnomalyRule{HomeCountry: "India"}, sessions)
}

func TestAttemptLogin_HomeCountryGranted(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{
		"alice": hashFor(t, "Correct1pass"),
	}}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "India"}
	sessions := newFakeSessions()
	auth := newTestAuth(t, creds, audit, resolver, sessions)

	result, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username: "alice",
		Password: "Correct1pass",
		IP:       "203.0.113.7",
		DeviceID: "laptop-01",
	})
	require.NoError(t, err)
	require.Equal(t, models.VerdictGranted, result.Verdict)
	require.Equal(t, "India", result.Location)
	require.NotEmpty(t, result.SessionToken)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ResultSuccess, audit.entries[0].Result)
	require.Equal(t, "India", audit.entries[0].Location)
	require.Equal(t, "alice", audit.entries[0].Username)

	sess, err := sessions.Get(context.Background(), result.SessionToken)
	require.NoError(t, err)
	require.Equal(t, models.StateAuthenticated, sess.State)
}

func TestAttemptLogin_ForeignCountryChallenged(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{
		"bob": hashFor(t, "Correct1pass"),
	}}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "USA"}
	sessions := newFakeSessions()
	auth := newTestAuth(t, creds, audit, resolver, sessions)

	result, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username: "bob",
		Password: "Correct1pass",
		IP:       "198.51.100.23",
		DeviceID: "laptop-02",
	})
	require.NoError(t, err)
	require.Equal(t, models.VerdictChallengeRequired, result.Verdict)
	require.Equal(t, "USA", result.Location)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ResultOTPRequired, audit.entries[0].Result)
	require.Equal(t, "USA", audit.entries[0].Location)

	sess, err := sessions.Get(context.Background(), result.SessionToken)
	require.NoError(t, err)
	require.Equal(t, models.StateOTPPending, sess.State)
}

func TestAttemptLogin_BadCredentialsDenied(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{
		"eve": hashFor(t, "Correct1pass"),
	}}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "India"}
	sessions := newFakeSessions()
	auth := newTestAuth(t, creds, audit, resolver, sessions)

	result, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username: "eve",
		Password: "wrong",
		IP:       "203.0.113.9",
	})
	require.NoError(t, err)
	require.Equal(t, models.VerdictDenied, result.Verdict)
	require.Equal(t, UnknownLocation, result.Location)
	require.Empty(t, result.SessionToken)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ResultFailed, audit.entries[0].Result)
	require.Equal(t, UnknownLocation, audit.entries[0].Location)

	// Geolocation must not run for unauthenticated probes.
	require.Zero(t, resolver.calls)
}

func TestAttemptLogin_UnknownUserDenied(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{}}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "India"}
	auth := newTestAuth(t, creds, audit, resolver, newFakeSessions())

	result, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	require.NoError(t, err)
	require.Equal(t, models.VerdictDenied, result.Verdict)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ResultFailed, audit.entries[0].Result)
	require.Zero(t, resolver.calls)
}

func TestAttemptLogin_HintWinsOverResolver(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{
		"alice": hashFor(t, "Correct1pass"),
	}}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "USA"}
	auth := newTestAuth(t, creds, audit, resolver, newFakeSessions())

	result, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username:    "alice",
		Password:    "Correct1pass",
		CountryHint: "India",
	})
	require.NoError(t, err)
	require.Equal(t, models.VerdictGranted, result.Verdict)
	require.Equal(t, "India", result.Location)
}

func TestAttemptLogin_CredentialStoreOutage(t *testing.T) {
	creds := &fakeCredentials{err: errors.New("disk on fire")}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "India"}
	auth := newTestAuth(t, creds, audit, resolver, newFakeSessions())

	result, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username: "alice",
		Password: "Correct1pass",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	require.Equal(t, models.VerdictDenied, result.Verdict)

	// The outage itself is still audited.
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ResultFailed, audit.entries[0].Result)
}

func TestAttemptLogin_AuditOutagePropagates(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{
		"alice": hashFor(t, "Correct1pass"),
	}}
	audit := &fakeAudit{err: errors.New("write failed")}
	resolver := &fakeResolver{location: "India"}
	auth := newTestAuth(t, creds, audit, resolver, newFakeSessions())

	_, err := auth.AttemptLogin(context.Background(), models.LoginRequest{
		Username: "alice",
		Password: "Correct1pass",
	})
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestAttemptLogin_OneAuditEntryPerAttempt(t *testing.T) {
	creds := &fakeCredentials{hashes: map[string]string{
		"alice": hashFor(t, "Correct1pass"),
		"bob":   hashFor(t, "Correct1pass"),
	}}
	audit := &fakeAudit{}
	resolver := &fakeResolver{location: "USA"}
	auth := newTestAuth(t, creds, audit, resolver, newFakeSessions())

	attempts := []models.LoginRequest{
		{Username: "alice", Password: "Correct1pass", CountryHint: "India"},
		{Username: "bob", Password: "Correct1pass"},
		{Username: "alice", Password: "nope"},
		{Username: "ghost", Password: "nope"},
	}
	for _, req := range attempts {
		_, err := auth.AttemptLogin(context.Background(), req)
		require.NoError(t, err)
	}

	require.Len(t, audit.entries, len(attempts))
	for i, entry := range audit.entries {
		require.Equal(t, int64(i+1), entry.Sequence)
	}
}
