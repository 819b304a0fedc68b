package service

import (
	"context"
	"crypto/subtle"
	"loginwatch/internal/models"
)

type Challenge interface {
	Verify(ctx context.Context, token, code string) (models.Session, error)
}

// ChallengeService checks the step-up code for sessions parked in
// OTP_PENDING. The code is a single fixed deployment value; per-session
// generation and expiry are deliberately not modeled here.
type ChallengeService struct {
	sessions SessionStore
	code     string
}

func NewChallengeService(sessions SessionStore, code string) *ChallengeService {
	return &ChallengeService{
		sessions: sessions,
		code:     code,
	}
}

// Verify promotes the session to AUTHENTICATED on a matching code. On a
// mismatch the session stays OTP_PENDING and ErrInvalidCode is returned;
// the caller may retry.
func (c *ChallengeService) Verify(
	ctx context.Context,
	token, code string,
) (models.Session, error) {
	sess, err := c.sessions.Get(ctx, token)
	if err != nil {
		return models.Session{}, err
	}
	if sess.State != models.StateOTPPending {
		return sess, models.ErrSessionNotFound
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(c.code)) != 1 {
		return sess, models.ErrInvalidCode
	}

	sess.State = models.StateAuthenticated
	if err := c.sessions.Save(ctx, token, sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}
