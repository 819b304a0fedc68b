package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"loginwatch/internal/models"
	"loginwatch/internal/storage"
	"regexp"
	"time"
	"unicode"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Auth interface {
	AttemptLogin(ctx context.Context, req models.LoginRequest) (models.LoginResult, error)
	CreateUser(user models.User) error
	GetUserByUsername(username string) (models.User, error)
}

// AuthService is the login state machine: credential check, location
// resolution, anomaly evaluation, then grant or challenge. Every attempt
// writes exactly one audit entry before the verdict is returned,
// whichever path it takes.
type AuthService struct {
	credentials storage.Credentials
	audit       storage.AuditIR
	resolver    Resolver
	rule        AnomalyRule
	sessions    SessionStore
}

func NewAuthService(
	store *storage.Storage,
	resolver Resolver,
	rule AnomalyRule,
	sessions SessionStore,
) *AuthService {
	return &AuthService{
		credentials: store.Credentials,
		audit:       store.AuditIR,
		resolver:    resolver,
		rule:        rule,
		sessions:    sessions,
	}
}

func (a *AuthService) AttemptLogin(
	ctx context.Context,
	req models.LoginRequest,
) (models.LoginResult, error) {
	hash, err := a.credentials.GetPasswordByUsername(req.Username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		// Infrastructure failure, not a security decision. Still audited.
		if aerr := a.logAttempt(req, UnknownLocation, models.ResultFailed); aerr != nil {
			models.ErrLog.Printf("audit append failed: %v", aerr)
		}
		return models.LoginResult{Verdict: models.VerdictDenied, Location: UnknownLocation},
			fmt.Errorf("%w: credential lookup: %v", models.ErrStoreUnavailable, err)
	}

	if errors.Is(err, sql.ErrNoRows) || compareHashAndPassword(hash, req.Password) != nil {
		// Location resolution is skipped on credential failure so
		// unauthenticated probes learn nothing about geolocation behavior.
		if aerr := a.logAttempt(req, UnknownLocation, models.ResultFailed); aerr != nil {
			return models.LoginResult{Verdict: models.VerdictDenied, Location: UnknownLocation},
				fmt.Errorf("%w: audit append: %v", models.ErrStoreUnavailable, aerr)
		}
		return models.LoginResult{
			Verdict:  models.VerdictDenied,
			Location: UnknownLocation,
		}, nil
	}

	location := a.resolver.Resolve(ctx, req.CountryHint, req.IP)

	if !a.rule.Anomalous(location) {
		if aerr := a.logAttempt(req, location, models.ResultSuccess); aerr != nil {
			return models.LoginResult{Verdict: models.VerdictDenied, Location: location},
				fmt.Errorf("%w: audit append: %v", models.ErrStoreUnavailable, aerr)
		}
		token, err := a.createSession(ctx, req.Username, location, models.StateAuthenticated)
		if err != nil {
			return models.LoginResult{Verdict: models.VerdictDenied, Location: location},
				fmt.Errorf("%w: session save: %v", models.ErrStoreUnavailable, err)
		}
		return models.LoginResult{
			Verdict:      models.VerdictGranted,
			Location:     location,
			SessionToken: token,
		}, nil
	}

	if aerr := a.logAttempt(req, location, models.ResultOTPRequired); aerr != nil {
		return models.LoginResult{Verdict: models.VerdictDenied, Location: location},
			fmt.Errorf("%w: audit append: %v", models.ErrStoreUnavailable, aerr)
	}
	token, err := a.createSession(ctx, req.Username, location, models.StateOTPPending)
	if err != nil {
		return models.LoginResult{Verdict: models.VerdictDenied, Location: location},
			fmt.Errorf("%w: session save: %v", models.ErrStoreUnavailable, err)
	}
	return models.LoginResult{
		Verdict:      models.VerdictChallengeRequired,
		Location:     location,
		SessionToken: token,
	}, nil
}

func (a *AuthService) logAttempt(
	req models.LoginRequest,
	location string,
	result models.AttemptResult,
) error {
	_, err := a.audit.Append(models.LoginAttempt{
		Username: req.Username,
		IP:       req.IP,
		DeviceID: req.DeviceID,
		Location: location,
		Result:   result,
		Time:     time.Now(),
	})
	return err
}

func (a *AuthService) createSession(
	ctx context.Context,
	username, location string,
	state models.AuthState,
) (string, error) {
	token := uuid.NewGen()
	d, err := token.NewV4()
	if err != nil {
		return "", err
	}
	sess := models.Session{
		Username: username,
		Location: location,
		State:    state,
	}
	if err := a.sessions.Save(ctx, d.String(), sess); err != nil {
		return "", err
	}
	return d.String(), nil
}

func (a *AuthService) CreateUser(user models.User) error {
	if err := validUser(user); err != nil {
		return err
	}

	uniq, err := a.credentials.CheckUserByNameEmail(user.Email, user.Username)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if uniq {
		return errors.New(" Username or Email is already in used! ")
	}

	user.Password, err = generateHashPassword(user.Password)
	if err != nil {
		return err
	}

	return a.credentials.CreateUser(user)
}

func (a *AuthService) GetUserByUsername(username string) (models.User, error) {
	return a.credentials.GetUserByUsername(username)
}

func generateHashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func compareHashAndPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.ErrInvalidCredentials
	}
	return nil
}

func validUser(user models.User) error {
	for _, char := range user.Username {
		if char <= 32 || char >= 127 {
			return models.ErrInvalidUserName
		}
	}
	validEmail, err := regexp.MatchString(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`, user.Email)
	if err != nil {
		return err
	}
	if !validEmail {
		return models.ErrInvalidEmail
	}
	if len(user.Username) < 3 || len(user.Username) >= 36 {
		return models.ErrInvalidUserName
	}

	if !passIsValid(user.Password) {
		return models.ErrShortPassword
	}
	if user.RepeatPassword != "" && user.Password != user.RepeatPassword {
		return models.ErrInvalidCredentials
	}
	return nil
}

func passIsValid(s string) bool {
	var (
		hasMinLen = len(s) >= 8 && len(s) <= 72
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasMinLen && hasUpper && hasLower && hasNumber
}
