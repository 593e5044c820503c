package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
	"github.com/joshuastenhouse/rscreporting-go/internal/logger"
)

const (
	// externalServiceAccountEnv names a service account file downloaded
	// for a cooperating Rubrik SDK. When set, credentials are imported
	// from it instead of prompting.
	externalServiceAccountEnv = "RUBRIK_POLARIS_SERVICEACCOUNT_FILE"

	// externalServiceAccountFile is the cooperating SDK's default
	// service account location under the user home directory.
	externalServiceAccountFile = ".rubrik/polaris-service-account.json"
)

// Authenticator is the connector surface the session service drives: one
// token exchange plus a best-effort reachability probe.
type Authenticator interface {
	Authenticate(ctx context.Context, cred *domain.Credential) (*domain.SessionContext, error)
	Probe(ctx context.Context) error
}

// DialFunc builds an authenticator for a resolved instance URL.
type DialFunc func(baseURL string) Authenticator

// ConnectOptions are the caller-supplied inputs to Connect. All fields are
// optional; missing values are resolved from persisted state or, last, an
// interactive prompt.
type ConnectOptions struct {
	// Credential short-circuits credential resolution when set.
	Credential *domain.Credential

	// ServiceAccountPath points at a downloaded service account JSON file.
	ServiceAccountPath string

	// BaseURL is the instance URL. Pasted endpoint suffixes are stripped.
	BaseURL string

	// NonInteractive disables prompting; resolution failures become
	// Disconnected results instead.
	NonInteractive bool
}

// SessionService implements the connect protocol: resolve the instance
// URL and credentials from their priority-ordered sources, authenticate
// with one automatic retry, classify failures, and clean up state that
// this run created if the failure is terminal.
type SessionService struct {
	profiles driven.ProfileStore
	creds    driven.CredentialStore
	prompter driven.Prompter
	dial     DialFunc
}

// NewSessionService creates a session service.
func NewSessionService(
	profiles driven.ProfileStore,
	creds driven.CredentialStore,
	prompter driven.Prompter,
	dial DialFunc,
) *SessionService {
	return &SessionService{
		profiles: profiles,
		creds:    creds,
		prompter: prompter,
		dial:     dial,
	}
}

// Connect establishes a session. It never returns an error: failures come
// back as a SessionContext with Status Disconnected and a human-readable
// Message, so callers decide what to do. Fetch paths guard on the status.
func (s *SessionService) Connect(ctx context.Context, opts ConnectOptions) *domain.SessionContext {
	// A service account file can supply both the credential and, via its
	// access_token_uri, the instance URL; resolve it first.
	var fileCred *domain.Credential
	var fileURL string
	saPath := opts.ServiceAccountPath
	if saPath == "" {
		saPath = s.externalServiceAccountPath()
	}
	if saPath != "" {
		cred, url, err := domain.LoadServiceAccountFile(saPath)
		if err != nil {
			logger.Warn("ignoring service account file %s: %v", saPath, err)
		} else {
			fileCred, fileURL = cred, url
		}
	}

	baseURL, urlFromProfile, err := s.resolveBaseURL(opts, fileURL)
	if err != nil {
		return disconnected(err.Error())
	}
	instance := domain.InstanceHostname(baseURL)

	cred, savedThisRun, err := s.resolveCredential(ctx, opts, fileCred, instance)
	if err != nil {
		return disconnected(err.Error())
	}

	client := s.dial(baseURL)
	session, authErr := client.Authenticate(ctx, cred)
	if authErr == nil {
		if err := s.profiles.SetBaseURL(baseURL); err != nil {
			logger.Warn("persisting instance URL: %v", err)
		}
		if savedThisRun {
			logger.Debug("stored credentials for %s", instance)
		}
		return session
	}

	// Terminal failure. Never keep secrets this run just wrote, and tell a
	// bad persisted URL apart from bad credentials before trusting it again.
	if savedThisRun {
		if err := s.creds.Delete(ctx, instance); err != nil {
			logger.Warn("removing credentials for %s: %v", instance, err)
		}
	}
	if urlFromProfile {
		if probeErr := client.Probe(ctx); probeErr != nil {
			logger.Warn("stored URL %s unreachable, forgetting it: %v", baseURL, probeErr)
			if err := s.profiles.ClearBaseURL(); err != nil {
				logger.Warn("clearing instance URL: %v", err)
			}
		}
	}
	return disconnected(authErr.Error())
}

// Disconnect ends a session. The returned context carries Status
// Disconnected and no token. When forget is set the stored credential and
// the persisted instance URL are removed as well, so the next connect
// starts from scratch.
func (s *SessionService) Disconnect(ctx context.Context, session *domain.SessionContext, forget bool) *domain.SessionContext {
	instance := ""
	if session != nil {
		instance = session.Instance
	}
	if instance == "" {
		if stored := s.profiles.BaseURL(); stored != "" {
			instance = domain.InstanceHostname(domain.NormalizeBaseURL(stored))
		}
	}

	if forget {
		if instance != "" {
			if err := s.creds.Delete(ctx, instance); err != nil {
				logger.Warn("removing credentials for %s: %v", instance, err)
			}
		}
		if err := s.profiles.ClearBaseURL(); err != nil {
			logger.Warn("clearing instance URL: %v", err)
		}
	}

	return disconnected("disconnected")
}

// resolveBaseURL applies the URL priority order: explicit argument,
// service-account-file URL, persisted profile, interactive prompt. The
// second return value is true when the persisted profile supplied the URL.
func (s *SessionService) resolveBaseURL(opts ConnectOptions, fileURL string) (string, bool, error) {
	if opts.BaseURL != "" {
		return domain.NormalizeBaseURL(opts.BaseURL), false, nil
	}
	if fileURL != "" {
		return fileURL, false, nil
	}
	if stored := s.profiles.BaseURL(); stored != "" {
		return domain.NormalizeBaseURL(stored), true, nil
	}
	if opts.NonInteractive {
		return "", false, domain.ErrNoBaseURL
	}
	if s.prompter == nil {
		return "", false, domain.ErrPromptUnavailable
	}
	entered, err := s.prompter.PromptURL()
	if errors.Is(err, domain.ErrPromptUnavailable) {
		return "", false, err
	}
	if err != nil || entered == "" {
		return "", false, domain.ErrNoBaseURL
	}
	return domain.NormalizeBaseURL(entered), false, nil
}

// resolveCredential applies the credential priority order: explicit
// credential, service account file, encrypted store, interactive prompt.
// Prompted credentials are persisted for the next run; the second return
// value is true when this run created the stored entry.
func (s *SessionService) resolveCredential(
	ctx context.Context,
	opts ConnectOptions,
	fileCred *domain.Credential,
	instance string,
) (*domain.Credential, bool, error) {
	if opts.Credential.IsValid() {
		return opts.Credential, false, nil
	}
	if fileCred.IsValid() {
		return fileCred, false, nil
	}
	if stored, err := s.creds.Get(ctx, instance); err == nil && stored.IsValid() {
		return stored, false, nil
	}
	if opts.NonInteractive {
		return nil, false, domain.ErrNoCredential
	}
	if s.prompter == nil {
		return nil, false, domain.ErrPromptUnavailable
	}

	clientID, clientSecret, err := s.prompter.PromptCredential()
	if errors.Is(err, domain.ErrPromptUnavailable) {
		return nil, false, err
	}
	if err != nil {
		return nil, false, domain.ErrNoCredential
	}
	cred := &domain.Credential{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		CreatedAt:    time.Now().UTC(),
	}
	if !cred.IsValid() {
		return nil, false, domain.ErrNoCredential
	}
	if err := s.creds.Save(ctx, instance, *cred); err != nil {
		logger.Warn("persisting credentials for %s: %v", instance, err)
		return cred, false, nil
	}
	return cred, true, nil
}

// externalServiceAccountPath returns the cooperating SDK's service account
// file if one is present, empty otherwise.
func (s *SessionService) externalServiceAccountPath() string {
	if path := os.Getenv(externalServiceAccountEnv); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, externalServiceAccountFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// RequireSession is the connectivity guard called at the top of every
// fetch path.
func RequireSession(session *domain.SessionContext) error {
	if !session.IsConnected() {
		return domain.ErrNoSession
	}
	return nil
}

func disconnected(message string) *domain.SessionContext {
	return &domain.SessionContext{
		Status:    domain.StatusDisconnected,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
