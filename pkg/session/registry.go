package session

import (
	"context"
	"time"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"
	"campus-results/result-queue-server/pkg/result"

	"go.uber.org/zap"
)

// Registry owns authenticated session lifecycle: creation with the
// one-live-session-per-roll-number reservation, validation, logout and
// the expiry sweep.
type Registry struct {
	store  Store
	tokens *TokenService
	config *config.Config
	logger *zap.SugaredLogger
}

func ProvideRegistry(store Store, tokens *TokenService, config *config.Config, loggerFactory *infra.LoggerFactory) *Registry {
	return &Registry{
		store:  store,
		tokens: tokens,
		config: config,
		logger: loggerFactory.Create("SessionRegistry").Sugar(),
	}
}

// Create reserves the identity and writes the session record. Fails
// ErrDuplicateSession when the roll number already has a live session.
func (r *Registry) Create(ctx context.Context, rollNo, credential string, selection result.Selection) (*Session, error) {
	ok, err := r.store.ReserveIdentity(ctx, rollNo, credential)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDuplicateSession
	}

	now := time.Now()
	sess := &Session{
		RollNo:     rollNo,
		Credential: credential,
		Selection:  selection,
		CreatedAt:  now.UnixMilli(),
		ExpiresAt:  now.Add(r.config.SessionDuration).UnixMilli(),
	}

	if err := r.store.PutSession(ctx, sess, r.config.SessionDuration); err != nil {
		// Give the reservation back rather than wedging the roll
		// number until the sweep notices the dangling entry.
		if relErr := r.store.ReleaseIdentity(ctx, rollNo); relErr != nil {
			r.logger.Errorf("release after failed write rollNo[%v] %v", rollNo, relErr)
		}
		return nil, err
	}

	r.logger.Infof("session created rollNo[%v], expires in %v", rollNo, r.config.SessionDuration)
	return sess, nil
}

// Validate verifies the credential signature and expiry locally, then
// confirms liveness against the record. A syntactically valid but
// store-absent credential is invalid.
func (r *Registry) Validate(ctx context.Context, credential string) (*Claims, *Session, error) {
	claims, err := r.tokens.Verify(credential)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	sess, err := r.store.GetSession(ctx, credential)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, ErrInvalidToken
	}
	return claims, sess, nil
}

// End deletes the record and the index entry. Idempotent.
func (r *Registry) End(ctx context.Context, rollNo, credential string) error {
	if err := r.store.DeleteSession(ctx, credential); err != nil {
		return err
	}
	if err := r.store.ReleaseIdentity(ctx, rollNo); err != nil {
		return err
	}

	r.logger.Infof("session ended rollNo[%v]", rollNo)
	return nil
}

// LiveCount reports how many identities currently hold a session, per
// the index. A stale entry counts until the next sweep, which only
// delays a promotion by one reconciliation tick.
func (r *Registry) LiveCount(ctx context.Context) (int64, error) {
	return r.store.IndexSize(ctx)
}

// Sweep drops index entries whose backing record has expired. Record
// expiry alone never touches the index, this is what reclaims the
// at-most-one-session invariant after a silent timeout.
func (r *Registry) Sweep(ctx context.Context) error {
	entries, err := r.store.IndexEntries(ctx)
	if err != nil {
		return err
	}

	swept := 0
	for rollNo, credential := range entries {
		exists, err := r.store.SessionExists(ctx, credential)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := r.store.ReleaseIdentity(ctx, rollNo); err != nil {
			return err
		}
		swept++
	}

	if swept > 0 {
		r.logger.Infof("swept %v stale session entries", swept)
	}
	return nil
}
