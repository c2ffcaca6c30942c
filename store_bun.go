package sessionclient

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// credentialRecord is the persisted key-value row. Rows are namespaced by a
// realm so several backends can share one local database without reading each
// other's credentials.
type credentialRecord struct {
	bun.BaseModel `bun:"table:auth_credentials,alias:ac"`

	Realm     string    `bun:"realm,pk"`
	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunCredentialStore is the durable CredentialStore backed by Bun over a
// local SQLite database. It survives process restarts, which is what lets
// CheckSession resume a prior session at startup.
type BunCredentialStore struct {
	db    *bun.DB
	realm string
	now   func() time.Time
}

// BunStoreOption customizes a BunCredentialStore.
type BunStoreOption func(*BunCredentialStore)

// WithBunStoreClock injects a custom clock (useful for tests).
func WithBunStoreClock(clock func() time.Time) BunStoreOption {
	return func(s *BunCredentialStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewBunCredentialStore creates the backing table when missing and returns a
// store scoped to the realm derived from the gateway base URL. The derivation
// is deterministic, so the same URL always maps to the same rows.
func NewBunCredentialStore(ctx context.Context, db *bun.DB, realmSource string, opts ...BunStoreOption) (*BunCredentialStore, error) {
	realm, err := hashid.NewUUID(realmSource)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to derive credential realm")
	}

	s := &BunCredentialStore{
		db:    db,
		realm: realm.String(),
		now:   time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if _, err := db.NewCreateTable().
		Model((*credentialRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create credential table")
	}

	return s, nil
}

// Realm exposes the derived scope identifier.
func (s *BunCredentialStore) Realm() string {
	return s.realm
}

// Save stores the token and the current timestamp, overwriting any prior value.
func (s *BunCredentialStore) Save(ctx context.Context, token string) error {
	now := s.now()

	records := []credentialRecord{
		{Realm: s.realm, Key: credentialKeyToken, Value: token, UpdatedAt: now},
		{Realm: s.realm, Key: credentialKeyInitDate, Value: formatInitDate(now), UpdatedAt: now},
	}

	if _, err := s.db.NewInsert().
		Model(&records).
		On("CONFLICT (realm, key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to save credential")
	}

	return nil
}

// Load returns the stored token or ErrNoCredential.
func (s *BunCredentialStore) Load(ctx context.Context) (string, error) {
	value, err := s.loadKey(ctx, credentialKeyToken)
	if err != nil {
		return "", err
	}
	return value, nil
}

// AcquiredAt returns the instant the current token was stored.
func (s *BunCredentialStore) AcquiredAt(ctx context.Context) (time.Time, error) {
	value, err := s.loadKey(ctx, credentialKeyInitDate)
	if err != nil {
		return time.Time{}, err
	}

	at, ok := parseInitDate(value)
	if !ok {
		return time.Time{}, ErrNoCredential
	}
	return at, nil
}

// Clear removes every key in this store's realm. Idempotent.
func (s *BunCredentialStore) Clear(ctx context.Context) error {
	if _, err := s.db.NewDelete().
		Model((*credentialRecord)(nil)).
		Where("realm = ?", s.realm).
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to clear credentials")
	}
	return nil
}

func (s *BunCredentialStore) loadKey(ctx context.Context, key string) (string, error) {
	record := new(credentialRecord)

	err := s.db.NewSelect().
		Model(record).
		Where("realm = ?", s.realm).
		Where("key = ?", key).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoCredential
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to load credential")
	}

	return record.Value, nil
}
