package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/storage"
	"github.com/yndnr/redline/internal/telemetry/logger"
	"github.com/yndnr/redline/pkg/secretbox"
)

const (
	idPrefix   = "cred/id/"
	namePrefix = "cred/name/"

	// keyInfo separates the credential key from other uses of the master key.
	keyInfo = "redline/credentials/v1"
)

// ErrNotFound is returned for an unknown name or ID.
var ErrNotFound = domain.ErrCredentialNotFound

// record is the stored form of a credential.
type record struct {
	*domain.Credential
	SealedPassword []byte `json:"sealed_password,omitempty"`
}

// Store implements service.CredentialRepository on a KVEngine.
type Store struct {
	kv  storage.KVEngine
	box *secretbox.Box
}

// New creates a store over an open engine.
func New(kv storage.KVEngine, box *secretbox.Box) *Store {
	return &Store{kv: kv, box: box}
}

// Open opens the store kept in dir: the Badger database under dir/db and
// the master key at dir/master.key, both created on first use.
func Open(dir string, log logger.Logger) (*Store, error) {
	master, err := secretbox.LoadOrCreateKey(filepath.Join(dir, "master.key"))
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	key, err := secretbox.DeriveKey(master, keyInfo)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	box, err := secretbox.New(key)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	kv, err := storage.NewBadgerEngine(storage.DefaultKVConfig(filepath.Join(dir, "db")), log)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	return New(kv, box), nil
}

// Engine returns the underlying engine.
func (s *Store) Engine() storage.KVEngine {
	return s.kv
}

// Close closes the underlying engine.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Save stores c. A credential with the same ID is overwritten; another
// credential holding the same name is replaced. The record, its name index
// and any displaced entries change in one transaction.
func (s *Store) Save(ctx context.Context, c *domain.Credential) error {
	if !domain.IsValidCredentialID(c.ID) {
		return fmt.Errorf("save credential: invalid id %q", c.ID)
	}

	var ops []storage.Op
	if c.Name != "" {
		prev, err := s.idForName(ctx, c.Name)
		switch {
		case err == nil && prev != c.ID:
			ops = append(ops, storage.DeleteOp([]byte(idPrefix+prev)))
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}
	}

	// A rename leaves the old name pointing nowhere; drop it.
	if old, err := s.getByID(ctx, c.ID); err == nil && old.Name != "" && old.Name != c.Name {
		ops = append(ops, storage.DeleteOp([]byte(namePrefix+old.Name)))
	}

	data, err := s.encode(c)
	if err != nil {
		return err
	}
	ops = append(ops, storage.SetOp([]byte(idPrefix+c.ID), data))
	if c.Name != "" {
		ops = append(ops, storage.SetOp([]byte(namePrefix+c.Name), []byte(c.ID)))
	}

	if err := s.kv.Apply(ctx, ops); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Get finds a credential by ID or name.
func (s *Store) Get(ctx context.Context, nameOrID string) (*domain.Credential, error) {
	if domain.IsValidCredentialID(nameOrID) {
		c, err := s.getByID(ctx, nameOrID)
		if !errors.Is(err, ErrNotFound) {
			return c, err
		}
	}
	id, err := s.idForName(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

// List returns all credentials, oldest first.
func (s *Store) List(ctx context.Context) ([]*domain.Credential, error) {
	var (
		out     []*domain.Credential
		scanErr error
	)
	err := s.kv.Scan(ctx, []byte(idPrefix), func(key, value []byte) bool {
		c, err := s.decode(value)
		if err != nil {
			scanErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		out = append(out, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}

	slices.SortStableFunc(out, func(a, b *domain.Credential) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Count returns the number of saved credentials.
func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.kv.Scan(ctx, []byte(idPrefix), func(_, _ []byte) bool {
		n++
		return true
	})
	return n, err
}

// Delete removes a credential by ID or name.
func (s *Store) Delete(ctx context.Context, nameOrID string) error {
	c, err := s.Get(ctx, nameOrID)
	if err != nil {
		return err
	}
	ops := []storage.Op{storage.DeleteOp([]byte(idPrefix + c.ID))}
	if c.Name != "" {
		ops = append(ops, storage.DeleteOp([]byte(namePrefix+c.Name)))
	}
	if err := s.kv.Apply(ctx, ops); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *Store) getByID(ctx context.Context, id string) (*domain.Credential, error) {
	data, err := s.kv.Get(ctx, []byte(idPrefix+id))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

func (s *Store) idForName(ctx context.Context, name string) (string, error) {
	id, err := s.kv.Get(ctx, []byte(namePrefix+name))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(id), nil
}

func (s *Store) encode(c *domain.Credential) ([]byte, error) {
	rec := record{Credential: c}
	if c.Password != "" {
		sealed, err := s.box.Seal([]byte(c.Password), []byte(c.ID))
		if err != nil {
			return nil, fmt.Errorf("seal password: %w", err)
		}
		rec.SealedPassword = sealed
	}
	return json.Marshal(rec)
}

func (s *Store) decode(data []byte) (*domain.Credential, error) {
	rec := record{Credential: &domain.Credential{}}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if len(rec.SealedPassword) > 0 {
		pw, err := s.box.Open(rec.SealedPassword, []byte(rec.ID))
		if err != nil {
			return nil, fmt.Errorf("open password for %s: %w", rec.ID, err)
		}
		rec.Password = string(pw)
	}
	return rec.Credential, nil
}
