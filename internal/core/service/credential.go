package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/resp"
)

// CredentialRepository stores saved connections.
type CredentialRepository interface {
	// Save inserts c, replacing any credential with the same ID or name.
	Save(ctx context.Context, c *domain.Credential) error

	// Get finds a credential by name or ID.
	Get(ctx context.Context, nameOrID string) (*domain.Credential, error)

	// List returns all credentials, oldest first.
	List(ctx context.Context) ([]*domain.Credential, error)

	// Delete removes a credential by name or ID.
	Delete(ctx context.Context, nameOrID string) error
}

// CredentialService manages saved connections.
type CredentialService struct {
	repo CredentialRepository
}

// NewCredentialService creates a credential service.
func NewCredentialService(repo CredentialRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// Register pings the server through ex and saves c when it answers PONG.
func (s *CredentialService) Register(ctx context.Context, c *domain.Credential, ex Exchanger) error {
	if err := c.Validate(); err != nil {
		return err
	}

	cmd, _ := domain.NewCommand("PING")
	reply, err := ex.Exchange(ctx, cmd)
	if err != nil {
		return err
	}
	if reply.IsError() {
		return errorFromReply(reply)
	}
	if !reply.Equal(resp.SimpleString("PONG")) {
		return domain.Errorf(domain.KindConnect, "unexpected PING reply %s", reply.String())
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return fmt.Errorf("save connection: %w", err)
	}
	return nil
}

// List returns all saved connections.
func (s *CredentialService) List(ctx context.Context) ([]*domain.Credential, error) {
	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return creds, nil
}

// Remove deletes a saved connection by name or ID.
func (s *CredentialService) Remove(ctx context.Context, nameOrID string) error {
	if err := s.repo.Delete(ctx, nameOrID); err != nil {
		return notFound(nameOrID, err)
	}
	return nil
}

// Profile returns the saved connection called nameOrID.
func (s *CredentialService) Profile(ctx context.Context, nameOrID string) (*domain.Credential, error) {
	c, err := s.repo.Get(ctx, nameOrID)
	if err != nil {
		return nil, notFound(nameOrID, err)
	}
	return c, nil
}

// Match returns the most specific saved connection satisfying f, or nil
// when none does. Ties go to the most recently created.
func (s *CredentialService) Match(ctx context.Context, f domain.CredentialFilter) (*domain.Credential, error) {
	if f.IsEmpty() {
		return nil, nil
	}
	creds, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*domain.Credential
	for _, c := range creds {
		if c.Matches(f) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	best := slices.MaxFunc(matches, func(a, b *domain.Credential) int {
		if d := a.Specificity() - b.Specificity(); d != 0 {
			if d > 0 {
				return 1
			}
			return -1
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return best, nil
}

func notFound(nameOrID string, err error) error {
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return domain.Wrap(domain.KindUsage, fmt.Sprintf("no saved connection %q", nameOrID), err)
	}
	return err
}
