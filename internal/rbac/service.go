package rbac

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/atlaspay/atlas-console/internal/credentials"
)

// Repo abstracts grant lookups for the service.
type Repo interface {
	EffectivePermissions(ctx context.Context, accountID int64) ([]credentials.Permission, error)
	EffectiveRoles(ctx context.Context, accountID int64) ([]credentials.Role, error)
}

type grants struct {
	perms []credentials.Permission
	roles []credentials.Role
}

// Service resolves effective grants and pushes them into credential stores.
type Service struct {
	repo  Repo
	group singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// EffectiveGrants loads the account's permissions and roles. Concurrent
// lookups for the same account collapse into a single pair of queries.
func (s *Service) EffectiveGrants(ctx context.Context, accountID int64) ([]credentials.Permission, []credentials.Role, error) {
	key := strconv.FormatInt(accountID, 10)
	result, err, _ := s.group.Do(key, func() (any, error) {
		perms, err := s.repo.EffectivePermissions(ctx, accountID)
		if err != nil {
			return nil, err
		}
		roles, err := s.repo.EffectiveRoles(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return grants{perms: perms, roles: roles}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	g := result.(grants)
	return g.perms, g.roles, nil
}

// Refresh re-resolves grants for the account and replaces both collections on
// the store, leaving token and authentication state untouched.
func (s *Service) Refresh(ctx context.Context, accountID int64, store *credentials.Store) error {
	perms, roles, err := s.EffectiveGrants(ctx, accountID)
	if err != nil {
		return err
	}
	if err := store.SyncPermissions(ctx, perms); err != nil {
		return err
	}
	return store.SyncRoles(ctx, roles)
}
