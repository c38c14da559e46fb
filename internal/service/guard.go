package service

import (
	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/pkg/logger"
	"go.uber.org/zap"
)

// Actor is the authenticated principal behind a request, as resolved from a
// verified bearer token.
type Actor struct {
	ID   uint
	Role models.Role
}

// IsAdmin reports whether the actor carries the admin role claim.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Guard decides whether an actor may mutate a given resource. The rule is
// owner-or-admin with a global block check: admins pass unconditionally,
// blocked users are rejected, everyone else must own the resource. The block
// flag is read from the store on every call, not from the token, so a block
// takes effect before the actor's token expires.
type Guard struct {
	userRepo *repository.UserRepository
}

func NewGuard(userRepo *repository.UserRepository) *Guard {
	return &Guard{userRepo: userRepo}
}

// CanCreate checks whether the actor may create a new resource. There is no
// owner yet, so only the block check applies.
func (g *Guard) CanCreate(actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return g.checkBlocked(actor)
}

// CanMutate checks whether the actor may mutate a resource owned by ownerID.
func (g *Guard) CanMutate(actor Actor, ownerID uint) error {
	if actor.IsAdmin() {
		return nil
	}

	if err := g.checkBlocked(actor); err != nil {
		return err
	}

	if actor.ID != ownerID {
		logger.Log.Warn("Guard: mutation denied, not owner",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("owner_id", ownerID),
		)
		return ErrNotOwner
	}
	return nil
}

func (g *Guard) checkBlocked(actor Actor) error {
	user, err := g.userRepo.GetUserByID(actor.ID)
	if err != nil {
		return err
	}
	if user == nil {
		// A valid token for a user row that no longer exists.
		return ErrUnknownActor
	}
	if user.IsBlocked {
		logger.Log.Warn("Guard: mutation denied, user blocked",
			zap.Uint("actor_id", actor.ID),
		)
		return ErrUserBlocked
	}
	return nil
}
