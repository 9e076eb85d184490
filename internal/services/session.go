package services

import (
	"context"
	"errors"

	"vetusrex/internal/models"
	"vetusrex/internal/repository"
)

// ProfileLookup — откуда берётся роль пользователя (repository.ProfileRepo).
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// ResolveSession превращает id пользователя в сессию с ролью из профиля.
// Профиля ещё нет — обычный пользователь; пустой id — анонимная сессия.
func ResolveSession(ctx context.Context, profiles ProfileLookup, userID string) (models.Session, error) {
	if userID == "" {
		return models.Session{}, nil
	}
	p, err := profiles.GetByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.Session{UserID: userID, Role: models.RoleUser}, nil
	case err != nil:
		return models.Session{}, err
	}
	return p.Session(), nil
}
