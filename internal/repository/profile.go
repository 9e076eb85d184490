package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vetusrex/internal/models"
)

type ProfileRepo interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
}

type profileRepo struct{ db DB }

func NewProfileRepo(db DB) ProfileRepo { return &profileRepo{db: db} }

const profileCols = `id::text, username, avatar_url, role, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Username, &p.AvatarURL, &p.Role, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = $1`, id))
}

func (r *profileRepo) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE username = $1`, username))
}
