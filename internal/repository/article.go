package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vetusrex/internal/models"
)

// ErrNotFound — строки с таким id нет (или id не является UUID).
var ErrNotFound = errors.New("not found")

// DB — общий интерфейс pgxpool.Pool и pgxmock.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type ArticleRepo interface {
	Latest(ctx context.Context, limit int) ([]*models.Article, error)
	Page(ctx context.Context, offset, limit int, tag *models.Tag) ([]*models.Article, int, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	Update(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.NewsStats, error)
}

type articleRepo struct{ db DB }

func NewArticleRepo(db DB) ArticleRepo { return &articleRepo{db: db} }

// Поля автора подтягиваются join'ом при каждом чтении и в news не хранятся.
const articleCols = `
	n.id::text, n.title, n.content, n.tag, n.cover_image_url, n.author_id::text,
	n.created_at, n.updated_at, p.username, p.avatar_url, p.role`

const articleFrom = ` n LEFT JOIN profiles p ON p.id = n.author_id`

func scanArticle(row pgx.Row) (*models.Article, error) {
	var (
		a        models.Article
		tag      string
		username *string
		avatar   *string
		role     *string
	)
	if err := row.Scan(
		&a.ID, &a.Title, &a.Content, &tag, &a.CoverImageURL, &a.AuthorID,
		&a.CreatedAt, &a.UpdatedAt, &username, &avatar, &role,
	); err != nil {
		return nil, err
	}
	a.Tag = models.Tag(tag)
	if username != nil {
		a.Author = &models.Author{Username: *username, AvatarURL: avatar}
		if role != nil {
			a.Author.Role = *role
		}
	}
	return &a, nil
}

func collect(rows pgx.Rows) ([]*models.Article, error) {
	defer rows.Close()
	list := []*models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *articleRepo) Latest(ctx context.Context, limit int) ([]*models.Article, error) {
	q := `SELECT` + articleCols + ` FROM news` + articleFrom + `
		ORDER BY n.created_at DESC, n.id DESC LIMIT $1`

	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Page возвращает срез [offset, offset+limit) и общее число строк под фильтром.
// Фильтр по тегу применяется до пагинации и к COUNT.
func (r *articleRepo) Page(ctx context.Context, offset, limit int, tag *models.Tag) ([]*models.Article, int, error) {
	where := []string{}
	args := []any{}
	i := 1

	if tag != nil {
		where = append(where, fmt.Sprintf("n.tag = $%d", i))
		args = append(args, string(*tag))
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news n`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || offset >= total {
		return []*models.Article{}, total, nil
	}

	q := `SELECT` + articleCols + ` FROM news` + articleFrom + cond +
		fmt.Sprintf(" ORDER BY n.created_at DESC, n.id DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	q := `SELECT` + articleCols + ` FROM news` + articleFrom + ` WHERE n.id = $1`

	a, err := scanArticle(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *articleRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	q := `
		WITH n AS (
			INSERT INTO news (id, title, content, tag, cover_image_url, author_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT` + articleCols + ` FROM n LEFT JOIN profiles p ON p.id = n.author_id`

	return scanArticle(r.db.QueryRow(ctx, q,
		a.ID,
		a.Title,
		a.Content,
		string(a.Tag),
		a.CoverImageURL, // *string (nullable)
		a.AuthorID,
	))
}

// Update меняет только переданные поля и всегда обновляет updated_at.
// Пустая строка в CoverImageURL сбрасывает обложку в NULL.
func (r *articleRepo) Update(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var tag *string
	if patch.Tag != nil {
		s := string(*patch.Tag)
		tag = &s
	}

	q := `
		WITH n AS (
			UPDATE news
			SET title = COALESCE($2, title),
			    content = COALESCE($3, content),
			    tag = COALESCE($4, tag),
			    cover_image_url = CASE WHEN $5::boolean THEN NULLIF($6, '') ELSE cover_image_url END,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT` + articleCols + ` FROM n LEFT JOIN profiles p ON p.id = n.author_id`

	var cover string
	if patch.CoverImageURL != nil {
		cover = *patch.CoverImageURL
	}

	a, err := scanArticle(r.db.QueryRow(ctx, q,
		id,
		patch.Title,
		patch.Content,
		tag,
		patch.CoverImageURL != nil,
		cover,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepo) Stats(ctx context.Context) (*models.NewsStats, error) {
	const q = `
		SELECT tag, COUNT(*), COUNT(cover_image_url)
		FROM news
		GROUP BY tag
	`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s := &models.NewsStats{ByTag: map[models.Tag]int{}}
	for rows.Next() {
		var (
			tag           string
			count, covers int
		)
		if err := rows.Scan(&tag, &count, &covers); err != nil {
			return nil, err
		}
		s.ByTag[models.Tag(tag)] = count
		s.Total += count
		s.WithCover += covers
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.FillPercentages()
	return s, nil
}
