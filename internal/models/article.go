package models

import "time"

// Article — новость. Поля Author и Excerpt вычисляются при чтении и в таблице не хранятся.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tag           Tag       `json:"tag"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	AuthorID      string    `json:"author_id"`
	Author        *Author   `json:"author,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Author — денормализованные поля профиля автора (join при чтении).
type Author struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      string  `json:"role"`
}

// HasCover — есть ли у статьи обложка.
func (a *Article) HasCover() bool {
	return a.CoverImageURL != nil && *a.CoverImageURL != ""
}

// swagger:model ArticleDraft
type ArticleDraft struct {
	Title         string  `json:"title"           validate:"required,max=200" example:"Patch 1.2"`
	Content       string  `json:"content"         validate:"required"         example:"<p>Fixes</p>"`
	Tag           Tag     `json:"tag"             validate:"required,oneof=update patch event announcement community" example:"patch"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	AuthorID      string  `json:"-"               validate:"required,uuid"`
}

// ArticlePatch — частичное обновление. nil — поле не меняется;
// CoverImageURL, указывающий на "", очищает обложку.
type ArticlePatch struct {
	Title         *string `json:"title,omitempty"           validate:"omitempty,max=200"`
	Content       *string `json:"content,omitempty"`
	Tag           *Tag    `json:"tag,omitempty"             validate:"omitempty,oneof=update patch event announcement community"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

func (p ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tag == nil && p.CoverImageURL == nil
}
