package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"vetusrex/internal/apperr"
	"vetusrex/internal/logger"
	"vetusrex/internal/models"
	"vetusrex/internal/storage"
)

// DetailView — новость, готовая к выводу.
type DetailView struct {
	Article  *models.Article `json:"article"`
	SafeHTML string          `json:"safe_html"`
	TagInfo  models.TagInfo  `json:"tag_info"`
	CanEdit  bool            `json:"can_edit"`
}

// CoverFile — новый файл обложки из формы.
type CoverFile struct {
	Data     []byte
	Filename string
}

// SubmitInput — данные формы создания/редактирования.
// На редактировании: Cover — новый файл; RemoveCover — обложку убрали явно;
// ни того ни другого — текущая обложка сохраняется.
type SubmitInput struct {
	Title       string
	Content     string
	Tag         models.Tag
	Cover       *CoverFile
	RemoveCover bool
}

type SubmitOptions struct {
	IsEdit bool
	ID     string
}

// NewsDetail — просмотр одной новости и её жизненный цикл в админке.
// Сессия вызывающего передаётся явно при создании.
type NewsDetail struct {
	content *ContentService
	sess    models.Session
}

func NewNewsDetail(content *ContentService, sess models.Session) *NewsDetail {
	return &NewsDetail{content: content, sess: sess}
}

// Load возвращает новость с санитизированным HTML. «Не найдено» и ошибку
// соединения можно различить через apperr.IsNotFound / apperr.IsConnection.
func (d *NewsDetail) Load(ctx context.Context, id string) (*DetailView, error) {
	a, err := d.content.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info, _ := a.Tag.Info()
	out := Present(a)
	return &DetailView{
		Article:  out,
		SafeHTML: out.Content,
		TagInfo:  info,
		CanEdit:  d.sess.IsAdmin(),
	}, nil
}

// Remove удаляет обложку, затем строку. Сбой удаления обложки логируется и
// не мешает удалению новости: осиротевший файл допустим, осиротевшая строка нет.
func (d *NewsDetail) Remove(ctx context.Context, id string) error {
	const op = "news.Remove"
	log := logger.WithCtx(ctx)

	if err := requireAdmin(op, d.sess); err != nil {
		return err
	}

	a, err := d.content.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if a.HasCover() {
		if err := d.content.DeleteCoverImage(ctx, d.sess, *a.CoverImageURL); err != nil {
			log.Warn("Сервис: обложка не удалена, удаляем новость дальше",
				zap.String("id", id),
				zap.String("cover", *a.CoverImageURL),
				zap.Error(err),
			)
		}
	}

	return d.content.Delete(ctx, d.sess, id)
}

// validate проверяет форму до любого сетевого вызова.
func (d *NewsDetail) validate(in SubmitInput, opts SubmitOptions) error {
	const op = "news.Submit"
	if err := requireAdmin(op, d.sess); err != nil {
		return err
	}
	if opts.IsEdit && strings.TrimSpace(opts.ID) == "" {
		return apperr.Validation(op, "не указан id новости")
	}
	if err := d.content.ValidateDraft(models.ArticleDraft{
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Tag:      in.Tag,
		AuthorID: d.sess.UserID,
	}); err != nil {
		return err
	}
	if in.Cover != nil {
		if _, _, err := storage.ValidateCover(in.Cover.Data); err != nil {
			return err
		}
	}
	return nil
}

// Submit создаёт или редактирует новость.
//
// Редактирование с новой обложкой: загрузка нового файла, сохранение строки,
// удаление прежнего файла (ровно один раз). Явное удаление обложки обнуляет
// cover_image_url и удаляет прежний файл. Если строку сохранить не удалось,
// только что загруженный файл удаляется.
func (d *NewsDetail) Submit(ctx context.Context, in SubmitInput, opts SubmitOptions) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	if err := d.validate(in, opts); err != nil {
		log.Warn("Сервис: форма новости не прошла проверку", zap.Error(err))
		return nil, err
	}
	title := strings.TrimSpace(in.Title)

	if !opts.IsEdit {
		var cover *string
		if in.Cover != nil {
			url, err := d.content.UploadCoverImage(ctx, d.sess, in.Cover.Data, in.Cover.Filename)
			if err != nil {
				return nil, err
			}
			cover = &url
		}
		created, err := d.content.Create(ctx, d.sess, models.ArticleDraft{
			Title:         title,
			Content:       in.Content,
			Tag:           in.Tag,
			CoverImageURL: cover,
			AuthorID:      d.sess.UserID,
		})
		if err != nil {
			if cover != nil {
				d.discardCover(ctx, *cover)
			}
			return nil, err
		}
		return created, nil
	}

	current, err := d.content.GetByID(ctx, opts.ID)
	if err != nil {
		return nil, err
	}

	patch := models.ArticlePatch{Title: &title, Content: &in.Content, Tag: &in.Tag}
	uploaded := ""
	switch {
	case in.Cover != nil:
		url, err := d.content.UploadCoverImage(ctx, d.sess, in.Cover.Data, in.Cover.Filename)
		if err != nil {
			return nil, err
		}
		uploaded = url
		patch.CoverImageURL = &uploaded
	case in.RemoveCover && current.HasCover():
		empty := ""
		patch.CoverImageURL = &empty
	}

	updated, err := d.content.Update(ctx, d.sess, opts.ID, patch)
	if err != nil {
		if uploaded != "" {
			d.discardCover(ctx, uploaded)
		}
		return nil, err
	}

	if patch.CoverImageURL != nil && current.HasCover() && *current.CoverImageURL != uploaded {
		if err := d.content.DeleteCoverImage(ctx, d.sess, *current.CoverImageURL); err != nil {
			log.Warn("Сервис: прежняя обложка не удалена",
				zap.String("id", opts.ID),
				zap.String("cover", *current.CoverImageURL),
				zap.Error(err),
			)
		}
	}
	return updated, nil
}

func (d *NewsDetail) discardCover(ctx context.Context, url string) {
	if err := d.content.DeleteCoverImage(ctx, d.sess, url); err != nil {
		logger.WithCtx(ctx).Warn("Сервис: загруженная обложка не удалена после ошибки",
			zap.String("cover", url), zap.Error(err))
	}
}
