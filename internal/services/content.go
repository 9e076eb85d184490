package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vetusrex/internal/apperr"
	"vetusrex/internal/logger"
	"vetusrex/internal/metrics"
	"vetusrex/internal/models"
	"vetusrex/internal/repository"
	"vetusrex/internal/richtext"
	"vetusrex/internal/sanitizer"
)

// MaxPageSize — верхняя граница размера страницы.
const MaxPageSize = 100

// CoverStorage — хранилище обложек (storage.CoverStore).
type CoverStorage interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}

// ContentReader — операции чтения, нужные контроллерам списка.
type ContentReader interface {
	ListLatest(ctx context.Context, limit int) ([]*models.Article, error)
	ListPage(ctx context.Context, page, pageSize int, tag *models.Tag) (*models.Page, error)
}

// ContentService — доступ к новостям: чтение, мутации только для админов,
// обложки в объектном хранилище. Каждое обращение к бэкенду ограничено таймаутом,
// транспортные ошибки и таймауты возвращаются как apperr.KindConnection.
type ContentService struct {
	repo     repository.ArticleRepo
	covers   CoverStorage
	validate *validator.Validate
	timeout  time.Duration
}

func NewContentService(repo repository.ArticleRepo, covers CoverStorage, timeout time.Duration) *ContentService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ContentService{
		repo:     repo,
		covers:   covers,
		validate: newValidator(),
		timeout:  timeout,
	}
}

func (s *ContentService) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// backendErr приводит ошибку бэкенда к таксономии apperr.
func backendErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(op, "новость не найдена")
	case apperr.KindOf(err) != 0:
		return err
	default:
		metrics.RecordBackendError(op, apperr.KindConnection.String())
		return apperr.Connection(op, err)
	}
}

func requireAdmin(op string, sess models.Session) error {
	if !sess.IsAdmin() {
		return apperr.Authorization(op, "действие доступно только администраторам")
	}
	return nil
}

// IsEmptyContent — контент пуст после санитизации (в т.ч. "<p></p>").
func IsEmptyContent(content string) bool {
	if strings.TrimSpace(content) == "" || content == richtext.EmptyHTML {
		return true
	}
	return sanitizer.Document(content).IsEmpty()
}

func (s *ContentService) ListLatest(ctx context.Context, limit int) ([]*models.Article, error) {
	const op = "content.ListLatest"
	log := logger.WithCtx(ctx)
	if limit < 1 || limit > MaxPageSize {
		return nil, apperr.Validation(op, "limit должен быть от 1 до 100")
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	list, err := s.repo.Latest(cctx, limit)
	if err != nil {
		log.Error("Ошибка получения последних новостей (repo)", zap.Int("limit", limit), zap.Error(err))
		return nil, backendErr(op, err)
	}
	for _, a := range list {
		withExcerpt(a)
	}
	log.Debug("Последние новости получены", zap.Int("count", len(list)))
	return list, nil
}

// ListPage — офсетная пагинация: from = (page-1)*pageSize. Фильтр по тегу
// применяется до пагинации, TotalCount считает только подходящие новости.
func (s *ContentService) ListPage(ctx context.Context, page, pageSize int, tag *models.Tag) (*models.Page, error) {
	const op = "content.ListPage"
	log := logger.WithCtx(ctx)

	if page < 1 {
		return nil, apperr.Validation(op, "page должен быть не меньше 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, apperr.Validation(op, "page_size должен быть от 1 до 100")
	}
	if tag != nil && !tag.Valid() {
		return nil, apperr.Validation(op, "неизвестный тег")
	}

	log.Debug("Получение страницы новостей",
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
		zap.Any("tag", tag),
	)

	cctx, cancel := s.call(ctx)
	defer cancel()

	items, total, err := s.repo.Page(cctx, (page-1)*pageSize, pageSize, tag)
	if err != nil {
		log.Error("Ошибка получения страницы новостей (repo)", zap.Int("page", page), zap.Error(err))
		return nil, backendErr(op, err)
	}
	for _, a := range items {
		withExcerpt(a)
	}
	return &models.Page{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

func (s *ContentService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "content.GetByID"
	log := logger.WithCtx(ctx)
	log.Debug("Получение новости по ID", zap.String("id", id))

	cctx, cancel := s.call(ctx)
	defer cancel()

	a, err := s.repo.GetByID(cctx, id)
	if err != nil {
		log.Warn("Новость не получена (repo)", zap.String("id", id), zap.Error(err))
		return nil, backendErr(op, err)
	}
	return withExcerpt(a), nil
}

func (s *ContentService) Create(ctx context.Context, sess models.Session, draft models.ArticleDraft) (*models.Article, error) {
	const op = "content.Create"
	log := logger.WithCtx(ctx)
	log.Info("Создание новости",
		zap.String("author_id", sess.UserID),
		zap.String("title", strings.TrimSpace(draft.Title)),
		zap.String("tag", string(draft.Tag)),
	)

	if err := requireAdmin(op, sess); err != nil {
		log.Warn("Создание новости запрещено", zap.String("role", sess.Role))
		return nil, err
	}

	draft.Title = strings.TrimSpace(draft.Title)
	if draft.AuthorID == "" {
		draft.AuthorID = sess.UserID
	}
	if err := s.ValidateDraft(draft); err != nil {
		log.Warn("Валидация не пройдена", zap.Error(err))
		return nil, err
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	created, err := s.repo.Create(cctx, &models.Article{
		Title:         draft.Title,
		Content:       draft.Content,
		Tag:           draft.Tag,
		CoverImageURL: draft.CoverImageURL,
		AuthorID:      draft.AuthorID,
	})
	if err != nil {
		log.Error("Ошибка создания новости (repo)", zap.Error(err))
		return nil, backendErr(op, err)
	}

	log.Info("Новость создана", zap.String("id", created.ID))
	return withExcerpt(created), nil
}

// ValidateDraft проверяет черновик без обращения к бэкенду.
func (s *ContentService) ValidateDraft(draft models.ArticleDraft) error {
	const op = "content.ValidateDraft"
	if strings.TrimSpace(draft.Title) == "" {
		return apperr.Validation(op, "заголовок не может быть пустым")
	}
	if IsEmptyContent(draft.Content) {
		return apperr.Validation(op, "текст новости не может быть пустым")
	}
	if err := s.validate.Struct(draft); err != nil {
		return apperr.Validation(op, describe(err))
	}
	return nil
}

// ValidatePatch проверяет частичное обновление без обращения к бэкенду.
func (s *ContentService) ValidatePatch(patch models.ArticlePatch) error {
	const op = "content.ValidatePatch"
	if patch.IsEmpty() {
		return apperr.Validation(op, "нет полей для обновления")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return apperr.Validation(op, "заголовок не может быть пустым")
	}
	if patch.Content != nil && IsEmptyContent(*patch.Content) {
		return apperr.Validation(op, "текст новости не может быть пустым")
	}
	if err := s.validate.Struct(patch); err != nil {
		return apperr.Validation(op, describe(err))
	}
	return nil
}

// Update применяет частичное обновление; updated_at обновляется всегда.
// Конкурентные правки: побеждает последняя.
func (s *ContentService) Update(ctx context.Context, sess models.Session, id string, patch models.ArticlePatch) (*models.Article, error) {
	const op = "content.Update"
	log := logger.WithCtx(ctx)
	log.Info("Обновление новости", zap.String("id", id))

	if err := requireAdmin(op, sess); err != nil {
		log.Warn("Обновление новости запрещено", zap.String("id", id), zap.String("role", sess.Role))
		return nil, err
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if err := s.ValidatePatch(patch); err != nil {
		log.Warn("Валидация не пройдена", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	updated, err := s.repo.Update(cctx, id, patch)
	if err != nil {
		log.Error("Ошибка обновления новости (repo)", zap.String("id", id), zap.Error(err))
		return nil, backendErr(op, err)
	}

	log.Info("Новость обновлена", zap.String("id", id))
	return withExcerpt(updated), nil
}

func (s *ContentService) Delete(ctx context.Context, sess models.Session, id string) error {
	const op = "content.Delete"
	log := logger.WithCtx(ctx)
	log.Info("Удаление новости", zap.String("id", id))

	if err := requireAdmin(op, sess); err != nil {
		log.Warn("Удаление новости запрещено", zap.String("id", id), zap.String("role", sess.Role))
		return err
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	if err := s.repo.Delete(cctx, id); err != nil {
		log.Error("Ошибка удаления новости (repo)", zap.String("id", id), zap.Error(err))
		return backendErr(op, err)
	}

	log.Info("Новость удалена", zap.String("id", id))
	return nil
}

// UploadCoverImage загружает обложку и возвращает публичный URL.
func (s *ContentService) UploadCoverImage(ctx context.Context, sess models.Session, data []byte, filename string) (string, error) {
	const op = "content.UploadCoverImage"
	log := logger.WithCtx(ctx)

	if err := requireAdmin(op, sess); err != nil {
		log.Warn("Загрузка обложки запрещена", zap.String("role", sess.Role))
		return "", err
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	url, err := s.covers.Upload(cctx, data, filename)
	if err != nil {
		return "", backendErr(op, err)
	}
	return url, nil
}

// DeleteCoverImage удаляет ранее выданную обложку.
func (s *ContentService) DeleteCoverImage(ctx context.Context, sess models.Session, url string) error {
	const op = "content.DeleteCoverImage"
	log := logger.WithCtx(ctx)

	if err := requireAdmin(op, sess); err != nil {
		log.Warn("Удаление обложки запрещено", zap.String("role", sess.Role))
		return err
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	if err := s.covers.Delete(cctx, url); err != nil {
		return backendErr(op, err)
	}
	return nil
}

// Stats — сводка по новостям для админки.
func (s *ContentService) Stats(ctx context.Context, sess models.Session) (*models.NewsStats, error) {
	const op = "content.Stats"
	if err := requireAdmin(op, sess); err != nil {
		return nil, err
	}

	cctx, cancel := s.call(ctx)
	defer cancel()

	st, err := s.repo.Stats(cctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения статистики (repo)", zap.Error(err))
		return nil, backendErr(op, err)
	}
	return st, nil
}

// PreviewHTML — безопасный HTML для предпросмотра в админке.
func (s *ContentService) PreviewHTML(ctx context.Context, sess models.Session, raw string) (string, error) {
	if err := requireAdmin("content.PreviewHTML", sess); err != nil {
		return "", err
	}
	clean := sanitizer.Sanitize(raw)
	logger.WithCtx(ctx).Debug("Предпросмотр HTML (sanitize)",
		zap.Int("raw_len", len(raw)),
		zap.Int("clean_len", len(clean)),
	)
	return clean, nil
}

func withExcerpt(a *models.Article) *models.Article {
	if a != nil {
		a.Excerpt = richtext.Excerpt(sanitizer.Sanitize(a.Content), richtext.DefaultExcerptLen)
	}
	return a
}

// Present — копия статьи для вывода: контент санитизирован, превью посчитано.
func Present(a *models.Article) *models.Article {
	if a == nil {
		return nil
	}
	out := *a
	out.Content = sanitizer.Sanitize(a.Content)
	out.Excerpt = richtext.Excerpt(out.Content, richtext.DefaultExcerptLen)
	return &out
}
