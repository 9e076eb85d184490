package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vetusrex/internal/apperr"
	"vetusrex/internal/logger"
	"vetusrex/internal/models"
	"vetusrex/internal/reqctx"
	"vetusrex/internal/services"
	"vetusrex/internal/storage"
	helpers "vetusrex/internal/utils/helpres"
)

type NewsHandler struct {
	content     *services.ContentService
	pageSize    int
	previewSize int
}

func NewNewsHandler(content *services.ContentService, pageSize, previewSize int) *NewsHandler {
	return &NewsHandler{content: content, pageSize: pageSize, previewSize: previewSize}
}

type newsPageResponse struct {
	Items      []*models.Article `json:"items"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	HasMore    bool              `json:"has_more"`
}

type createNewsRequest struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Tag           string  `json:"tag"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}

type updateNewsRequest struct {
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	Tag           *string `json:"tag,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}

type previewRequest struct {
	Content string `json:"content"`
}

type coverRequest struct {
	URL string `json:"url"`
}

func session(r *http.Request) models.Session {
	s, _ := reqctx.GetSession(r.Context())
	return s
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation("handlers.query", key+" должен быть числом")
	}
	return n, nil
}

func isMultipart(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && ct == "multipart/form-data"
}

// readCover читает файл "file" из multipart-формы; nil — файла нет.
func readCover(r *http.Request) (*services.CoverFile, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("handlers.cover", "не удалось прочитать файл")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxCoverSize+1))
	if err != nil {
		return nil, apperr.Validation("handlers.cover", "не удалось прочитать файл")
	}
	return &services.CoverFile{Data: data, Filename: header.Filename}, nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxCoverSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxCoverSize + 1<<20); err != nil {
		return apperr.Validation("handlers.form", "форма слишком большая или повреждена")
	}
	return nil
}

func submitInput(r *http.Request) (services.SubmitInput, error) {
	cover, err := readCover(r)
	if err != nil {
		return services.SubmitInput{}, err
	}
	remove, _ := strconv.ParseBool(r.FormValue("remove_cover"))
	return services.SubmitInput{
		Title:       r.FormValue("title"),
		Content:     r.FormValue("content"),
		Tag:         models.Tag(r.FormValue("tag")),
		Cover:       cover,
		RemoveCover: remove,
	}, nil
}

// ListNews godoc
// @Summary Лента новостей с пагинацией и фильтром по тегу
// @Tags news
// @Produce json
// @Param page query int false "Номер страницы (с 1)"
// @Param page_size query int false "Размер страницы (1-100)"
// @Param tag query string false "Тег: update, patch, event, announcement, community"
// @Success 200 {object} newsPageResponse
// @Failure 400 {object} helpers.Response
// @Failure 503 {object} helpers.Response
// @Router /api/news [get]
func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	page, err := queryInt(r, "page", 1)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	size, err := queryInt(r, "page_size", h.pageSize)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	tag, ok := models.ParseTag(r.URL.Query().Get("tag"))
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "неизвестный тег")
		return
	}

	p, err := h.content.ListPage(r.Context(), page, size, tag)
	if err != nil {
		log.Warn("Ошибка получения ленты новостей", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	items := make([]*models.Article, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, services.Present(a))
	}
	helpers.JSON(w, http.StatusOK, newsPageResponse{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		HasMore:    p.HasMore(),
	})
}

// LatestNews godoc
// @Summary Последние новости для главной
// @Tags news
// @Produce json
// @Param limit query int false "Сколько новостей (по умолчанию 3)"
// @Success 200 {array} models.Article
// @Failure 503 {object} helpers.Response
// @Router /api/news/latest [get]
func (h *NewsHandler) LatestNews(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.previewSize)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	list, err := h.content.ListLatest(r.Context(), limit)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка получения последних новостей", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	out := make([]*models.Article, 0, len(list))
	for _, a := range list {
		out = append(out, services.Present(a))
	}
	helpers.JSON(w, http.StatusOK, out)
}

// GetNews godoc
// @Summary Получить новость по ID
// @Tags news
// @Produce json
// @Param id path string true "ID новости (UUID)"
// @Success 200 {object} services.DetailView
// @Failure 404 {object} helpers.Response
// @Failure 503 {object} helpers.Response
// @Router /api/news/{id} [get]
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := services.NewNewsDetail(h.content, session(r)).Load(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Info("Новость не получена", zap.String("news_id", id), zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, view)
}

// ListTags godoc
// @Summary Каталог тегов
// @Tags news
// @Produce json
// @Success 200 {array} models.TagInfo
// @Router /api/news/tags [get]
func (h *NewsHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, models.Tags())
}

// Preview godoc
// @Summary Предпросмотр HTML после санитизации (только admin)
// @Tags admin-news
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body previewRequest true "Черновик"
// @Success 200 {object} map[string]string
// @Router /api/admin/news/preview [post]
func (h *NewsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	html, err := h.content.PreviewHTML(r.Context(), session(r), req.Content)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"html": html})
}

// CreateNews godoc
// @Summary Создать новость (только admin)
// @Description JSON — обложка уже загружена; multipart (title, content, tag, file) — загрузка и создание за один запрос.
// @Tags admin-news
// @Security ApiKeyAuth
// @Accept json,mpfd
// @Produce json
// @Param input body createNewsRequest false "Данные новости"
// @Success 201 {object} models.Article
// @Failure 400 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Router /api/admin/news [post]
func (h *NewsHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	sess := session(r)

	if isMultipart(r) {
		if err := parseForm(w, r); err != nil {
			helpers.AppError(w, err)
			return
		}
		in, err := submitInput(r)
		if err != nil {
			helpers.AppError(w, err)
			return
		}
		created, err := services.NewNewsDetail(h.content, sess).Submit(r.Context(), in, services.SubmitOptions{})
		if err != nil {
			log.Warn("Ошибка создания новости", zap.Error(err))
			helpers.AppError(w, err)
			return
		}
		helpers.JSON(w, http.StatusCreated, services.Present(created))
		return
	}

	var req createNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON при создании новости", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	created, err := h.content.Create(r.Context(), sess, models.ArticleDraft{
		Title:         req.Title,
		Content:       req.Content,
		Tag:           models.Tag(req.Tag),
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		log.Warn("Ошибка создания новости", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, services.Present(created))
}

// UpdateNews godoc
// @Summary Обновить новость (только admin)
// @Description JSON — частичное обновление (cover_image_url "" убирает обложку); multipart — форма целиком (file, remove_cover).
// @Tags admin-news
// @Security ApiKeyAuth
// @Accept json,mpfd
// @Produce json
// @Param id path string true "ID новости"
// @Param input body updateNewsRequest false "Изменения"
// @Success 200 {object} models.Article
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/news/{id} [patch]
func (h *NewsHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	id := mux.Vars(r)["id"]
	sess := session(r)

	if isMultipart(r) {
		if err := parseForm(w, r); err != nil {
			helpers.AppError(w, err)
			return
		}
		in, err := submitInput(r)
		if err != nil {
			helpers.AppError(w, err)
			return
		}
		updated, err := services.NewNewsDetail(h.content, sess).Submit(r.Context(), in,
			services.SubmitOptions{IsEdit: true, ID: id})
		if err != nil {
			log.Warn("Ошибка обновления новости", zap.String("news_id", id), zap.Error(err))
			helpers.AppError(w, err)
			return
		}
		helpers.JSON(w, http.StatusOK, services.Present(updated))
		return
	}

	var req updateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON при обновлении новости", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	patch := models.ArticlePatch{
		Title:         req.Title,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
	}
	if req.Tag != nil {
		t := models.Tag(*req.Tag)
		patch.Tag = &t
	}
	updated, err := h.content.Update(r.Context(), sess, id, patch)
	if err != nil {
		log.Warn("Ошибка обновления новости", zap.String("news_id", id), zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, services.Present(updated))
}

// DeleteNews godoc
// @Summary Удалить новость вместе с обложкой (только admin)
// @Tags admin-news
// @Security ApiKeyAuth
// @Param id path string true "ID новости"
// @Success 200 {string} string "Удалено"
// @Failure 404 {object} helpers.Response
// @Router /api/admin/news/{id} [delete]
func (h *NewsHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := services.NewNewsDetail(h.content, session(r)).Remove(r.Context(), id); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка удаления новости", zap.String("news_id", id), zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Удалено")
}

// UploadCover godoc
// @Summary Загрузить обложку (только admin)
// @Tags admin-news
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Param file formData file true "Изображение до 5 МБ"
// @Success 201 {object} coverRequest
// @Failure 400 {object} helpers.Response
// @Router /api/admin/news/cover [post]
func (h *NewsHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		helpers.AppError(w, err)
		return
	}
	cover, err := readCover(r)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	if cover == nil {
		helpers.Error(w, http.StatusBadRequest, "файл не передан")
		return
	}
	url, err := h.content.UploadCoverImage(r.Context(), session(r), cover.Data, cover.Filename)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка загрузки обложки", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, coverRequest{URL: url})
}

// DeleteCover godoc
// @Summary Удалить обложку по URL (только admin)
// @Tags admin-news
// @Security ApiKeyAuth
// @Accept json
// @Param input body coverRequest true "URL обложки"
// @Success 200 {string} string "Удалено"
// @Router /api/admin/news/cover [delete]
func (h *NewsHandler) DeleteCover(w http.ResponseWriter, r *http.Request) {
	var req coverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.content.DeleteCoverImage(r.Context(), session(r), req.URL); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка удаления обложки", zap.String("url", req.URL), zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Удалено")
}

// Stats godoc
// @Summary Статистика новостей (только admin)
// @Tags admin-news
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.NewsStats
// @Router /api/admin/news/stats [get]
func (h *NewsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.content.Stats(r.Context(), session(r))
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}
