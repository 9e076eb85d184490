// Package storage хранит обложки новостей в объектном хранилище.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vetusrex/internal/apperr"
	"vetusrex/internal/logger"
)

// MaxCoverSize — предельный размер файла обложки.
const MaxCoverSize = 5 << 20

const coverPrefix = "covers/"

// SVG может содержать скрипты, поэтому в обложках не допускается.
var rejectedTypes = map[string]bool{"image/svg+xml": true}

type CoverStore struct {
	store     ObjectStore
	publicURL string
	now       func() time.Time
}

func NewCoverStore(store ObjectStore, publicURL string) *CoverStore {
	return &CoverStore{
		store:     store,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// ValidateCover проверяет размер и тип файла, возвращает расширение и MIME.
func ValidateCover(data []byte) (ext, contentType string, err error) {
	const op = "storage.ValidateCover"
	if len(data) == 0 {
		return "", "", apperr.Validation(op, "файл пустой")
	}
	if len(data) > MaxCoverSize {
		return "", "", apperr.Validation(op, "файл больше 5 МБ")
	}
	mt := mimetype.Detect(data)
	ct := mt.String()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !strings.HasPrefix(ct, "image/") || rejectedTypes[ct] {
		return "", "", apperr.Validation(op, "файл не является изображением")
	}
	return mt.Extension(), ct, nil
}

func (c *CoverStore) newKey(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s%d-%s%s", coverPrefix, c.now().UnixMilli(), suffix, ext)
}

// URL — публичный адрес объекта.
func (c *CoverStore) URL(key string) string {
	return c.publicURL + "/" + key
}

// KeyFromURL извлекает ключ объекта из выданного ранее адреса.
func (c *CoverStore) KeyFromURL(url string) (string, error) {
	const op = "storage.KeyFromURL"
	prefix := c.publicURL + "/" + coverPrefix
	if c.publicURL == "" || !strings.HasPrefix(url, prefix) {
		return "", apperr.Validation(op, "адрес не принадлежит хранилищу обложек")
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, "/?#\\") || name != path.Clean(name) {
		return "", apperr.Validation(op, "некорректный адрес обложки")
	}
	return coverPrefix + name, nil
}

// Owns — адрес выдан этим хранилищем.
func (c *CoverStore) Owns(url string) bool {
	_, err := c.KeyFromURL(url)
	return err == nil
}

// Upload сохраняет обложку и возвращает её публичный адрес.
func (c *CoverStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	ext, ct, err := ValidateCover(data)
	if err != nil {
		return "", err
	}
	if ext == "" {
		ext = extFromName(filename)
	}

	key := c.newKey(ext)
	if err := c.store.Put(ctx, key, data, ct); err != nil {
		logger.WithCtx(ctx).Error("Хранилище: не удалось загрузить обложку",
			zap.String("key", key), zap.Error(err))
		return "", err
	}

	logger.WithCtx(ctx).Info("Хранилище: обложка загружена",
		zap.String("key", key),
		zap.String("content_type", ct),
		zap.Int("size", len(data)),
		zap.String("filename", filename),
	)
	return c.URL(key), nil
}

// Delete удаляет обложку по адресу.
func (c *CoverStore) Delete(ctx context.Context, url string) error {
	key, err := c.KeyFromURL(url)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, key); err != nil {
		logger.WithCtx(ctx).Warn("Хранилище: не удалось удалить обложку",
			zap.String("key", key), zap.Error(err))
		return err
	}
	logger.WithCtx(ctx).Info("Хранилище: обложка удалена", zap.String("key", key))
	return nil
}

func extFromName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	for _, r := range strings.TrimPrefix(ext, ".") {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
