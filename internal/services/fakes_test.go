package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vetusrex/internal/models"
	"vetusrex/internal/repository"
	"vetusrex/internal/storage"
)

const (
	adminID = "6f1c2a9e-3b7d-4c1e-9a53-0d2b8f4e7a10"
	userID  = "a3c1e2f4-5b6d-4e7f-8a9b-0c1d2e3f4a5b"
)

var (
	admin  = models.Session{UserID: adminID, Role: models.RoleAdmin}
	member = models.Session{UserID: userID, Role: models.RoleUser}
)

// journal — общий журнал вызовов фейков, чтобы проверять порядок операций.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

func (j *journal) count(prefix string) int {
	n := 0
	for _, e := range j.list() {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Мок-репозиторий новостей в памяти.
type fakeRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.Article
	clock time.Time
	log   *journal

	err        error // ошибка транспорта для всех вызовов
	failUpdate error
	block      bool // ждать отмены контекста
}

func newFakeRepo(log *journal) *fakeRepo {
	return &fakeRepo{
		rows:  map[string]*models.Article{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		log:   log,
	}
}

func (r *fakeRepo) wait(ctx context.Context) error {
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.err
}

func (r *fakeRepo) seed(n int, tag models.Tag, cover bool) []*models.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Article
	for i := 0; i < n; i++ {
		r.clock = r.clock.Add(time.Minute)
		a := &models.Article{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("%s %d", tag, i),
			Content:   fmt.Sprintf("<p>%s body %d</p>", tag, i),
			Tag:       tag,
			AuthorID:  adminID,
			Author:    &models.Author{Username: "gm", Role: models.RoleAdmin},
			CreatedAt: r.clock,
			UpdatedAt: r.clock,
		}
		if cover {
			url := fmt.Sprintf("https://cdn.vetusrex.com/covers/%d-seed.png", r.clock.UnixMilli())
			a.CoverImageURL = &url
		}
		r.rows[a.ID] = a
		out = append(out, a)
	}
	return out
}

func clone(a *models.Article) *models.Article {
	c := *a
	if a.CoverImageURL != nil {
		u := *a.CoverImageURL
		c.CoverImageURL = &u
	}
	return &c
}

func (r *fakeRepo) sorted(tag *models.Tag) []*models.Article {
	var list []*models.Article
	for _, a := range r.rows {
		if tag == nil || a.Tag == *tag {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r *fakeRepo) Latest(ctx context.Context, limit int) ([]*models.Article, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sorted(nil)
	if len(list) > limit {
		list = list[:limit]
	}
	out := []*models.Article{}
	for _, a := range list {
		out = append(out, clone(a))
	}
	return out, nil
}

func (r *fakeRepo) Page(ctx context.Context, offset, limit int, tag *models.Tag) ([]*models.Article, int, error) {
	if err := r.wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.add("repo.page:%d", offset)
	list := r.sorted(tag)
	out := []*models.Article{}
	for i := offset; i < len(list) && i < offset+limit; i++ {
		out = append(out, clone(list[i]))
	}
	return out, len(list), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(a), nil
}

func (r *fakeRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Minute)
	c := clone(a)
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = r.clock, r.clock
	r.rows[c.ID] = c
	r.log.add("repo.create:%s", c.ID)
	return clone(c), nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, p models.ArticlePatch) (*models.Article, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Tag != nil {
		a.Tag = *p.Tag
	}
	if p.CoverImageURL != nil {
		if *p.CoverImageURL == "" {
			a.CoverImageURL = nil
		} else {
			u := *p.CoverImageURL
			a.CoverImageURL = &u
		}
	}
	r.clock = r.clock.Add(time.Minute)
	a.UpdatedAt = r.clock
	r.log.add("repo.update:%s", id)
	return clone(a), nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	r.log.add("repo.delete:%s", id)
	return nil
}

func (r *fakeRepo) Stats(ctx context.Context) (*models.NewsStats, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &models.NewsStats{ByTag: map[models.Tag]int{}}
	for _, a := range r.rows {
		s.Total++
		s.ByTag[a.Tag]++
		if a.HasCover() {
			s.WithCover++
		}
	}
	s.FillPercentages()
	return s, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Мок-хранилище обложек.
type fakeCovers struct {
	log     *journal
	mu      sync.Mutex
	n       int
	failPut error
	failDel error
	stored  map[string]bool
}

func newFakeCovers(log *journal) *fakeCovers {
	return &fakeCovers{log: log, stored: map[string]bool{}}
}

func (c *fakeCovers) Upload(_ context.Context, data []byte, filename string) (string, error) {
	if _, _, err := storage.ValidateCover(data); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPut != nil {
		return "", c.failPut
	}
	c.n++
	url := fmt.Sprintf("https://cdn.vetusrex.com/covers/%d-%s", c.n, filename)
	c.stored[url] = true
	c.log.add("cover.upload:%s", url)
	return url, nil
}

func (c *fakeCovers) Delete(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.add("cover.delete:%s", url)
	if c.failDel != nil {
		return c.failDel
	}
	delete(c.stored, url)
	return nil
}

var errDial = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type fixture struct {
	log     *journal
	repo    *fakeRepo
	covers  *fakeCovers
	content *ContentService
}

func newFixture() *fixture {
	log := &journal{}
	repo := newFakeRepo(log)
	covers := newFakeCovers(log)
	return &fixture{
		log:     log,
		repo:    repo,
		covers:  covers,
		content: NewContentService(repo, covers, time.Second),
	}
}
