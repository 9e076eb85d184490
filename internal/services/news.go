package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"vetusrex/internal/logger"
	"vetusrex/internal/metrics"
	"vetusrex/internal/models"
)

var (
	// ErrNoMore — все новости под текущим фильтром уже загружены.
	ErrNoMore = errors.New("больше новостей нет")
	// ErrClosed — список закрыт (представление уничтожено).
	ErrClosed = errors.New("список закрыт")
)

// ListState — снимок состояния списка. Items — проекции для вывода
// (контент санитизирован), их нельзя менять локально.
type ListState struct {
	Items      []*models.Article
	Loading    bool
	Err        error
	Filter     *models.Tag
	Page       int
	TotalCount int
}

func (s ListState) HasMore() bool { return len(s.Items) < s.TotalCount }

type pendingFetch struct {
	page int
	tag  *models.Tag
}

// NewsList — постраничный список новостей с фильтром по тегу и «Показать ещё».
//
// Каждая смена фильтра начинает новое поколение; ответы предыдущих поколений
// и ответы после Close отбрасываются. Одновременные LoadMore на одну и ту же
// страницу схлопываются в один запрос (singleflight).
type NewsList struct {
	src      ContentReader
	pageSize int

	group singleflight.Group

	mu     sync.Mutex
	state  ListState
	gen    uint64
	seen   map[string]bool
	failed *pendingFetch
	closed bool
}

func NewNewsList(src ContentReader, pageSize int) *NewsList {
	if pageSize < 1 {
		pageSize = 9
	}
	return &NewsList{src: src, pageSize: pageSize, seen: map[string]bool{}}
}

// State возвращает копию текущего состояния.
func (l *NewsList) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	st.Items = append([]*models.Article(nil), l.state.Items...)
	return st
}

func (l *NewsList) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.HasMore()
}

// SetFilter сбрасывает список и загружает первую страницу под новым фильтром.
func (l *NewsList) SetFilter(ctx context.Context, tag *models.Tag) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if tag != nil {
		t := *tag
		tag = &t
	}
	l.gen++
	gen := l.gen
	l.state = ListState{Filter: tag, Loading: true}
	l.seen = map[string]bool{}
	l.failed = nil
	l.mu.Unlock()

	logger.WithCtx(ctx).Debug("Сервис: смена фильтра новостей", zap.Any("tag", tag))
	return l.run(ctx, gen, pendingFetch{page: 1, tag: tag})
}

// LoadMore дозагружает следующую страницу и добавляет её в конец списка.
func (l *NewsList) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.state.Page > 0 && !l.state.HasMore() {
		l.mu.Unlock()
		return ErrNoMore
	}
	gen := l.gen
	f := pendingFetch{page: l.state.Page + 1, tag: l.state.Filter}
	l.state.Loading = true
	l.mu.Unlock()

	return l.run(ctx, gen, f)
}

// Retry повторяет последний неудавшийся запрос с теми же параметрами.
func (l *NewsList) Retry(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	f := l.failed
	gen := l.gen
	if f == nil {
		l.mu.Unlock()
		return nil
	}
	l.state.Loading = true
	l.mu.Unlock()

	return l.run(ctx, gen, *f)
}

// Latest — превью последних новостей для главной; состояние списка не трогает.
func (l *NewsList) Latest(ctx context.Context, limit int) ([]*models.Article, error) {
	list, err := l.src.ListLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Article, 0, len(list))
	for _, a := range list {
		out = append(out, Present(a))
	}
	return out, nil
}

// Close отсоединяет список: ответы, пришедшие позже, игнорируются.
func (l *NewsList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.gen++
	l.state.Loading = false
}

func (l *NewsList) run(ctx context.Context, gen uint64, f pendingFetch) error {
	key := strconv.FormatUint(gen, 10) + ":" + strconv.Itoa(f.page)
	_, err, shared := l.group.Do(key, func() (any, error) {
		page, err := l.src.ListPage(ctx, f.page, l.pageSize, f.tag)
		return nil, l.apply(ctx, gen, f, page, err)
	})
	if shared {
		metrics.CoalescedFetches.Inc()
		logger.WithCtx(ctx).Debug("Сервис: запрос страницы объединён", zap.String("key", key))
	}
	return err
}

func (l *NewsList) apply(ctx context.Context, gen uint64, f pendingFetch, page *models.Page, err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.gen {
		logger.WithCtx(ctx).Debug("Сервис: устаревший ответ отброшен", zap.Int("page", f.page))
		return nil
	}
	l.state.Loading = false

	if err != nil {
		l.state.Err = err
		l.failed = &f
		logger.WithCtx(ctx).Warn("Сервис: ошибка загрузки страницы новостей",
			zap.Int("page", f.page), zap.Error(err))
		return err
	}
	if f.page != l.state.Page+1 {
		return nil
	}

	l.state.Err = nil
	l.failed = nil
	l.state.Page = f.page
	l.state.TotalCount = page.TotalCount
	for _, a := range page.Items {
		if l.seen[a.ID] {
			continue
		}
		l.seen[a.ID] = true
		l.state.Items = append(l.state.Items, Present(a))
	}
	if len(page.Items) == 0 {
		// выборка сдвинулась (удаления между страницами): дальше грузить нечего
		l.state.TotalCount = len(l.state.Items)
	}

	logger.WithCtx(ctx).Debug("Сервис: страница новостей загружена",
		zap.Int("page", f.page),
		zap.Int("items", len(l.state.Items)),
		zap.Int("total", l.state.TotalCount),
	)
	return nil
}
