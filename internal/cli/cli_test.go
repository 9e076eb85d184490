package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetusrex/internal/apperr"
	"vetusrex/internal/config"
	"vetusrex/internal/db"
	"vetusrex/internal/models"
	"vetusrex/internal/repository"
	"vetusrex/internal/services"
	"vetusrex/internal/storage"
)

const (
	adminID   = "6f1c2a9e-3b7d-4c1e-9a53-0d2b8f4e7a10"
	articleID = "0b8e6a52-1c4f-4f0a-8d8e-5f3b2c1a9e77"
	secondID  = "1c9f7b63-2d5a-4a1b-9e9f-6a4c3d2b0f88"
	coverKey  = "covers/1772366400000-a1b2c3d4e5f6.png"
	coverURL  = "https://cdn.vetusrex.com/" + coverKey
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memObjects) Put(_ context.Context, key string, body []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return nil
}

func (s *memObjects) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memObjects) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

type testEnv struct {
	mock    pgxmock.PgxPoolIface
	objects *memObjects
	opened  int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	e := &testEnv{mock: mock, objects: &memObjects{objects: map[string][]byte{}}}
	covers := storage.NewCoverStore(e.objects, "https://cdn.vetusrex.com")
	content := services.NewContentService(repository.NewArticleRepo(mock), covers, time.Second)

	prev := openBackend
	openBackend = func(context.Context, *config.Config) (*backend, error) {
		e.opened++
		return &backend{
			content:  content,
			profiles: repository.NewProfileRepo(mock),
			migrate:  func(ctx context.Context) error { return db.Migrate(ctx, mock) },
			close:    func() {},
		}, nil
	}
	t.Cleanup(func() { openBackend = prev })
	return e
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

var newsColumns = []string{
	"id", "title", "content", "tag", "cover_image_url", "author_id",
	"created_at", "updated_at", "username", "avatar_url", "role",
}

func strp(s string) *string { return &s }

func newsRow(rows *pgxmock.Rows, id, title, content string, cover *string) *pgxmock.Rows {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(id, title, content, "patch", cover, adminID,
		now, now, strp("gm"), (*string)(nil), strp("admin"))
}

func one(id, title, content string, cover *string) *pgxmock.Rows {
	return newsRow(pgxmock.NewRows(newsColumns), id, title, content, cover)
}

func (e *testEnv) expectAdminByID() {
	e.mock.ExpectQuery(`FROM profiles WHERE id = \$1`).
		WithArgs(adminID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "avatar_url", "role", "created_at"}).
			AddRow(adminID, "gm", (*string)(nil), "admin", time.Now()))
}

func TestList_LoadsPagesUntilLimit(t *testing.T) {
	e := newTestEnv(t)
	count := func() {
		e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM news n`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	}
	count()
	e.mock.ExpectQuery(`ORDER BY n.created_at DESC, n.id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(1, 0).
		WillReturnRows(one(articleID, "Patch 1.2", "<p>Fixes</p>", nil))
	count()
	e.mock.ExpectQuery(`ORDER BY n.created_at DESC, n.id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(1, 1).
		WillReturnRows(one(secondID, "Patch 1.1", "<p>Older</p>", strp(coverURL)))

	out, err := run(t, "", "list", "--pages", "5", "--page-size", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Patch 1.2")
	assert.Contains(t, out, "Patch 1.1")
	assert.Contains(t, out, "показано 2 из 2")
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestList_JSONWithTag(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM news n WHERE n.tag = \$1`).
		WithArgs("patch").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	e.mock.ExpectQuery(`WHERE n.tag = \$1 ORDER BY`).
		WithArgs("patch", 9, 0).
		WillReturnRows(one(articleID, "Patch 1.2", `<p onclick="x()">Fixes</p>`, nil))

	out, err := run(t, "", "list", "--tag", "patch", "--json")
	require.NoError(t, err)

	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "<p>Fixes</p>", got.Items[0].Content)
	assert.Equal(t, 3, got.TotalCount)
	assert.True(t, got.HasMore)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestList_RejectsUnknownTagBeforeConnecting(t *testing.T) {
	e := newTestEnv(t)

	_, err := run(t, "", "list", "--tag", "rumor")
	require.Error(t, err)
	assert.Equal(t, 0, e.opened)
}

func TestLatest(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`ORDER BY n.created_at DESC, n.id DESC LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(one(articleID, "Patch 1.2", "<p>Fixes</p>", nil))

	out, err := run(t, "", "latest", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Patch 1.2")
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestShow_PrintsSanitizedText(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`WHERE n.id = \$1`).
		WithArgs(articleID).
		WillReturnRows(one(articleID, "Patch 1.2", "<p>Fixes</p><script>alert(1)</script>", strp(coverURL)))

	out, err := run(t, "", "show", articleID)
	require.NoError(t, err)

	assert.Contains(t, out, "Patch 1.2")
	assert.Contains(t, out, "Patch · 2026-03-01")
	assert.Contains(t, out, "обложка: "+coverURL)
	assert.Contains(t, out, "Fixes")
	assert.NotContains(t, out, "alert")
}

func TestShow_NotFound(t *testing.T) {
	newTestEnv(t)

	_, err := run(t, "", "show", "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPublish_RequiresAdminBeforeAnyCall(t *testing.T) {
	e := newTestEnv(t)

	_, err := run(t, "", "publish", "--title", "Patch 1.2", "--tag", "patch", "--content", "<p>Fixes</p>")
	require.Error(t, err)
	assert.True(t, apperr.IsAuthorization(err))
	assert.NoError(t, e.mock.ExpectationsWereMet())
	assert.Empty(t, e.objects.keys())
}

func TestPublish_WithCoverFromStdin(t *testing.T) {
	e := newTestEnv(t)
	coverPath := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(coverPath, pngBytes, 0o600))

	e.expectAdminByID()
	e.mock.ExpectQuery(`INSERT INTO news`).
		WithArgs(pgxmock.AnyArg(), "Patch 1.2", "<p>Fixes</p>\n", "patch", pgxmock.AnyArg(), adminID).
		WillReturnRows(one(articleID, "Patch 1.2", "<p>Fixes</p>", strp(coverURL)))

	out, err := run(t, "<p>Fixes</p>\n",
		"publish", "--as", adminID, "--title", " Patch 1.2 ", "--tag", "patch", "--file", "-", "--cover", coverPath)
	require.NoError(t, err)

	assert.Contains(t, out, "опубликовано: "+articleID)
	require.Len(t, e.objects.keys(), 1)
	assert.True(t, strings.HasSuffix(e.objects.keys()[0], ".png"))
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestPublish_ContentAndFileConflict(t *testing.T) {
	e := newTestEnv(t)

	_, err := run(t, "", "publish", "--content", "<p>a</p>", "--file", "notes.html")
	require.Error(t, err)
	assert.Equal(t, 0, e.opened)
}

func TestEdit_RemoveCoverByUsername(t *testing.T) {
	e := newTestEnv(t)
	e.objects.objects[coverKey] = pngBytes

	e.mock.ExpectQuery(`FROM profiles WHERE username = \$1`).
		WithArgs("gm").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "avatar_url", "role", "created_at"}).
			AddRow(adminID, "gm", (*string)(nil), "admin", time.Now()))
	for i := 0; i < 2; i++ {
		e.mock.ExpectQuery(`WHERE n.id = \$1`).
			WithArgs(articleID).
			WillReturnRows(one(articleID, "Patch 1.2", "<p>Fixes</p>", strp(coverURL)))
	}
	e.mock.ExpectQuery(`UPDATE news`).
		WithArgs(articleID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true, "").
		WillReturnRows(one(articleID, "Patch 1.2b", "<p>Fixes</p>", nil))

	out, err := run(t, "", "edit", articleID, "--as", "gm", "--title", "Patch 1.2b", "--remove-cover")
	require.NoError(t, err)

	assert.Contains(t, out, "сохранено: "+articleID)
	assert.Empty(t, e.objects.keys())
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestEdit_CoverFlagsConflict(t *testing.T) {
	e := newTestEnv(t)

	_, err := run(t, "", "edit", articleID, "--cover", "a.png", "--remove-cover")
	require.Error(t, err)
	assert.Equal(t, 0, e.opened)
}

func TestEdit_UnknownProfile(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`FROM profiles WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := run(t, "", "edit", articleID, "--as", "ghost", "--title", "x")
	require.Error(t, err)
	assert.Equal(t, `профиль "ghost" не найден`, ErrorMessage(err))
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t)
	e.objects.objects[coverKey] = pngBytes

	_, err := run(t, "", "delete", articleID, "--as", adminID)
	require.Error(t, err)
	assert.Equal(t, 0, e.opened)

	e.expectAdminByID()
	e.mock.ExpectQuery(`WHERE n.id = \$1`).
		WithArgs(articleID).
		WillReturnRows(one(articleID, "Patch 1.2", "<p>Fixes</p>", strp(coverURL)))
	e.mock.ExpectExec(`DELETE FROM news WHERE id = \$1`).
		WithArgs(articleID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	out, err := run(t, "", "delete", articleID, "--as", adminID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "удалено: "+articleID)
	assert.Empty(t, e.objects.keys())
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestStats_JSON(t *testing.T) {
	e := newTestEnv(t)
	e.expectAdminByID()
	e.mock.ExpectQuery(`GROUP BY tag`).
		WillReturnRows(pgxmock.NewRows([]string{"tag", "count", "covers"}).
			AddRow("patch", 3, 1).
			AddRow("event", 1, 0))

	out, err := run(t, "", "stats", "--as", adminID, "--json")
	require.NoError(t, err)

	var st models.NewsStats
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 1, st.WithCover)
	assert.Equal(t, 75, st.ByTagPct[models.TagPatch])
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS news`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "схема применена")
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestToken(t *testing.T) {
	newTestEnv(t)
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "", "token", adminID, "--ttl", "1h")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, adminID, claims["sub"])

	_, err = run(t, "", "token", "gm")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	newTestEnv(t)

	out, err := run(t, `<p onclick="x()">Hi <script>alert(1)</script><b>there</b></p>`, "sanitize")
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi <strong>there</strong></p>\n", out)

	out, err = run(t, "<h1>A</h1><p>b</p>", "sanitize", "--text")
	require.NoError(t, err)
	assert.Equal(t, "A b\n", out)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "заголовок не может быть пустым",
		ErrorMessage(apperr.Validation("op", "заголовок не может быть пустым")))
	assert.Equal(t, "сервис временно недоступен, попробуйте ещё раз",
		ErrorMessage(apperr.Connection("op", errors.New("dial tcp"))))
	assert.Equal(t, "--pages должно быть положительным",
		ErrorMessage(errors.New("--pages должно быть положительным")))
}
