package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetusrex/internal/apperr"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deletes []string
	failPut error
	failDel error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut != nil {
		return m.failPut
	}
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.failDel != nil {
		return m.failDel
	}
	delete(m.objects, key)
	return nil
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestValidateCover(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ext  string
		ok   bool
	}{
		{name: "png", data: pngBytes, ext: ".png", ok: true},
		{name: "jpeg", data: append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 32)...), ext: ".jpg", ok: true},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"), ext: ".gif", ok: true},
		{name: "empty", data: nil},
		{name: "text", data: []byte("just some notes")},
		{name: "svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)},
		{name: "too big", data: append(append([]byte{}, pngBytes...), make([]byte, MaxCoverSize)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ct, err := ValidateCover(tt.data)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ext)
			assert.True(t, strings.HasPrefix(ct, "image/"))
		})
	}
}

func TestCoverStore_Upload(t *testing.T) {
	mem := newMemStore()
	cs := NewCoverStore(mem, "https://cdn.vetusrex.com/")
	cs.now = func() time.Time { return time.UnixMilli(1700000000123) }

	url, err := cs.Upload(context.Background(), pngBytes, "Cover Art.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://cdn.vetusrex.com/covers/1700000000123-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key, err := cs.KeyFromURL(url)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pngBytes, mem.objects[key]))
	assert.Equal(t, "image/png", mem.types[key])
	assert.True(t, cs.Owns(url))
}

func TestCoverStore_UploadRejectsBeforeStoring(t *testing.T) {
	mem := newMemStore()
	cs := NewCoverStore(mem, "https://cdn.vetusrex.com")

	_, err := cs.Upload(context.Background(), []byte("<html></html>"), "x.png")
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, mem.objects)
}

func TestCoverStore_UploadStoreFailure(t *testing.T) {
	mem := newMemStore()
	mem.failPut = errors.New("connection reset")
	cs := NewCoverStore(mem, "https://cdn.vetusrex.com")

	_, err := cs.Upload(context.Background(), pngBytes, "a.png")
	require.Error(t, err)
	assert.False(t, apperr.IsValidation(err))
}

func TestCoverStore_KeyFromURL(t *testing.T) {
	cs := NewCoverStore(newMemStore(), "https://cdn.vetusrex.com")

	tests := []struct {
		url string
		key string
		ok  bool
	}{
		{url: "https://cdn.vetusrex.com/covers/1-abc.png", key: "covers/1-abc.png", ok: true},
		{url: "https://evil.example/covers/1-abc.png"},
		{url: "https://cdn.vetusrex.com/avatars/1.png"},
		{url: "https://cdn.vetusrex.com/covers/"},
		{url: "https://cdn.vetusrex.com/covers/../secret"},
		{url: "https://cdn.vetusrex.com/covers/a.png?x=1"},
		{url: ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			key, err := cs.KeyFromURL(tt.url)
			if !tt.ok {
				assert.True(t, apperr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestCoverStore_Delete(t *testing.T) {
	mem := newMemStore()
	cs := NewCoverStore(mem, "https://cdn.vetusrex.com")

	url, err := cs.Upload(context.Background(), pngBytes, "a.png")
	require.NoError(t, err)

	require.NoError(t, cs.Delete(context.Background(), url))
	assert.Empty(t, mem.objects)
	assert.Len(t, mem.deletes, 1)

	err = cs.Delete(context.Background(), "https://elsewhere.example/covers/a.png")
	assert.True(t, apperr.IsValidation(err))
	assert.Len(t, mem.deletes, 1)
}
