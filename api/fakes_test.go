package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rankforge/site-backend/auth"
	"github.com/rankforge/site-backend/database"
	"github.com/rankforge/site-backend/models"
	"github.com/rankforge/site-backend/services"
	"github.com/rankforge/site-backend/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// patch applies column assignments to row. JSON tags equal column names, so a JSON
// round trip is enough to emulate an UPDATE of the present keys.
func patch[T any](t testing.TB, row *T, changes map[string]any) {
	raw, err := json.Marshal(row)
	require.NoError(t, err)
	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for k, v := range changes {
		fields[k] = v
	}
	raw, err = json.Marshal(fields)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	*row = out
}

type memory struct {
	t  testing.TB
	mu sync.Mutex

	nextID       uint
	articles     map[uint]*models.Article
	authors      map[uint]*models.Author
	categories   map[uint]*models.Category
	images       map[uint]*models.Image
	redirections map[uint]*models.Redirection

	// failWith makes every store call fail, to exercise the 500 path.
	failWith error
}

func newMemory(t testing.TB) *memory {
	return &memory{
		t:            t,
		articles:     map[uint]*models.Article{},
		authors:      map[uint]*models.Author{},
		categories:   map[uint]*models.Category{},
		images:       map[uint]*models.Image{},
		redirections: map[uint]*models.Redirection{},
	}
}

func (m *memory) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memory) counts(match func(a *models.Article) bool) (total, published int64) {
	for _, a := range m.articles {
		if match(a) {
			total++
			if a.Status == models.StatusPublished {
				published++
			}
		}
	}
	return total, published
}

type memArticles struct{ *memory }
type memAuthors struct{ *memory }
type memCategories struct{ *memory }
type memImages struct{ *memory }
type memRedirections struct{ *memory }

func (m memArticles) FindAll(_ context.Context, f database.ArticleFilter) ([]models.ArticleListItem, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	var items []models.ArticleListItem
	for _, a := range m.articles {
		switch {
		case f.Status != "" && a.Status != f.Status,
			f.AuthorID != 0 && a.AuthorID != f.AuthorID,
			f.CategoryID != 0 && a.CategoryID != f.CategoryID,
			f.Tag != "" && !slices.Contains(a.Tags, f.Tag),
			f.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Search)):
			continue
		}
		item := models.ArticleListItem{Article: *a}
		if au, ok := m.authors[a.AuthorID]; ok {
			item.AuthorName = au.Name
		}
		if c, ok := m.categories[a.CategoryID]; ok {
			item.CategoryName = c.Name
		}
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b models.ArticleListItem) int { return int(b.ID) - int(a.ID) })
	total := int64(len(items))
	if f.Offset >= len(items) {
		return []models.ArticleListItem{}, total, nil
	}
	items = items[f.Offset:]
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, total, nil
}

func (m memArticles) FindByID(_ context.Context, id uint) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m memArticles) Add(_ context.Context, a *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	cp := *a
	m.articles[a.ID] = &cp
	return nil
}

func (m memArticles) Update(_ context.Context, id uint, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	patch(m.t, a, changes)
	return nil
}

func (m memArticles) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m memArticles) SlugTaken(_ context.Context, slug string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.articles {
		if id != excludeID && a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m memArticles) CountByAuthor(_ context.Context, authorID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := m.counts(func(a *models.Article) bool { return a.AuthorID == authorID })
	return n, nil
}

func (m memArticles) CountByCategory(_ context.Context, categoryID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := m.counts(func(a *models.Article) bool { return a.CategoryID == categoryID })
	return n, nil
}

func (m memAuthors) withCounts(a *models.Author) models.AuthorWithCounts {
	total, published := m.counts(func(ar *models.Article) bool { return ar.AuthorID == a.ID })
	return models.AuthorWithCounts{Author: *a, ArticleCount: total, PublishedArticleCount: published}
}

func (m memAuthors) FindAll(context.Context) ([]models.AuthorWithCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.AuthorWithCounts{}
	for _, a := range m.authors {
		out = append(out, m.withCounts(a))
	}
	slices.SortFunc(out, func(a, b models.AuthorWithCounts) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m memAuthors) FindByID(_ context.Context, id uint) (*models.AuthorWithCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.authors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := m.withCounts(a)
	return &out, nil
}

func (m memAuthors) Exists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.authors[id]
	return ok, nil
}

func (m memAuthors) Add(_ context.Context, a *models.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	cp := *a
	m.authors[a.ID] = &cp
	return nil
}

func (m memAuthors) Update(_ context.Context, id uint, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.authors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	patch(m.t, a, changes)
	return nil
}

func (m memAuthors) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.authors, id)
	return nil
}

func (m memAuthors) SlugTaken(_ context.Context, slug string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.authors {
		if id != excludeID && a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m memAuthors) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.authors {
		if id != excludeID && a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m memCategories) withCounts(c *models.Category) models.CategoryWithCounts {
	total, published := m.counts(func(a *models.Article) bool { return a.CategoryID == c.ID })
	return models.CategoryWithCounts{Category: *c, ArticleCount: total, PublishedArticleCount: published}
}

func (m memCategories) FindAll(context.Context) ([]models.CategoryWithCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.CategoryWithCounts{}
	for _, c := range m.categories {
		out = append(out, m.withCounts(c))
	}
	slices.SortFunc(out, func(a, b models.CategoryWithCounts) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m memCategories) FindByID(_ context.Context, id uint) (*models.CategoryWithCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := m.withCounts(c)
	return &out, nil
}

func (m memCategories) Exists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.categories[id]
	return ok, nil
}

func (m memCategories) Add(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m memCategories) Update(_ context.Context, id uint, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	patch(m.t, c, changes)
	return nil
}

func (m memCategories) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

func (m memCategories) SlugTaken(_ context.Context, slug string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.categories {
		if id != excludeID && c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m memImages) FindAll(context.Context) ([]models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Image{}
	for _, img := range m.images {
		out = append(out, *img)
	}
	return out, nil
}

func (m memImages) FindByID(_ context.Context, id uint) (*models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *img
	return &cp, nil
}

func (m memImages) Add(_ context.Context, img *models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img.ID = m.id()
	cp := *img
	m.images[img.ID] = &cp
	return nil
}

func (m memImages) Update(_ context.Context, id uint, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	patch(m.t, img, changes)
	return nil
}

// DeleteWith keeps the row when removeFile fails, like the rolled back transaction.
func (m memImages) DeleteWith(_ context.Context, id uint, removeFile func(models.Image) error) error {
	m.mu.Lock()
	img, ok := m.images[id]
	m.mu.Unlock()
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if err := removeFile(*img); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.images, id)
	m.mu.Unlock()
	return nil
}

func (m memRedirections) FindAll(context.Context) ([]models.Redirection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Redirection{}
	for _, r := range m.redirections {
		out = append(out, *r)
	}
	return out, nil
}

func (m memRedirections) FindByID(_ context.Context, id uint) (*models.Redirection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.redirections[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m memRedirections) FindByFromPath(_ context.Context, path string) (*models.Redirection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.redirections {
		if r.FromPath == path {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memRedirections) Add(_ context.Context, r *models.Redirection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	cp := *r
	m.redirections[r.ID] = &cp
	return nil
}

func (m memRedirections) Update(_ context.Context, id uint, changes map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.redirections[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	patch(m.t, r, changes)
	return nil
}

func (m memRedirections) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.redirections[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.redirections, id)
	return nil
}

func (m memRedirections) FromPathTaken(_ context.Context, path string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.redirections {
		if id != excludeID && r.FromPath == path {
			return true, nil
		}
	}
	return false, nil
}

// memBackend is a storage.Backend keeping objects in a map.
type memBackend struct {
	mu        sync.Mutex
	objects   map[string][]byte
	removeErr error
}

func (b *memBackend) Put(_ context.Context, name string, body []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = body
	return "/uploads/" + name, nil
}

func (b *memBackend) Remove(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.removeErr != nil {
		return b.removeErr
	}
	delete(b.objects, name)
	return nil
}

type sentMail struct {
	mu   sync.Mutex
	sent []services.Email
	err  error
}

func (m *sentMail) Send(_ context.Context, email services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	now     time.Time
	mem     *memory
	media   *memBackend
	mail    *sentMail
	handler http.Handler
	token   string
}

func newTestEnv(t *testing.T, configure ...func(*Dependencies)) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, map[string]string{"APP_ENV": "test"}, configure...)
}

// newTestEnvWithConfig builds the router from c instead of the default test config.
func newTestEnvWithConfig(t *testing.T, c map[string]string, configure ...func(*Dependencies)) *testEnv {
	t.Helper()
	mem := newMemory(t)
	media := &memBackend{objects: map[string][]byte{}}
	mail := &sentMail{}

	jwtAuth, err := auth.NewJWTAuthenticator(testSecret, "site-backend", time.Hour)
	require.NoError(t, err)
	token, _, err := jwtAuth.Issue("admin")
	require.NoError(t, err)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	env := &testEnv{now: testNow, mem: mem, media: media, mail: mail, token: token}

	deps := Dependencies{
		Articles:      memArticles{mem},
		Authors:       memAuthors{mem},
		Categories:    memCategories{mem},
		Images:        memImages{mem},
		Redirections:  memRedirections{mem},
		Health:        pingFunc(func(context.Context) error { return nil }),
		Media:         storage.NewMediaStore(media),
		Authenticator: jwtAuth,
		Tokens:        jwtAuth,
		Credentials:   auth.Credentials{Username: "admin", PasswordHash: hash},
		Mailer:        mail,
		Recipients:    []string{"team@example.com"},
		Now:           func() time.Time { return env.now },
	}
	for _, fn := range configure {
		fn(&deps)
	}

	env.handler = newRouter(deps, withConfig(c))
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
}

func (e envelope) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, dst))
}

// call performs an authenticated JSON request. body may be a string of raw JSON.
func (e *testEnv) call(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return e.request(t, method, path, body, "Bearer "+e.token)
}

func (e *testEnv) request(t *testing.T, method, path string, body any, authorization string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}
