package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weibaohui/piepress/config"
	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/pies"
	"github.com/weibaohui/piepress/internal/pkg/jwtauth"
	"github.com/weibaohui/piepress/internal/repository"
	"github.com/weibaohui/piepress/internal/testutil"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testApp struct {
	*App
	db *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	cfg := config.Default()
	cfg.Server.Mode = gin.TestMode
	cfg.Auth.JWTSecret = testSecret

	a, err := New(context.Background(), cfg, db)
	require.NoError(t, err)
	return &testApp{App: a, db: db}
}

func token(t *testing.T, user, roles string) string {
	t.Helper()
	tok, err := jwtauth.IssueToken(testSecret, user, roles, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testApp) get(t *testing.T, path, tok string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(t *testing.T, path, tok string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) meta(t *testing.T, postID uint) map[string]string {
	t.Helper()
	values, err := repository.NewMetaRepository(a.db).GetAll(context.Background(), postID)
	require.NoError(t, err)
	return values
}

var noncePattern = regexp.MustCompile(`name="pies_nonce" value="([^"]+)"`)

func extractNonce(t *testing.T, body string) string {
	t.Helper()
	m := noncePattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "nonce field not found")
	return m[1]
}

func TestRoutesForRegisteredTypes(t *testing.T) {
	a := newTestApp(t)

	routes := map[string]bool{}
	for _, r := range a.Engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	assert.True(t, routes["GET /pies"])
	assert.True(t, routes["GET /pies/:name"])
	assert.True(t, routes["GET /page/:name"])
	assert.False(t, routes["GET /page"], "pages have no archive")
	assert.True(t, routes["GET /api/pies"])
	assert.True(t, routes["GET /admin/pages/:slug"])
}

func TestAdminRequiresLogin(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, a.get(t, "/admin/posts?post_type=pies", "").Code)
	assert.Equal(t, http.StatusForbidden, a.get(t, "/admin/posts?post_type=pies", token(t, "sub", domain.RoleSubscriber)).Code)
	assert.Equal(t, http.StatusOK, a.get(t, "/admin/posts?post_type=pies", token(t, "ed", domain.RoleEditor)).Code)
	assert.Equal(t, http.StatusNotFound, a.get(t, "/admin/posts?post_type=nope", token(t, "ed", domain.RoleEditor)).Code)

	// 登录 cookie 同样有效
	req := httptest.NewRequest(http.MethodGet, "/admin/posts?post_type=pies", nil)
	req.AddCookie(&http.Cookie{Name: "cms_token", Value: token(t, "ed", domain.RoleEditor)})
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminCreateAndEditPie(t *testing.T) {
	a := newTestApp(t)
	admin := token(t, "admin", domain.RoleAdministrator)

	w := a.get(t, "/admin/posts/new?post_type=pies", admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Add New Pie</h1>")
	assert.Contains(t, body, `<div id="pie_details_meta_box" class="postbox normal"><h2>Pie Details</h2>`)
	assert.NotContains(t, body, "pies-admin.css", "pie assets only load on the manage screen")

	w = a.post(t, "/admin/posts", admin, url.Values{
		"post_type":           {pies.PostType},
		"post_title":          {"Apple Pie"},
		"post_status":         {model.PostStatusPublish},
		"content":             {"A classic."},
		pies.NonceField:       {extractNonce(t, body)},
		pies.FieldPieType:     {"Fruit Pie"},
		"description":         {"Flaky crust<script>x</script>"},
		pies.FieldIngredients: {"Apples, Sugar"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/admin/posts/"), location)

	post, err := repository.NewPostRepository(a.db).GetBySlug(context.Background(), pies.PostType, "apple-pie")
	require.NoError(t, err)
	assert.Equal(t, "admin", post.Author)
	assert.Equal(t, map[string]string{
		pies.MetaPieType:     "Fruit Pie",
		pies.MetaDescription: "Flaky crust",
		pies.MetaIngredients: "Apples, Sugar",
	}, a.meta(t, post.ID))

	w = a.get(t, location, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="pie_type" value="Fruit Pie"`)
	assert.Contains(t, w.Body.String(), "<h1>Edit Pie</h1>")
}

func TestAdminSaveWithoutNonceKeepsMeta(t *testing.T) {
	a := newTestApp(t)
	admin := token(t, "admin", domain.RoleAdministrator)
	post := testutil.InsertPost(t, a.db, pies.PostType, "Pecan Pie", map[string]string{pies.MetaPieType: "Nut Pie"})

	w := a.post(t, "/admin/posts/"+itoa(post.ID), admin, url.Values{
		"post_title":      {"Pecan Pie"},
		"post_status":     {model.PostStatusPublish},
		pies.FieldPieType: {"Changed"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Nut Pie", a.meta(t, post.ID)[pies.MetaPieType])
}

func TestAdminAutosaveAndDelete(t *testing.T) {
	a := newTestApp(t)
	admin := token(t, "admin", domain.RoleAdministrator)
	post := testutil.InsertPost(t, a.db, pies.PostType, "Cherry Pie", map[string]string{pies.MetaPieType: "Fruit Pie"})

	nonceToken, err := a.Nonces.Create(pies.NonceAction, "admin")
	require.NoError(t, err)
	w := a.post(t, "/admin/posts/"+itoa(post.ID)+"/autosave", admin, url.Values{
		"post_title":      {"Cherry Pie (draft)"},
		"content":         {"work in progress"},
		pies.NonceField:   {nonceToken},
		pies.FieldPieType: {"Changed"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, post.ID, resp["id"])
	assert.Equal(t, "Fruit Pie", a.meta(t, post.ID)[pies.MetaPieType], "autosave never writes attributes")

	author := token(t, "bob", domain.RoleAuthor)
	assert.Equal(t, http.StatusForbidden, a.post(t, "/admin/posts/"+itoa(post.ID)+"/delete", author, nil).Code)

	w = a.post(t, "/admin/posts/"+itoa(post.ID)+"/delete", admin, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/posts?post_type=pies", w.Header().Get("Location"))
	assert.Empty(t, a.meta(t, post.ID))
	assert.Equal(t, http.StatusNotFound, a.get(t, "/admin/posts/"+itoa(post.ID)+"/edit", admin).Code)
}

func TestManagePiesScreen(t *testing.T) {
	a := newTestApp(t)
	testutil.InsertPost(t, a.db, pies.PostType, "Key Lime Pie", map[string]string{pies.MetaPieType: "Citrus Pie"})
	testutil.InsertPost(t, a.db, pies.PostType, "Citrus Title Only", map[string]string{pies.MetaPieType: "Custard Pie"})

	admin := token(t, "admin", domain.RoleAdministrator)
	w := a.get(t, "/admin/pages/manage_pies", admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Manage Pies</h1>")
	assert.Contains(t, body, `<body class="pies_page_manage_pies">`)
	assert.Contains(t, body, `href="/admin/assets/pies-admin.css"`)
	assert.Contains(t, body, `src="/admin/assets/pies-admin.js"`)
	assert.Contains(t, body, "Key Lime Pie")
	assert.Contains(t, body, "Citrus Title Only")

	w = a.get(t, "/admin/pages/manage_pies?s=citrus", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Key Lime Pie")
	assert.NotContains(t, w.Body.String(), "Citrus Title Only", "search matches attributes, not titles")

	assert.Equal(t, http.StatusForbidden, a.get(t, "/admin/pages/manage_pies", token(t, "ed", domain.RoleEditor)).Code)
	assert.Equal(t, http.StatusNotFound, a.get(t, "/admin/pages/unknown", admin).Code)

	w = a.get(t, "/admin/posts?post_type=pies", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "pies-admin.css")
	assert.Contains(t, w.Body.String(), `href="/admin/pages/manage_pies"`)
}

func TestPublicPageExpandsShortcode(t *testing.T) {
	a := newTestApp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Apple Pie", "Cherry Pie", "Blueberry Pie", "Pecan Pie", "Peach Pie", "Plum Pie", "Pear Pie"} {
		pieType := "Fruit Pie"
		if title == "Pecan Pie" {
			pieType = "Nut Pie"
		}
		testutil.InsertPost(t, a.db, pies.PostType, title, map[string]string{pies.MetaPieType: pieType},
			testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
	}
	testutil.InsertPost(t, a.db, cms.PageType, "Menu", nil, testutil.WithContent(`<p>Our pies</p>[pies lookup="fruit"]`))
	testutil.InsertPost(t, a.db, cms.PageType, "Nuts", nil, testutil.WithContent(`[pies lookup="nut" ingredients="chocolate"]`))
	testutil.InsertPost(t, a.db, cms.PageType, "Hidden", nil, testutil.WithStatus(model.PostStatusDraft))

	w := a.get(t, "/page/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<p>Our pies</p>")
	assert.Equal(t, 5, strings.Count(body, `<div class="pie-item">`))
	assert.Contains(t, body, `href="/page/menu?paged=2"`)

	w = a.get(t, "/page/menu?paged=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `<div class="pie-item">`))
	assert.Contains(t, w.Body.String(), "<h2>Apple Pie</h2>")

	w = a.get(t, "/page/nuts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>No pies found.</p>")

	assert.Equal(t, http.StatusNotFound, a.get(t, "/page/hidden", "").Code)
	assert.Equal(t, http.StatusNotFound, a.get(t, "/page/missing", "").Code)
}

func TestPublicArchiveAndAPI(t *testing.T) {
	a := newTestApp(t)
	testutil.InsertPost(t, a.db, pies.PostType, "Apple Pie", map[string]string{
		pies.MetaPieType: "Fruit Pie", pies.MetaIngredients: "Apples, Cinnamon",
	})
	testutil.InsertPost(t, a.db, pies.PostType, "Pumpkin Pie", map[string]string{
		pies.MetaPieType: "Custard Pie", pies.MetaIngredients: "Pumpkin, Cinnamon",
	})

	w := a.get(t, "/pies", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="/pies/apple-pie">Apple Pie</a>`)

	assert.Equal(t, http.StatusOK, a.get(t, "/pies/pumpkin-pie", "").Code)

	w = a.get(t, "/api/pies?ingredients=cinnamon&lookup=custard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var result pies.ListingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Pies, 1)
	assert.Equal(t, "Pumpkin Pie", result.Pies[0].Title)
	assert.Equal(t, "Custard Pie", result.Pies[0].PieType)
}

func TestHealthzAndAssets(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusOK, a.get(t, "/healthz", "").Code)

	w := a.get(t, "/admin/assets/pies-admin.css", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pies_page_manage_pies")

	w = a.get(t, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestSeedCommandPath(t *testing.T) {
	a := newTestApp(t)
	admin := domain.NewPrincipal("admin", domain.RoleAdministrator)

	require.NoError(t, a.Pies.SeedInitialPies(context.Background(), a.Posts, admin))

	w := a.get(t, "/api/pies?lookup=citrus", "")
	require.Equal(t, http.StatusOK, w.Code)
	var result pies.ListingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, int64(2), result.Total)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
