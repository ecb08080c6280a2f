package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"flicklog/config"
	"flicklog/internal/auth"
	"flicklog/internal/domain"
	"flicklog/internal/middleware"
	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	AccessSecret:  "test-access",
	RefreshSecret: "test-refresh",
	AccessExpiry:  time.Hour,
	RefreshExpiry: time.Hour,
	Issuer:        "test",
}

type sharingEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	users   *repository.UserRepository
	collabs *repository.CollaboratorRepository
	lists   *repository.ListRepository
	sharing *repository.SharingRepository
}

func newSharingEnv(t *testing.T) *sharingEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(
		&models.Collaborator{},
		&models.CustomList{},
		&models.CustomListItem{},
		&models.ListVisibility{},
		&models.FriendListAccess{},
	))

	env := &sharingEnv{
		db:      db,
		users:   repository.NewUserRepository(db),
		collabs: repository.NewCollaboratorRepository(db),
		lists:   repository.NewListRepository(db),
		sharing: repository.NewSharingRepository(db),
	}
	svc := service.NewSharingService(env.sharing, env.collabs, env.lists)
	h := NewSharingHandler(svc, env.collabs, env.users)

	r := gin.New()
	authed := r.Group("/api", middleware.AuthRequired(&testJWT))
	authed.GET("/friends/:id/shared", h.GetShared)
	authed.PATCH("/friends/:id/shared", h.UpdateShared)
	env.router = r
	return env
}

func (e *sharingEnv) user(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Name: username, PasswordHash: "x"}
	require.NoError(t, e.users.Create(u))
	token, err := auth.GenerateAccessToken(&testJWT, u.ID, u.Email, u.Username)
	require.NoError(t, err)
	return u, token
}

func (e *sharingEnv) befriend(t *testing.T, a, b uint) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.collabs.Create(&models.Collaborator{
		OwnerID: a, CollaboratorID: b, Type: "friend", Status: "accepted", AcceptedAt: &now,
	}))
}

func (e *sharingEnv) do(token, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestSharedEndpoint_RequiresAuth(t *testing.T) {
	e := newSharingEnv(t)
	w := e.do("", http.MethodGet, "/api/friends/1/shared", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSharedEndpoint_RejectsNonFriends(t *testing.T) {
	e := newSharingEnv(t)
	_, token := e.user(t, "alice")
	stranger, _ := e.user(t, "stranger")

	path := "/api/friends/" + strconv.Itoa(int(stranger.ID)) + "/shared"
	w := e.do(token, http.MethodGet, path, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(token, http.MethodPatch, path, `{"lists":[]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSharedEndpoint_GetReturnsFriendAndLists(t *testing.T) {
	e := newSharingEnv(t)
	alice, aliceToken := e.user(t, "alice")
	bob, _ := e.user(t, "bob")
	e.befriend(t, alice.ID, bob.ID)

	// Bob exposes his watchlist to all friends.
	require.NoError(t, e.lists.SetVisibility(bob.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilityFriends))

	w := e.do(aliceToken, http.MethodGet, "/api/friends/"+strconv.Itoa(int(bob.ID))+"/shared", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Friend struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"friend"`
		SharedLists    []service.SharedList `json:"shared_lists"`
		AvailableLists []service.SharedList `json:"available_lists"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, bob.ID, body.Friend.ID)
	assert.Equal(t, "bob", body.Friend.Username)
	require.Len(t, body.SharedLists, 1)
	assert.Equal(t, domain.ListWatchlist, body.SharedLists[0].ListType)
	// Alice's own shareable lists: the full system set.
	assert.Len(t, body.AvailableLists, len(domain.SystemListTypes))
}

func TestSharedEndpoint_PatchReplacesGrants(t *testing.T) {
	e := newSharingEnv(t)
	alice, aliceToken := e.user(t, "alice")
	bob, _ := e.user(t, "bob")
	e.befriend(t, alice.ID, bob.ID)

	require.NoError(t, e.lists.SetVisibility(alice.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilitySelectFriends))

	path := "/api/friends/" + strconv.Itoa(int(bob.ID)) + "/shared"
	w := e.do(aliceToken, http.MethodPatch, path, `{"lists":[{"list_type":"watchlist","can_edit":true}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success     bool                 `json:"success"`
		SharedLists []service.SharedList `json:"shared_lists"`
		SharedCount int                  `json:"shared_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.SharedCount)
	require.Len(t, body.SharedLists, 1)
	assert.True(t, body.SharedLists[0].CanEdit)

	// Revoke everything.
	w = e.do(aliceToken, http.MethodPatch, path, `{"lists":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.SharedCount)

	grants, err := e.sharing.GrantsFor(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestSharedEndpoint_PatchRejectsUnknownList(t *testing.T) {
	e := newSharingEnv(t)
	alice, aliceToken := e.user(t, "alice")
	bob, _ := e.user(t, "bob")
	e.befriend(t, alice.ID, bob.ID)

	path := "/api/friends/" + strconv.Itoa(int(bob.ID)) + "/shared"
	w := e.do(aliceToken, http.MethodPatch, path, `{"lists":[{"list_type":"bogus"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
