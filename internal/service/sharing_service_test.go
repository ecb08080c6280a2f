package service

import (
	"testing"

	"flicklog/internal/domain"
	"flicklog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsSharedBy_NoVisibilityRowsMeansPrivate(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	viewer := f.user(t, "viewer")
	f.befriend(t, owner.ID, viewer.ID)

	shared, err := f.sharingSvc.ListsSharedBy(owner.ID, viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)
}

func TestListsSharedBy_FriendsAndPublicVisible(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	viewer := f.user(t, "viewer")
	f.befriend(t, owner.ID, viewer.ID)

	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilityFriends))
	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListFinished}, domain.VisibilityPublic))
	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListDropped}, domain.VisibilityPrivate))

	shared, err := f.sharingSvc.ListsSharedBy(owner.ID, viewer.ID)
	require.NoError(t, err)
	require.Len(t, shared, 2)

	types := map[string]bool{}
	for _, s := range shared {
		types[s.ListType] = true
		assert.False(t, s.CanEdit)
	}
	assert.True(t, types[domain.ListWatchlist])
	assert.True(t, types[domain.ListFinished])
	assert.False(t, types[domain.ListDropped])
}

func TestListsSharedBy_SelectFriendsRequiresGrant(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	granted := f.user(t, "granted")
	other := f.user(t, "other")
	f.befriend(t, owner.ID, granted.ID)
	f.befriend(t, owner.ID, other.ID)

	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilitySelectFriends))
	require.NoError(t, f.sharing.ReplaceGrants(owner.ID, granted.ID, []models.FriendListAccess{
		{OwnerID: owner.ID, FriendID: granted.ID, ListType: domain.ListWatchlist, CanEdit: true},
	}))

	shared, err := f.sharingSvc.ListsSharedBy(owner.ID, granted.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, domain.ListWatchlist, shared[0].ListType)
	assert.True(t, shared[0].CanEdit)

	shared, err = f.sharingSvc.ListsSharedBy(owner.ID, other.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)
}

// A grant on the watchlist (no list id) must not leak a select_friends custom
// list, and a custom-list grant must not leak the watchlist. Both rows share
// the same owner and friend; only the list reference differs.
func TestListsSharedBy_GrantMatchIsListIDAware(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	viewer := f.user(t, "viewer")
	f.befriend(t, owner.ID, viewer.ID)

	custom := &models.CustomList{UserID: owner.ID, Name: "Horror Night"}
	require.NoError(t, f.lists.Create(custom))

	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilitySelectFriends))
	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListTypeCustom, ListID: &custom.ID}, domain.VisibilitySelectFriends))

	// Grant only the system watchlist.
	require.NoError(t, f.sharing.ReplaceGrants(owner.ID, viewer.ID, []models.FriendListAccess{
		{OwnerID: owner.ID, FriendID: viewer.ID, ListType: domain.ListWatchlist},
	}))

	shared, err := f.sharingSvc.ListsSharedBy(owner.ID, viewer.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, domain.ListWatchlist, shared[0].ListType)
	assert.Nil(t, shared[0].ListID)

	// Flip the grant to the custom list only.
	require.NoError(t, f.sharing.ReplaceGrants(owner.ID, viewer.ID, []models.FriendListAccess{
		{OwnerID: owner.ID, FriendID: viewer.ID, ListType: domain.ListTypeCustom, ListID: &custom.ID},
	}))

	shared, err = f.sharingSvc.ListsSharedBy(owner.ID, viewer.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, domain.ListTypeCustom, shared[0].ListType)
	require.NotNil(t, shared[0].ListID)
	assert.Equal(t, custom.ID, *shared[0].ListID)
	assert.Equal(t, "Horror Night", shared[0].Name)
}

func TestSetSharing_ReplacesGrantSet(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	friend := f.user(t, "friend")
	f.befriend(t, owner.ID, friend.ID)

	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilitySelectFriends))
	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListFinished}, domain.VisibilitySelectFriends))

	shared, err := f.sharingSvc.SetSharing(owner.ID, friend.ID, []ListSelection{
		{ListType: domain.ListWatchlist},
		{ListType: domain.ListFinished, CanEdit: true},
	})
	require.NoError(t, err)
	assert.Len(t, shared, 2)

	// Replacing with a smaller set drops the removed grant.
	shared, err = f.sharingSvc.SetSharing(owner.ID, friend.ID, []ListSelection{
		{ListType: domain.ListFinished},
	})
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, domain.ListFinished, shared[0].ListType)
	assert.False(t, shared[0].CanEdit)

	// An empty set revokes everything.
	shared, err = f.sharingSvc.SetSharing(owner.ID, friend.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, shared)
}

func TestSetSharing_IsIdempotent(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	friend := f.user(t, "friend")
	f.befriend(t, owner.ID, friend.ID)

	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilitySelectFriends))

	sel := []ListSelection{{ListType: domain.ListWatchlist}}
	first, err := f.sharingSvc.SetSharing(owner.ID, friend.ID, sel)
	require.NoError(t, err)
	second, err := f.sharingSvc.SetSharing(owner.ID, friend.ID, sel)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	grants, err := f.sharing.GrantsFor(owner.ID, friend.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestSetSharing_RejectsNonFriends(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	stranger := f.user(t, "stranger")

	_, err := f.sharingSvc.SetSharing(owner.ID, stranger.ID, []ListSelection{
		{ListType: domain.ListWatchlist},
	})
	assert.ErrorIs(t, err, ErrNotFriends)
}

func TestSetSharing_RejectsInvalidSelections(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	friend := f.user(t, "friend")
	other := f.user(t, "other")
	f.befriend(t, owner.ID, friend.ID)

	// Unknown system list type.
	_, err := f.sharingSvc.SetSharing(owner.ID, friend.ID, []ListSelection{
		{ListType: "bogus"},
	})
	assert.ErrorIs(t, err, ErrInvalidList)

	// Custom list owned by someone else.
	foreign := &models.CustomList{UserID: other.ID, Name: "Not Yours"}
	require.NoError(t, f.lists.Create(foreign))
	_, err = f.sharingSvc.SetSharing(owner.ID, friend.ID, []ListSelection{
		{ListType: domain.ListTypeCustom, ListID: &foreign.ID},
	})
	assert.ErrorIs(t, err, ErrInvalidList)
}

func TestUnfriend_RevokesGrantsBothDirections(t *testing.T) {
	f := newFixtures(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	f.befriend(t, a.ID, b.ID)

	require.NoError(t, f.lists.SetVisibility(a.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilitySelectFriends))
	require.NoError(t, f.lists.SetVisibility(b.ID,
		models.ListRef{ListType: domain.ListFinished}, domain.VisibilitySelectFriends))
	_, err := f.sharingSvc.SetSharing(a.ID, b.ID, []ListSelection{{ListType: domain.ListWatchlist}})
	require.NoError(t, err)
	_, err = f.sharingSvc.SetSharing(b.ID, a.ID, []ListSelection{{ListType: domain.ListFinished}})
	require.NoError(t, err)

	require.NoError(t, f.collabs.Unfriend(a.ID, b.ID))

	grants, err := f.sharing.GrantsFor(a.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)
	grants, err = f.sharing.GrantsFor(b.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)

	// Visibility settings are account-level and survive the unfriend.
	vis, err := f.lists.GetVisibility(a.ID, models.ListRef{ListType: domain.ListWatchlist})
	require.NoError(t, err)
	require.NotNil(t, vis)
	assert.Equal(t, domain.VisibilitySelectFriends, vis.Visibility)
}

func TestAvailableLists_IncludesSystemAndCustom(t *testing.T) {
	f := newFixtures(t)
	owner := f.user(t, "owner")
	friend := f.user(t, "friend")
	f.befriend(t, owner.ID, friend.ID)

	custom := &models.CustomList{UserID: owner.ID, Name: "Rainy Days"}
	require.NoError(t, f.lists.Create(custom))
	require.NoError(t, f.lists.SetVisibility(owner.ID,
		models.ListRef{ListType: domain.ListWatchlist}, domain.VisibilityFriends))

	available, err := f.sharingSvc.AvailableLists(owner.ID, friend.ID)
	require.NoError(t, err)
	require.Len(t, available, len(domain.SystemListTypes)+1)

	byName := map[string]SharedList{}
	for _, l := range available {
		if l.ListID != nil {
			byName[l.Name] = l
		} else {
			byName[l.ListType] = l
		}
	}
	assert.Equal(t, domain.VisibilityFriends, byName[domain.ListWatchlist].Visibility)
	assert.Equal(t, domain.VisibilityPrivate, byName[domain.ListFinished].Visibility)
	assert.Contains(t, byName, "Rainy Days")
}
