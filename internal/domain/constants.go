package domain

// System list types. These are the fixed status/tag lists every account has;
// they coexist with user-created custom lists.
const (
	ListWatchlist = "watchlist"
	ListWatching  = "watching"
	ListFinished  = "finished"
	ListOnHold    = "onhold"
	ListDropped   = "dropped"
	ListFavorites = "favorites"
	ListRewatch   = "rewatch"
	ListNostalgia = "nostalgia"
)

var SystemListTypes = []string{
	ListWatchlist,
	ListWatching,
	ListFinished,
	ListOnHold,
	ListDropped,
	ListFavorites,
	ListRewatch,
	ListNostalgia,
}

// ListTypeCustom marks user-created lists; rows carrying it always have a
// list id, unlike system lists which are addressed by type alone.
const ListTypeCustom = "custom"

func IsSystemListType(t string) bool {
	for _, s := range SystemListTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Per-list visibility policy. No visibility row means private.
const (
	VisibilityPrivate       = "private"
	VisibilityFriends       = "friends"
	VisibilityPublic        = "public"
	VisibilitySelectFriends = "select_friends"
)

func IsValidVisibility(v string) bool {
	switch v {
	case VisibilityPrivate, VisibilityFriends, VisibilityPublic, VisibilitySelectFriends:
		return true
	}
	return false
}

const (
	CollaboratorTypeFriend  = "friend"
	CollaboratorTypePartner = "partner"
)

const (
	CollaboratorStatusPending  = "pending"
	CollaboratorStatusAccepted = "accepted"
)

// Notification types emitted by the alert job.
const (
	NotifPremiere  = "premiere"
	NotifFinale    = "finale"
	NotifEpisode   = "episode"
	NotifNewSeason = "new_season"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// ShowStatusReturning is the TMDb status for shows expected to air again.
const ShowStatusReturning = "Returning Series"

// MaxCustomLists caps user-created lists per account.
const MaxCustomLists = 10
