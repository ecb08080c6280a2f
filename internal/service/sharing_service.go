package service

import (
	"errors"

	"flicklog/internal/domain"
	"flicklog/internal/models"
	"flicklog/internal/repository"
)

var (
	ErrNotFriends  = errors.New("users are not friends")
	ErrInvalidList = errors.New("unknown list selection")
)

// SharingService resolves which lists an owner exposes to a viewer and
// maintains the per-friend access grants.
type SharingService struct {
	sharingRepo *repository.SharingRepository
	collabRepo  *repository.CollaboratorRepository
	listRepo    *repository.ListRepository
}

func NewSharingService(
	sharingRepo *repository.SharingRepository,
	collabRepo *repository.CollaboratorRepository,
	listRepo *repository.ListRepository,
) *SharingService {
	return &SharingService{sharingRepo: sharingRepo, collabRepo: collabRepo, listRepo: listRepo}
}

// SharedList is one list the owner exposes to the viewer, with display name.
type SharedList struct {
	ListType   string `json:"list_type"`
	ListID     *uint  `json:"list_id,omitempty"`
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	CanEdit    bool   `json:"can_edit"`
}

// ListSelection is one entry of a sharing PATCH body.
type ListSelection struct {
	ListType string `json:"list_type" binding:"required"`
	ListID   *uint  `json:"list_id"`
	CanEdit  bool   `json:"can_edit"`
}

// ListsSharedBy answers "which lists does owner expose to viewer". Safe to
// call for non-friends; lists with no visibility row are private and never
// appear.
func (s *SharingService) ListsSharedBy(ownerID, viewerID uint) ([]SharedList, error) {
	rows, err := s.sharingRepo.ListsSharedBy(ownerID, viewerID)
	if err != nil {
		return nil, err
	}
	names, err := s.customListNames(ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]SharedList, 0, len(rows))
	for _, row := range rows {
		name := row.ListType
		if row.ListID != nil {
			n, ok := names[*row.ListID]
			if !ok {
				continue // visibility row for a deleted custom list
			}
			name = n
		}
		out = append(out, SharedList{
			ListType:   row.ListType,
			ListID:     row.ListID,
			Name:       name,
			Visibility: row.Visibility,
			CanEdit:    row.CanEdit,
		})
	}
	return out, nil
}

// AvailableLists returns every list the owner could share: all system lists
// plus their custom lists, annotated with the current visibility policy and
// the grant state toward friendID.
func (s *SharingService) AvailableLists(ownerID, friendID uint) ([]SharedList, error) {
	visibilities, err := s.listRepo.ListVisibilities(ownerID)
	if err != nil {
		return nil, err
	}
	grants, err := s.sharingRepo.GrantsFor(ownerID, friendID)
	if err != nil {
		return nil, err
	}
	visFor := func(ref models.ListRef) string {
		for _, v := range visibilities {
			if v.Ref().Equal(ref) {
				return v.Visibility
			}
		}
		return domain.VisibilityPrivate
	}
	grantFor := func(ref models.ListRef) (bool, bool) {
		for _, g := range grants {
			if g.Ref().Equal(ref) {
				return true, g.CanEdit
			}
		}
		return false, false
	}

	var out []SharedList
	for _, t := range domain.SystemListTypes {
		ref := models.ListRef{ListType: t}
		_, canEdit := grantFor(ref)
		out = append(out, SharedList{ListType: t, Name: t, Visibility: visFor(ref), CanEdit: canEdit})
	}
	custom, err := s.listRepo.ListByUserID(ownerID)
	if err != nil {
		return nil, err
	}
	for i := range custom {
		l := &custom[i]
		id := l.ID
		ref := models.ListRef{ListType: domain.ListTypeCustom, ListID: &id}
		_, canEdit := grantFor(ref)
		out = append(out, SharedList{ListType: domain.ListTypeCustom, ListID: &id, Name: l.Name, Visibility: visFor(ref), CanEdit: canEdit})
	}
	return out, nil
}

// SetSharing replaces the full grant set from owner to friend. Requires an
// accepted friendship. Does not touch visibility: a grant only takes effect
// while the owner marks the list select_friends (or broader).
func (s *SharingService) SetSharing(ownerID, friendID uint, selections []ListSelection) ([]SharedList, error) {
	ok, err := s.collabRepo.AreFriends(ownerID, friendID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}
	grants := make([]models.FriendListAccess, 0, len(selections))
	for _, sel := range selections {
		if err := s.validateSelection(ownerID, sel); err != nil {
			return nil, err
		}
		grants = append(grants, models.FriendListAccess{
			OwnerID:  ownerID,
			FriendID: friendID,
			ListType: sel.ListType,
			ListID:   sel.ListID,
			CanEdit:  sel.CanEdit,
		})
	}
	if err := s.sharingRepo.ReplaceGrants(ownerID, friendID, grants); err != nil {
		return nil, err
	}
	return s.ListsSharedBy(ownerID, friendID)
}

func (s *SharingService) validateSelection(ownerID uint, sel ListSelection) error {
	if sel.ListID == nil {
		if !domain.IsSystemListType(sel.ListType) {
			return ErrInvalidList
		}
		return nil
	}
	l, err := s.listRepo.GetByID(*sel.ListID)
	if err != nil || l.UserID != ownerID {
		return ErrInvalidList
	}
	return nil
}

func (s *SharingService) customListNames(ownerID uint) (map[uint]string, error) {
	lists, err := s.listRepo.ListByUserID(ownerID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(lists))
	for _, l := range lists {
		names[l.ID] = l.Name
	}
	return names, nil
}
