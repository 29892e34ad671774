// Package storetest holds conformance suites every store backend runs.
//
// Backends call [RunCampaignStoreSuite] or [RunDraftStoreSuite] from their
// own tests with a factory returning a fresh, empty store. Backends that need
// a live server run the suites behind the integration build tag.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

// CampaignStoreSuite exercises the owner scoping and ordering contract of a
// store.CampaignStore.
type CampaignStoreSuite struct {
	suite.Suite
	NewStore func(t *testing.T) store.CampaignStore

	store store.CampaignStore
	ctx   context.Context
}

func RunCampaignStoreSuite(t *testing.T, newStore func(t *testing.T) store.CampaignStore) {
	suite.Run(t, &CampaignStoreSuite{NewStore: newStore})
}

func (s *CampaignStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore(s.T())
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *CampaignStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *CampaignStoreSuite) payload(title string) models.CampaignPayload {
	goal := 1000.0
	return models.CampaignPayload{
		Title:               title,
		Description:         "about " + title,
		PaymentDestinations: []string{"bc1q" + title},
		GoalAmount:          &goal,
		Categories:          []string{"community"},
	}
}

func (s *CampaignStoreSuite) TestCreateAssignsIDAndDraftFlags() {
	owner := models.NewOwnerID()

	c, err := s.store.CreateCampaign(s.ctx, owner, s.payload("first"))
	s.Require().NoError(err)
	s.False(c.ID.IsZero())
	s.False(c.ID.IsLocal())
	s.Equal(owner, c.OwnerID)
	s.Equal("first", c.Title)
	s.False(c.IsActive)
	s.False(c.IsPublic)
	s.Require().NotNil(c.GoalAmount)
	s.InDelta(1000.0, *c.GoalAmount, 1e-9)

	list, err := s.store.ListCampaigns(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(c.ID, list[0].ID)
	s.Equal([]string{"bc1qfirst"}, []string(list[0].PaymentDestinations))
	s.Equal([]string{"community"}, []string(list[0].Categories))
}

func (s *CampaignStoreSuite) TestListIsOwnerScopedAndNewestFirst() {
	owner := models.NewOwnerID()
	other := models.NewOwnerID()

	first, err := s.store.CreateCampaign(s.ctx, owner, s.payload("a"))
	s.Require().NoError(err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.store.CreateCampaign(s.ctx, owner, s.payload("b"))
	s.Require().NoError(err)
	_, err = s.store.CreateCampaign(s.ctx, other, s.payload("c"))
	s.Require().NoError(err)

	list, err := s.store.ListCampaigns(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)

	time.Sleep(5 * time.Millisecond)
	_, err = s.store.UpdateCampaign(s.ctx, first.ID, owner, s.payload("a2"))
	s.Require().NoError(err)

	list, err = s.store.ListCampaigns(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID, "updating a record moves it to the front")
	s.Equal("a2", list[0].Title)

	empty, err := s.store.ListCampaigns(s.ctx, models.NewOwnerID())
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *CampaignStoreSuite) TestUpdateKeepsFlagsUnlessSet() {
	owner := models.NewOwnerID()
	c, err := s.store.CreateCampaign(s.ctx, owner, s.payload("a"))
	s.Require().NoError(err)

	updated, err := s.store.UpdateCampaign(s.ctx, c.ID, owner, s.payload("b"))
	s.Require().NoError(err)
	s.Equal(c.ID, updated.ID)
	s.Equal("b", updated.Title)
	s.False(updated.IsActive)
	s.False(updated.IsPublic)

	p := s.payload("c")
	p.GoalAmount = nil
	p.Flags = &models.FlagsActive
	updated, err = s.store.UpdateCampaign(s.ctx, c.ID, owner, p)
	s.Require().NoError(err)
	s.True(updated.IsActive)
	s.True(updated.IsPublic)
	s.Nil(updated.GoalAmount)

	updated, err = s.store.UpdateCampaignFlags(s.ctx, c.ID, owner, models.FlagsPaused)
	s.Require().NoError(err)
	s.False(updated.IsActive)
	s.True(updated.IsPublic)
	s.Equal("c", updated.Title)
}

func (s *CampaignStoreSuite) TestWritesAreOwnerScoped() {
	owner := models.NewOwnerID()
	intruder := models.NewOwnerID()
	c, err := s.store.CreateCampaign(s.ctx, owner, s.payload("a"))
	s.Require().NoError(err)

	_, err = s.store.UpdateCampaign(s.ctx, c.ID, intruder, s.payload("hijack"))
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)

	_, err = s.store.UpdateCampaignFlags(s.ctx, c.ID, intruder, models.FlagsActive)
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)

	err = s.store.DeleteCampaign(s.ctx, c.ID, intruder)
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)

	_, err = s.store.UpdateCampaign(s.ctx, models.NewCampaignID(), owner, s.payload("ghost"))
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)

	list, err := s.store.ListCampaigns(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("a", list[0].Title)
}

func (s *CampaignStoreSuite) TestDelete() {
	owner := models.NewOwnerID()
	c, err := s.store.CreateCampaign(s.ctx, owner, s.payload("a"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteCampaign(s.ctx, c.ID, owner))

	list, err := s.store.ListCampaigns(s.ctx, owner)
	s.Require().NoError(err)
	s.Empty(list)

	err = s.store.DeleteCampaign(s.ctx, c.ID, owner)
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)
}

// DraftStoreSuite exercises the overwrite and delete contract of a
// store.DraftStore.
type DraftStoreSuite struct {
	suite.Suite
	NewStore func(t *testing.T) store.DraftStore

	store store.DraftStore
	ctx   context.Context
}

func RunDraftStoreSuite(t *testing.T, newStore func(t *testing.T) store.DraftStore) {
	suite.Run(t, &DraftStoreSuite{NewStore: newStore})
}

func (s *DraftStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore(s.T())
}

func (s *DraftStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *DraftStoreSuite) TestMissingKey() {
	_, err := s.store.Get(s.ctx, "campaign_draft:nobody")
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)
}

func (s *DraftStoreSuite) TestPutOverwritesWholesale() {
	key := "campaign_draft:" + models.NewOwnerID().String()

	s.Require().NoError(s.store.Put(s.ctx, key, []byte("first value, longer")))
	s.Require().NoError(s.store.Put(s.ctx, key, []byte("second")))

	v, err := s.store.Get(s.ctx, key)
	s.Require().NoError(err)
	s.Equal([]byte("second"), v)
}

func (s *DraftStoreSuite) TestKeysAreIndependent() {
	a := "campaign_draft:" + models.NewOwnerID().String()
	b := "campaign_draft:" + models.NewOwnerID().String()

	s.Require().NoError(s.store.Put(s.ctx, a, []byte("a")))
	s.Require().NoError(s.store.Put(s.ctx, b, []byte("b")))
	s.Require().NoError(s.store.Delete(s.ctx, a))

	_, err := s.store.Get(s.ctx, a)
	s.True(errors.Is(err, store.ErrNotFound), "got %v", err)

	v, err := s.store.Get(s.ctx, b)
	s.Require().NoError(err)
	s.Equal([]byte("b"), v)
}

func (s *DraftStoreSuite) TestDeleteMissingKey() {
	s.NoError(s.store.Delete(s.ctx, "campaign_draft:nobody"))
}
