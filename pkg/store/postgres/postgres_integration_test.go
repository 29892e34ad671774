//go:build integration

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orangecat/campaignsync/internal/testenv"
	"github.com/orangecat/campaignsync/pkg/store"
	"github.com/orangecat/campaignsync/pkg/store/postgres"
	"github.com/orangecat/campaignsync/pkg/store/storetest"
)

func TestPostgresStore(t *testing.T) {
	storetest.RunCampaignStoreSuite(t, func(t *testing.T) store.CampaignStore {
		s, err := postgres.NewPostgresStore(testenv.PostgresDSN())
		require.NoError(t, err)
		return s
	})
}
