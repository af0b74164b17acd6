package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/teamsync/internal/models"
	"github.com/teamsync/teamsync/internal/testutil"
)

func TestTeams(t *testing.T) {
	_, repo := testutil.SetupTestDB(t)
	svc := NewService(repo)
	ctx := context.Background()
	u := testutil.CreateTestUser(t, repo, "dev@example.com")

	team, err := svc.CreateTeam(ctx, " Platform ", "infra folks")
	require.NoError(t, err)
	assert.Equal(t, "Platform", team.Name)
	assert.Empty(t, team.MemberIDs)

	_, err = svc.CreateTeam(ctx, "Platform", "")
	assert.ErrorIs(t, err, ErrTeamExists)
	_, err = svc.CreateTeam(ctx, "", "")
	assert.ErrorIs(t, err, ErrEmptyName)

	team, err = svc.AddMember(ctx, team.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{u.ID}, team.MemberIDs)

	team, err = svc.AddMember(ctx, team.ID, u.ID)
	require.NoError(t, err)
	assert.Len(t, team.MemberIDs, 1)

	_, err = svc.AddMember(ctx, team.ID, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	teams, err := svc.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	team, err = svc.RemoveMember(ctx, team.ID, u.ID)
	require.NoError(t, err)
	assert.Empty(t, team.MemberIDs)

	_, err = svc.RemoveMember(ctx, team.ID, u.ID)
	assert.ErrorIs(t, err, ErrNotAMember)
}
