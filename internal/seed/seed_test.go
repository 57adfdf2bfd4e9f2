package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolmanager/internal/app/repositories/memory"
)

func TestCreateDefaultDataOnlyOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	created, err := CreateDefaultData(ctx, repos, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	schools, err := repos.SchoolRepository.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, DefaultSchoolName, schools[0].Name)

	divisions, err := repos.DivisionRepository.FindAllBySchoolID(ctx, schools[0].ID)
	require.NoError(t, err)
	require.Len(t, divisions, 1)
	assert.Equal(t, DefaultDivisionName, divisions[0].Name)

	created, err = CreateDefaultData(ctx, repos, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)

	schools, err = repos.SchoolRepository.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, schools, 1)
}
