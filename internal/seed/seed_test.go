package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/lecturehub/internal/app/repositories/inmem"
	"github.com/yigit/lecturehub/internal/config"
	"github.com/yigit/lecturehub/internal/pkg/auth"
)

func seedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Seed.Enabled = true
	cfg.Seed.PFNumber = "PF000001"
	cfg.Seed.Title = "Dr."
	cfg.Seed.Password = "changeme"
	cfg.Seed.FirstName = "Default"
	return cfg
}

func TestCreateDefaultLecturer(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewRepositories(inmem.NewDB())
	cfg := seedConfig()

	require.NoError(t, CreateDefaultLecturer(ctx, repos.LecturerRepository, cfg, zerolog.Nop()))

	lecturer, err := repos.LecturerRepository.GetByIdentifier(ctx, "PF000001")
	require.NoError(t, err)
	assert.Equal(t, "Dr.", lecturer.Title)
	require.NotNil(t, lecturer.FirstName)
	assert.Equal(t, "Default", *lecturer.FirstName)
	assert.Nil(t, lecturer.Email)
	assert.True(t, auth.CheckPassword(lecturer.Password, "changeme"))

	// second run is a no-op
	require.NoError(t, CreateDefaultLecturer(ctx, repos.LecturerRepository, cfg, zerolog.Nop()))
}

func TestCreateDefaultLecturer_DisabledOrIncomplete(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewRepositories(inmem.NewDB())

	disabled := seedConfig()
	disabled.Seed.Enabled = false
	require.NoError(t, CreateDefaultLecturer(ctx, repos.LecturerRepository, disabled, zerolog.Nop()))

	noPassword := seedConfig()
	noPassword.Seed.Password = ""
	assert.ErrorIs(t, CreateDefaultLecturer(ctx, repos.LecturerRepository, noPassword, zerolog.Nop()), ErrSeedPasswordMissing)

	_, err := repos.LecturerRepository.GetByIdentifier(ctx, "PF000001")
	assert.Error(t, err)
}
