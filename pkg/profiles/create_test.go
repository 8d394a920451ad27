package profiles_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/repository"
	"github.com/arthur-debert/ocp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	e := newEnv(t)
	testutil.NewRepo(t, e.work).Profile("base", "", nil).Build()

	dir, err := e.service.Create(lineage.Definition{Name: " work ", Description: "day job", Parent: "base"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.work, "work"), dir)
	assert.True(t, testutil.DirExists(t, dir))

	meta, err := repository.Read(filesystem.NewOS(), e.work)
	require.NoError(t, err)
	assert.Equal(t, []lineage.Definition{
		{Name: "base"},
		{Name: "work", Description: "day job", Parent: "base"},
	}, meta.Profiles)
}

func TestCreate_WithoutRepositoryFile(t *testing.T) {
	e := newEnv(t)

	_, err := e.service.Create(lineage.Definition{Name: "first"})
	require.NoError(t, err)

	meta, err := repository.Read(filesystem.NewOS(), e.work)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, meta.Names())
}

func TestCreate_Errors(t *testing.T) {
	e := newEnv(t)
	testutil.NewRepo(t, e.work).Profile("base", "", nil).Build()

	tests := []struct {
		name string
		def  lineage.Definition
		code errors.ErrorCode
	}{
		{name: "blank", def: lineage.Definition{Name: " "}, code: errors.ErrInvalidInput},
		{name: "exists", def: lineage.Definition{Name: "base"}, code: errors.ErrProfileExists},
		{name: "self_parent", def: lineage.Definition{Name: "x", Parent: "x"}, code: errors.ErrSelfExtendingProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.service.Create(tt.def)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}
