package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchema struct {
	version uint
	latest  uint
	calls   []string
	stepErr error
}

func (f *fakeSchema) Up() error {
	f.calls = append(f.calls, "up")
	if f.version == f.latest {
		return migrate.ErrNoChange
	}
	f.version = f.latest
	return nil
}

func (f *fakeSchema) Down() error {
	f.calls = append(f.calls, "down")
	if f.version == 0 {
		return migrate.ErrNoChange
	}
	f.version = 0
	return nil
}

func (f *fakeSchema) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	if f.stepErr != nil {
		return f.stepErr
	}
	f.version = uint(int(f.version) + n)
	return nil
}

func (f *fakeSchema) Version() (uint, bool, error) {
	if f.version == 0 {
		return 0, false, migrate.ErrNilVersion
	}
	return f.version, false, nil
}

func TestApply_UpMigratesToLatest(t *testing.T) {
	s := &fakeSchema{latest: 1}
	st, err := apply(s, "up", 0)
	require.NoError(t, err)
	assert.Equal(t, state{Version: 1, Changed: true}, st)

	st, err = apply(s, "up", 0)
	require.NoError(t, err)
	assert.False(t, st.Changed, "second up has nothing to do")
}

func TestApply_DownOnEmptySchemaIsNotAnError(t *testing.T) {
	st, err := apply(&fakeSchema{latest: 1}, "down", 0)
	require.NoError(t, err)
	assert.Equal(t, state{}, st)
}

func TestApply_StepsRollBack(t *testing.T) {
	s := &fakeSchema{version: 1, latest: 1}
	st, err := apply(s, "down", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"steps"}, s.calls)
	assert.Equal(t, uint(0), st.Version)
}

func TestApply_StatusOnlyReadsVersion(t *testing.T) {
	s := &fakeSchema{version: 1, latest: 1}
	st, err := apply(s, "status", 0)
	require.NoError(t, err)
	assert.Empty(t, s.calls)
	assert.Equal(t, state{Version: 1}, st)
}

func TestApply_Errors(t *testing.T) {
	_, err := apply(&fakeSchema{}, "sideways", 0)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = apply(&fakeSchema{stepErr: boom}, "up", 2)
	assert.ErrorIs(t, err, boom)
}
