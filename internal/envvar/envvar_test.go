package envvar_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/envvar"
)

type providerStub struct {
	values map[string]string
}

func (p providerStub) Get(key string) (string, error) {
	v, ok := p.values[key]
	if !ok {
		return "", errors.New("not found")
	}

	return v, nil
}

func TestLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(filename, []byte("ENVVAR_TEST_LOAD=loaded\n"), 0o600))

	t.Cleanup(func() { os.Unsetenv("ENVVAR_TEST_LOAD") })

	require.NoError(t, envvar.Load(filename))
	assert.Equal(t, "loaded", os.Getenv("ENVVAR_TEST_LOAD"))

	assert.NoError(t, envvar.Load(""))
	assert.Error(t, envvar.Load(filepath.Join(t.TempDir(), "missing.env")))
}

func TestConfiguration_Get(t *testing.T) {
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PASSWORD", "plain")
	t.Setenv("DATABASE_PASSWORD_SECURE", "/database:password")
	t.Setenv("JWT_SECRET_KEY_SECURE", "/jwt:missing")

	conf := envvar.New(providerStub{values: map[string]string{"/database:password": "s3cr3t"}})

	actual, err := conf.Get("DATABASE_HOST")
	require.NoError(t, err)
	assert.Equal(t, "localhost", actual)

	actual, err = conf.Get("DATABASE_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", actual)

	_, err = conf.Get("JWT_SECRET_KEY")
	require.Error(t, err)

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())

	actual, err = conf.GetDefault("MESSAGE_BROKER", "kafka")
	require.NoError(t, err)
	assert.Equal(t, "kafka", actual)
}
