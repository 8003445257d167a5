package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWritesAppField(t *testing.T) {
	var buf bytes.Buffer
	opts := ProfileOptions(ProfileTest)
	opts.Out = &buf
	log := Build("arbiterctl", opts)

	log.Debug().Str("process", "wander").Msg("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "app=arbiterctl")
	assert.Contains(t, out, "process=wander")
}

func TestBuildRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Build("x", Options{Level: zerolog.WarnLevel, NoColor: true, Out: &buf})
	log.Info().Msg("quiet")
	assert.Empty(t, buf.String())
	log.Warn().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ProfileOptions(ProfileRuntime).Level)
	assert.True(t, ProfileOptions(ProfileRuntime).Timestamp)
	assert.Equal(t, zerolog.DebugLevel, ProfileOptions(ProfileTest).Level)
	assert.False(t, ProfileOptions(ProfileTest).Timestamp)
}

func TestNewEnvOverrides(t *testing.T) {
	t.Setenv("ARBITERX_LOG_LEVEL", "ERROR")
	t.Setenv("ARBITERX_LOG_NOCOLOR", "true")
	log, err := New("x", ProfileRuntime)
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, log.GetLevel())
}

func TestNewRejectsBadLevel(t *testing.T) {
	t.Setenv("ARBITERX_LOG_LEVEL", "loudest")
	_, err := New("x", ProfileRuntime)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" Debug ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}
