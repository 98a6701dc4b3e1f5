package runtimeparams

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClampsOutOfRangeDefaults(t *testing.T) {
	r := New(10, 1000)
	assert.Equal(t, time.Duration(MinTTLSeconds)*time.Second, r.TTL())
	assert.Equal(t, time.Duration(MaxWarningSeconds)*time.Second, r.Warning())
}

func TestSetTTLSeconds_RejectsOutOfBounds(t *testing.T) {
	r := New(300, 30)
	require.Error(t, r.SetTTLSeconds(MinTTLSeconds-1))
	require.Error(t, r.SetTTLSeconds(MaxTTLSeconds+1))
	assert.Equal(t, 300*time.Second, r.TTL())
}

func TestSetTTLSeconds_AcceptsBoundaryValues(t *testing.T) {
	r := New(300, 30)
	require.NoError(t, r.SetTTLSeconds(MinTTLSeconds))
	assert.Equal(t, time.Duration(MinTTLSeconds)*time.Second, r.TTL())
	require.NoError(t, r.SetTTLSeconds(MaxTTLSeconds))
	assert.Equal(t, time.Duration(MaxTTLSeconds)*time.Second, r.TTL())
}

func TestSetWarningSeconds_RejectsOutOfBounds(t *testing.T) {
	r := New(300, 30)
	require.Error(t, r.SetWarningSeconds(MinWarningSeconds-1))
	require.Error(t, r.SetWarningSeconds(MaxWarningSeconds+1))
	assert.Equal(t, 30*time.Second, r.Warning())
}

func TestDescribe_ReflectsCurrentValuesAndBounds(t *testing.T) {
	r := New(300, 30)
	require.NoError(t, r.SetTTLSeconds(120))
	snap := r.Describe()
	assert.Equal(t, 120, snap.TTLSeconds)
	assert.Equal(t, MinTTLSeconds, snap.TTLMinSeconds)
	assert.Equal(t, MaxTTLSeconds, snap.TTLMaxSeconds)
	assert.Equal(t, 30, snap.Warning.Seconds)
	assert.Equal(t, MinWarningSeconds, snap.Warning.MinSeconds)
	assert.Equal(t, MaxWarningSeconds, snap.Warning.MaxSeconds)
}
