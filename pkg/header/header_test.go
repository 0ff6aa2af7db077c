package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	h := New(
		WithKind(KindStateArchive),
		WithAPIVersion("v1"),
		WithMetadata("cluster", "lab"),
	)

	assert.Equal(t, KindStateArchive, h.Kind)
	assert.Equal(t, "v1", h.APIVersion)
	assert.Equal(t, "lab", h.Metadata["cluster"])
}

func TestInit(t *testing.T) {
	var h Header
	h.Init(KindStateArchive, "v1", "v1.2.3")

	assert.Equal(t, KindStateArchive, h.Kind)
	assert.Equal(t, "v1", h.APIVersion)
	assert.Equal(t, "v1.2.3", h.Metadata["version"])
	assert.NotEmpty(t, h.Metadata["id"])

	ts, err := time.Parse(time.RFC3339, h.Metadata["timestamp"])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestInitWithoutVersion(t *testing.T) {
	var h Header
	h.Init(KindNodeDirectory, "v1", "")

	_, ok := h.Metadata["version"]
	assert.False(t, ok, "empty version must not be recorded")
}

func TestKindIsValid(t *testing.T) {
	tests := []struct {
		kind  Kind
		valid bool
	}{
		{KindStateArchive, true},
		{KindNodeDirectory, true},
		{Kind("Recipe"), false},
		{Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.kind.IsValid())
		})
	}
}
