package uid_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shandysiswandi/authenticator/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	var gen uid.StringID = uid.NewUUID()

	a, b := gen.Generate(), gen.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestObjectID(t *testing.T) {
	gen, err := uid.NewObjectID()
	require.NoError(t, err)

	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := gen.Generate()
		assert.Len(t, id, 64)
		assert.Regexp(t, `^[0-9a-f]+$`, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
