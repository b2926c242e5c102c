package testutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallsCountedPerPath(t *testing.T) {
	b := NewBackend()
	t.Cleanup(b.Close)
	b.AddCourse(Course("c1", 0, 0))

	get := func(path string) {
		resp, err := http.Get(b.URL() + path)
		require.NoError(t, err)
		resp.Body.Close()
	}

	get("/api/course/all")
	for i := 0; i < 5; i++ {
		get("/api/course/c1")
		get("/api/user/data")
		get("/api/educator/dashboard")
	}

	assert.Equal(t, 1, b.Calls("/api/course/all"))
	assert.Equal(t, 5, b.Calls("/api/course/c1"))
	assert.Equal(t, 5, b.Calls("/api/user/data"))
	assert.Equal(t, 5, b.Calls("/api/educator/dashboard"))
	assert.Equal(t, 0, b.Calls("/api/user/purchase"))
}
