package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, BuildTime, info.BuildTime)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
}

func TestString(t *testing.T) {
	s := Get().String()

	assert.True(t, strings.HasPrefix(s, "tagmirror "))
	assert.Contains(t, s, Version)
	assert.Contains(t, s, runtime.GOOS)
}

func TestShortAndFull(t *testing.T) {
	assert.Equal(t, Version, Short())
	assert.Contains(t, Full(), Version)
}
