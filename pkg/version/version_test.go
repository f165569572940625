package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.GitCommit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		GitCommit: "abcdefg",
		BuildTime: "2024-04-27T15:04:05Z",
		GoVersion: "go1.23.1",
		Platform:  "linux/amd64",
	}

	assert.Equal(t,
		"srcmerge version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.23.1 on linux/amd64",
		info.String())
}
