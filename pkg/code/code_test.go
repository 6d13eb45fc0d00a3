package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDataDoesNotMutateRegistered(t *testing.T) {
	c := ErrorNodeNotFound.WithData(map[string]int{"nodeId": 7})

	assert.True(t, c.HaveData())
	assert.False(t, ErrorNodeNotFound.HaveData())
	assert.Equal(t, ErrorNodeNotFound.Code(), c.Code())
}

func TestIsMatchesThroughCopies(t *testing.T) {
	err := ErrorInvalidLogin.WithDetails("username mismatch")

	assert.True(t, ErrorInvalidLogin.Is(err))
	assert.False(t, ErrorInvalidRecovery.Is(err))
}

func TestLangFallback(t *testing.T) {
	prev := GetGlobalDefaultLang()
	defer func() { _ = SetGlobalDefaultLang(prev) }()

	assert.NoError(t, SetGlobalDefaultLang("zh_cn"))
	assert.Equal(t, "成功", Success.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, "Success", Success.Msg())
}
