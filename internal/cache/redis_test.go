package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKey(t *testing.T) {
	a := PageKey("https://www.acb.com/partido/estadisticas/id/104001")
	b := PageKey("https://www.acb.com/partido/estadisticas/id/104002")

	assert.True(t, strings.HasPrefix(a, pageKeyPrefix))
	assert.Len(t, strings.TrimPrefix(a, pageKeyPrefix), 40)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, PageKey("https://www.acb.com/partido/estadisticas/id/104001"))
}
