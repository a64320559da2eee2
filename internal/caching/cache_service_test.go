package caching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReportKeysAreTenantScoped(t *testing.T) {
	owner := uuid.MustParse("8a7f1c2e-4b1d-4c3a-9f00-0123456789ab")

	key := reportKey(owner, "summary")
	assert.Equal(t, "dentiq:finance:8a7f1c2e-4b1d-4c3a-9f00-0123456789ab:summary", key)
	assert.Equal(t, "dentiq:finance:8a7f1c2e-4b1d-4c3a-9f00-0123456789ab:*", tenantPattern(owner))
	assert.NotEqual(t, reportKey(uuid.New(), "summary"), key)
}

func TestNewRedisClientStripsScheme(t *testing.T) {
	client := NewRedisClient("redis://cache:6379", "", 2)
	defer client.Close()

	assert.Equal(t, "cache:6379", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
}
