package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey marks a JWT ID as logged out until the token would expire.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// ActiveUniversitiesKey caches the public list of active universities.
func (r *CacheKeyStruct) ActiveUniversitiesKey() string {
	return "catalog:universities:active"
}

// UserNotificationChannel is the Redis PubSub channel carrying a user's live notifications.
func (r *CacheKeyStruct) UserNotificationChannel(userID int) string {
	return fmt.Sprintf("user:%d:notifications", userID)
}

var CacheKey = NewCacheKeyStruct()
