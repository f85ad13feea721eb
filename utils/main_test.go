package utils

import (
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cppla/yatube/config"
)

var testRedis *miniredis.Miniredis

func TestMain(m *testing.M) {
	config.Set(config.AppConfig{JWTSecret: "test-secret", CacheBackend: "memory", TokenTTLHours: 1})

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	testRedis = mr
	SetRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	code := m.Run()
	mr.Close()
	os.Exit(code)
}
