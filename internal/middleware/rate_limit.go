package middleware

import (
	"net/http"
	"strconv"
	"time"

	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RedisRateLimit 基于 Redis 的固定窗口限流，多实例共享计数。
// 登录接口防爆破用，Redis 不可用时 fail closed。
// limits 每次请求调用一次，配置热更新后新的阈值立即生效。
func RedisRateLimit(rdb *redis.Client, key string, limits func() (int, time.Duration)) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, window := limits()
		redisKey := "rl:" + key + ":" + c.ClientIP()

		count, err := rdb.Incr(c.Request.Context(), redisKey).Result()
		if err != nil {
			util.Error(c, http.StatusServiceUnavailable, "rate limiter unavailable")
			c.Abort()
			return
		}

		if count == 1 {
			rdb.Expire(c.Request.Context(), redisKey, window)
		}

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			util.Error(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
