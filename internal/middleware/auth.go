package middleware

import (
	"strings"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 Bearer 令牌并把声明放进上下文。
// 令牌里的 jti 必须对应一条活跃会话，被顶号的旧令牌在这里被拦下。
func AuthMiddleware(cfg *config.Config, sessionRepo *repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.ID != "" {
			if _, err := sessionRepo.FindActiveByJti(claims.ID); err != nil {
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware 要求角色完全相等，管理员不隐含其他角色的权限
func RoleMiddleware(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != role {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
