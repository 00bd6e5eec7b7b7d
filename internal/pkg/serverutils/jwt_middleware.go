package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret returns the staff token signing secret. Every signing and
// verification site must go through here so they can never disagree. The
// fallback keeps local development working without an env file.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return []byte(secret)
}

// JWTSecretConfigured reports whether a real secret was provided.
func JWTSecretConfigured() bool {
	return os.Getenv("JWT_SECRET") != ""
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing token"))
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid claims"))
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("role", claims["role"])
	ctx.Locals("display_name", claims["display_name"])
	return ctx.Next()
}

// RequireRole guards a route group behind a staff role set in the JWT claims.
// Master passes support checks too, since admins can work the queue.
func RequireRole(role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		current, _ := ctx.Locals("role").(string)
		if current == role || current == "master" {
			return ctx.Next()
		}
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse("Insufficient role"))
	}
}
