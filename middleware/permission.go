package middleware

import (
	"lms/repository"

	"github.com/gofiber/fiber/v2"
)

// CheckPermissionMiddleware returns a middleware that checks if the user has the required permission
func CheckPermissionMiddleware(perms repository.PermissionRepository, requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := CurrentUserID(c)
		if userID == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		ok, err := perms.Has(c.UserContext(), userID, requiredPermission)
		if err != nil {
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}
		if !ok {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}

// SelfOrPermission lets a user through when the route parameter names the
// user itself, and otherwise requires the permission.
func SelfOrPermission(perms repository.PermissionRepository, param, requiredPermission string) fiber.Handler {
	check := CheckPermissionMiddleware(perms, requiredPermission)
	return func(c *fiber.Ctx) error {
		if userID := CurrentUserID(c); userID != "" && c.Params(param) == userID {
			return c.Next()
		}
		return check(c)
	}
}

// ActingFor reports whether the caller may act on behalf of targetUserID
func ActingFor(c *fiber.Ctx, perms repository.PermissionRepository, targetUserID, requiredPermission string) (bool, error) {
	userID := CurrentUserID(c)
	if userID == "" {
		return false, nil
	}
	if userID == targetUserID {
		return true, nil
	}
	return perms.Has(c.UserContext(), userID, requiredPermission)
}
