package middleware

import "github.com/gin-gonic/gin"

// accountIDKey is the key used to store the authenticated account's ID.
// Using a custom type prevents collisions.
const accountIDKey = contextKey("accountID")

// GetAccountIDFromContext retrieves the authenticated account id from the Gin
// context. This is the only source of the acting identity; request bodies that
// duplicate it are ignored.
func GetAccountIDFromContext(c *gin.Context) (string, bool) {
	accountIDVal, exists := c.Get(string(accountIDKey))
	if !exists {
		// check in the request context as well
		v := c.Request.Context().Value(accountIDKey)
		if v != nil {
			return v.(string), true
		}
		return "", false
	}

	accountID, ok := accountIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return "", false
	}

	return accountID, true
}
