package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsSuperAdmin checks if the user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	return GetUserRole(c) == "super-admin"
}

// scopeUserID returns the owner filter for read queries: the caller's own
// ID, or uuid.Nil for super-admins so repositories skip the owner filter.
func scopeUserID(c *gin.Context) *uuid.UUID {
	userID := GetUserID(c)
	if userID == nil {
		return nil
	}
	if IsSuperAdmin(c) {
		nilID := uuid.Nil
		return &nilID
	}
	return userID
}

// parsePagination reads page/per_page query parameters with defaults
func parsePagination(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		params.Page = p
	}
	if pp, err := strconv.Atoi(c.Query("per_page")); err == nil && pp > 0 {
		params.PerPage = pp
	}
	params.Validate()
	return params
}

// parseDate parses a YYYY-MM-DD date string
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseDatePtr parses an optional YYYY-MM-DD date string
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseUUIDPtr parses an optional UUID string
func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
