package usersdk

// ============================================================================
// User Types
// ============================================================================

// UserCreateRequest is the body of POST /users/.
type UserCreateRequest struct {
	// Name is the user's given name.
	Name string `json:"name" validate:"required,max=255" example:"Ann"`

	// Surname is the user's family name.
	Surname string `json:"surname" validate:"required,max=255" example:"Lee"`

	// Age in years. A pointer so that a missing value is told apart from 0.
	Age *int `json:"age" validate:"required,gte=0,lte=150" example:"30"`

	// Email must be unique across all users.
	Email string `json:"email" validate:"required,email,max=255" example:"ann@x.com"`

	// Password is plaintext on the wire and hashed by the server.
	Password string `json:"password" validate:"required,max=128" example:"secret"`

	// IsSuperuser defaults to false.
	IsSuperuser bool `json:"is_superuser" example:"false"`
}

// UserPublic is the public projection of a user. It never carries the
// password hash.
type UserPublic struct {
	ID          string `json:"id" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"`
	Name        string `json:"name" example:"Ann"`
	Surname     string `json:"surname" example:"Lee"`
	Age         int    `json:"age" example:"30"`
	Email       string `json:"email" example:"ann@x.com"`
	IsSuperuser bool   `json:"is_superuser" example:"false"`
}

// UsersPublic is one page of users plus the total number of users.
type UsersPublic struct {
	Data  []UserPublic `json:"data"`
	Count int          `json:"count" example:"1"`
}

// ListUsersParams are the query parameters of GET /users/. Nil means the
// server default (skip 0, limit 100).
type ListUsersParams struct {
	Skip  *int `json:"skip" validate:"omitempty,gte=0"`
	Limit *int `json:"limit" validate:"omitempty,gte=0,lte=1000"`
}

// Int returns a pointer to v, for optional fields.
func Int(v int) *int { return &v }

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-validation error:
// {"detail": "User not found"}.
type ErrorResponse struct {
	Detail string `json:"detail" example:"User not found"`
}

// ValidationErrorResponse is the 422 body: one entry per invalid field.
type ValidationErrorResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

// ValidationDetail locates and describes one invalid input. Loc is the
// input source followed by the field name, e.g. ["body", "email"].
type ValidationDetail struct {
	Loc  []string `json:"loc" example:"body,email"`
	Msg  string   `json:"msg" example:"must be a valid email address"`
	Type string   `json:"type" example:"email"`
}

// Field returns the last element of Loc, the offending field name.
func (d ValidationDetail) Field() string {
	if len(d.Loc) == 0 {
		return "unknown"
	}
	return d.Loc[len(d.Loc)-1]
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`
}
