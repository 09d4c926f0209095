// Package schema defines the wire types exchanged between the Thermolog
// API and its clients. Both the server handlers and the SDK use these
// structures, so the JSON shape is declared exactly once.
package schema

import "time"

// Account is the public representation of a registered user.
// The credential hash is intentionally not part of this type.
type Account struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Theme           string    `json:"theme"`
	DashboardLayout string    `json:"dashboard_layout"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Reading is one stored sensor observation.
type Reading struct {
	ID          string    `json:"id"`
	SensorID    string    `json:"sensor_id"`
	Temperature float64   `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

// Setting is a named configuration entry.
type Setting struct {
	Key           string `json:"key"`
	Value         string `json:"value"`
	Description   string `json:"description"`
	RequiresAdmin bool   `json:"requires_admin"`
}

// BucketStat is one aggregated bucket of a temperature query.
// AvgHumidity is null when no reading in the bucket carried humidity.
type BucketStat struct {
	TimeGroup      string   `json:"time_group"`
	AvgTemperature float64  `json:"avg_temperature"`
	MinTemperature float64  `json:"min_temperature"`
	MaxTemperature float64  `json:"max_temperature"`
	AvgHumidity    *float64 `json:"avg_humidity"`
}

// QueryResult is the response of a temperature aggregation query.
type QueryResult struct {
	SensorID  string       `json:"sensor_id"`
	Timeframe string       `json:"timeframe"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Data      []BucketStat `json:"data"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the token pair and the public profile.
type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         Account `json:"user"`
}

// ProfileUpdateRequest is the body of PUT /auth/profile. Every field is
// optional; absent fields are left untouched. A credential change
// requires both password fields.
type ProfileUpdateRequest struct {
	Email           *string `json:"email"`
	Theme           *string `json:"theme"`
	DashboardLayout *string `json:"dashboard_layout"`
	OldPassword     *string `json:"old_password"`
	NewPassword     *string `json:"new_password"`
}

// AccountUpdateRequest is the body of PUT /admin/users/:id. Role must be
// a valid role name when present; NewPassword resets the credential
// without verifying the old one (admin override).
type AccountUpdateRequest struct {
	Email           *string `json:"email"`
	Role            *string `json:"role"`
	Theme           *string `json:"theme"`
	DashboardLayout *string `json:"dashboard_layout"`
	NewPassword     *string `json:"new_password"`
}

// IngestRequest is the body of POST /api/temperature. Timestamp defaults
// to the ingestion time when absent.
type IngestRequest struct {
	SensorID    string     `json:"sensor_id" binding:"required"`
	Temperature *float64   `json:"temperature" binding:"required"`
	Humidity    *float64   `json:"humidity"`
	Timestamp   *time.Time `json:"timestamp"`
}

// SettingCreateRequest is the body of POST /admin/settings.
type SettingCreateRequest struct {
	Key           string `json:"key" binding:"required"`
	Value         string `json:"value" binding:"required"`
	Description   string `json:"description"`
	RequiresAdmin bool   `json:"requires_admin"`
}

// SettingUpdateRequest is the body of PUT /admin/settings/:key.
type SettingUpdateRequest struct {
	Value         *string `json:"value"`
	Description   *string `json:"description"`
	RequiresAdmin *bool   `json:"requires_admin"`
}
