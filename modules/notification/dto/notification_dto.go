package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListNotificationsRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize clamps the paging values into range.
func (r *ListNotificationsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = DefaultPageSize
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type CreateNotificationRequest struct {
	// ID is optional. A caller that may repeat the same create sets a stable
	// id so the repeat is a no-op.
	ID      string         `json:"id,omitempty"`
	UserID  string         `json:"user_id" validate:"required"`
	Title   string         `json:"title" validate:"required"`
	Message string         `json:"message"`
	Type    string         `json:"type" validate:"required"`
	Data    map[string]any `json:"data"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
