package dto

// ExportRequest asks for a rendered register of one instance.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf xlsx"`
}
