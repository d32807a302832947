package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Supply error code.
type ErrorCode string

const (
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrNotFound             ErrorCode = "NOT_FOUND"             // 404
	ErrFileNotFound         ErrorCode = "FILE_NOT_FOUND"        // 404
	ErrCategoryExists       ErrorCode = "CATEGORY_EXISTS"       // 409
	ErrInvalidFormat        ErrorCode = "INVALID_FORMAT"        // 422
	ErrConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED" // 428
	ErrCancelled            ErrorCode = "CANCELLED"             // 499
	ErrInternal             ErrorCode = "INTERNAL"              // 500
	ErrPersistFailed        ErrorCode = "PERSIST_FAILED"        // 507
)

// SupplyError represents a structured error with code, status, and details.
type SupplyError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SupplyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SupplyError {
	return &SupplyError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewCategoryNotFound creates a 404 error for an unknown category id.
func NewCategoryNotFound(id string) *SupplyError {
	return &SupplyError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("category not found: %s", id),
		Details: map[string]any{"category_id": id},
	}
}

// NewItemNotFound creates a 404 error for an item missing from its category.
func NewItemNotFound(itemID, categoryID string) *SupplyError {
	return &SupplyError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("item %s not found in category %s", itemID, categoryID),
		Details: map[string]any{"item_id": itemID, "category_id": categoryID},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *SupplyError {
	return &SupplyError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewCategoryExists creates a 409 error when a name derives an id already in use.
func NewCategoryExists(id, name string) *SupplyError {
	return &SupplyError{
		Code:    ErrCategoryExists,
		Status:  409,
		Message: fmt.Sprintf("category %q collides with existing category id %q", name, id),
		Details: map[string]any{"category_id": id, "name": name},
	}
}

// NewInvalidFormat creates a 422 error for documents that cannot be imported.
func NewInvalidFormat(reason string) *SupplyError {
	return &SupplyError{
		Code:    ErrInvalidFormat,
		Status:  422,
		Message: fmt.Sprintf("invalid document format: %s", reason),
	}
}

// NewConfirmationRequired creates a 428 error for a destructive action that
// was not confirmed. The prompt is returned so the caller can ask again.
func NewConfirmationRequired(action, prompt string) *SupplyError {
	return &SupplyError{
		Code:    ErrConfirmationRequired,
		Status:  428,
		Message: fmt.Sprintf("%s requires confirmation: %s", action, prompt),
		Details: map[string]any{"action": action, "prompt": prompt},
	}
}

// NewCancelled creates a 499 error when the caller's context ends mid-operation.
func NewCancelled(op string) *SupplyError {
	return &SupplyError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *SupplyError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &SupplyError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// NewPersistFailed creates a 507 error when a mutation was applied in memory
// but could not be written to the store.
func NewPersistFailed(err error) *SupplyError {
	msg := "change applied but not saved"
	if err != nil {
		msg = fmt.Sprintf("change applied but not saved: %v", err)
	}
	return &SupplyError{
		Code:    ErrPersistFailed,
		Status:  507,
		Message: msg,
	}
}

// Is checks if an error is a SupplyError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SupplyError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
