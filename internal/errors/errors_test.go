package errors

import (
	"fmt"
	"testing"
)

func TestSupplyError_Error(t *testing.T) {
	err := &SupplyError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "category not found: produce",
	}

	expected := "NOT_FOUND: category not found: produce"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("name is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "name is required" {
		t.Errorf("Message = %q, want %q", err.Message, "name is required")
	}
}

func TestNewCategoryNotFound(t *testing.T) {
	err := NewCategoryNotFound("produce")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["category_id"] != "produce" {
		t.Errorf("Details[category_id] = %v, want %q", err.Details["category_id"], "produce")
	}
}

func TestNewItemNotFound(t *testing.T) {
	err := NewItemNotFound("item_1", "produce")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["item_id"] != "item_1" {
		t.Errorf("Details[item_id] = %v, want %q", err.Details["item_id"], "item_1")
	}
	if err.Details["category_id"] != "produce" {
		t.Errorf("Details[category_id] = %v, want %q", err.Details["category_id"], "produce")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/missing.json")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
}

func TestNewCategoryExists(t *testing.T) {
	err := NewCategoryExists("a_", "A?")

	if err.Code != ErrCategoryExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrCategoryExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["category_id"] != "a_" {
		t.Errorf("Details[category_id] = %v, want %q", err.Details["category_id"], "a_")
	}
	if err.Details["name"] != "A?" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "A?")
	}
}

func TestNewInvalidFormat(t *testing.T) {
	err := NewInvalidFormat("missing categories array")

	if err.Code != ErrInvalidFormat {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidFormat)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
}

func TestNewConfirmationRequired(t *testing.T) {
	err := NewConfirmationRequired("reset", "Delete ALL data? This cannot be undone.")

	if err.Code != ErrConfirmationRequired {
		t.Errorf("Code = %q, want %q", err.Code, ErrConfirmationRequired)
	}
	if err.Status != 428 {
		t.Errorf("Status = %d, want 428", err.Status)
	}
	if err.Details["prompt"] != "Delete ALL data? This cannot be undone." {
		t.Errorf("Details[prompt] = %v", err.Details["prompt"])
	}
}

func TestNewPersistFailed(t *testing.T) {
	err := NewPersistFailed(fmt.Errorf("disk full"))

	if err.Code != ErrPersistFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrPersistFailed)
	}
	if err.Status != 507 {
		t.Errorf("Status = %d, want 507", err.Status)
	}
	if err.Message != "change applied but not saved: disk full" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewCategoryNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewCategoryNotFound("test")
		if Is(err, ErrCategoryExists) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-SupplyError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-SupplyError")
		}
	})

	t.Run("wrapped SupplyError", func(t *testing.T) {
		wrapped := fmt.Errorf("import: %w", NewInvalidFormat("bad"))
		if !Is(wrapped, ErrInvalidFormat) {
			t.Error("Is() = false, want true for wrapped SupplyError")
		}
	})
}
