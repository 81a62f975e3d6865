package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "malformed_path",
			code:    errors.ErrMalformedPath,
			message: "path has no file component",
			wantStr: "[MALFORMED_PATH] path has no file component",
		},
		{
			name:    "duplicate_entry",
			code:    errors.ErrDuplicateEntry,
			message: "Dev/Editor already exists",
			wantStr: "[DUPLICATE_ENTRY] Dev/Editor already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("permission denied")

	err := errors.Wrapf(base, errors.ErrDirCreate, "cannot create %s", "/mnt/c/menus")
	require.NotNil(t, err)

	assert.Equal(t, "[DIR_CREATE] cannot create /mnt/c/menus: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, base))
	assert.Nil(t, errors.Wrap(nil, errors.ErrDirCreate, "ignored"))
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrIconNotFound, "no icon").WithDetail("icon", "edit")

	assert.True(t, errors.IsErrorCode(err, errors.ErrIconNotFound))
	assert.False(t, errors.IsErrorCode(err, errors.ErrIconConvert))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrIconNotFound))
	assert.Equal(t, "edit", errors.GetErrorDetails(err)["icon"])
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIsErrorCodeJoined(t *testing.T) {
	joined := stderrors.Join(
		errors.New(errors.ErrDuplicateEntry, "a"),
		errors.New(errors.ErrDuplicateEntry, "b"),
	)

	assert.True(t, errors.IsErrorCode(joined, errors.ErrDuplicateEntry))
	assert.False(t, errors.IsErrorCode(joined, errors.ErrMenuParse))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.Wrap(stderrors.New("io"), errors.ErrShortcutPersist, "write failed")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrShortcutPersist, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrFileWrite, "")))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		code  errors.ErrorCode
		fatal bool
	}{
		{errors.ErrMenuParse, true},
		{errors.ErrDirCreate, true},
		{errors.ErrPermission, true},
		{errors.ErrDuplicateEntry, false},
		{errors.ErrShortcutPersist, false},
		{errors.ErrIconConvert, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.fatal, errors.IsFatal(errors.New(tt.code, "x")))
		})
	}
	assert.False(t, errors.IsFatal(nil))
}
