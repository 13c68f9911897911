package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("short")
	assert.False(t, ok)

	ok, reason := ValidatePassword("longenough")
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestValidateRelativePath(t *testing.T) {
	assert.True(t, ValidateRelativePath("uploads/after/1.jpg"))
	assert.False(t, ValidateRelativePath(""))
	assert.False(t, ValidateRelativePath("/etc/passwd"))
	assert.False(t, ValidateRelativePath("../secrets.txt"))
	assert.False(t, ValidateRelativePath("uploads/../../etc/passwd"))
	assert.False(t, ValidateRelativePath("uploads\\after\\1.jpg"))
}

func TestSanitizePathList(t *testing.T) {
	out, ok := SanitizePathList([]string{" uploads/a.jpg ", "uploads/b.mp4"})
	assert.True(t, ok)
	assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.mp4"}, out)

	_, ok = SanitizePathList([]string{"uploads/a.jpg", "../evil"})
	assert.False(t, ok)
}
