package api

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "Please log in to continue", Describe(fmt.Errorf("listUsers: %w", ErrUnauthenticated)))
	assert.Equal(t, "You don't have permission to do that", Describe(fmt.Errorf("createArticle: %w", ErrForbidden)))
	assert.Equal(t, "boom", Describe(&RequestFailedError{Op: "x", Message: "boom"}))
	assert.Equal(t, "Unexpected response from server", Describe(&DecodeFailedError{Op: "x", Err: errors.New("bad")}))
	assert.Equal(t, "other", Describe(errors.New("other")))
}

func TestClip(t *testing.T) {
	short := "Titre déjà pris"
	assert.Equal(t, short, clip(short))

	ascii := strings.Repeat("a", maxMessage+50)
	assert.Equal(t, ascii[:maxMessage], clip(ascii))

	// "é" is two bytes, so byte maxMessage falls inside a rune.
	accented := "x" + strings.Repeat("é", maxMessage)
	got := clip(accented)
	assert.True(t, utf8.ValidString(got), "clip produced invalid UTF-8: %q", got[len(got)-4:])
	assert.Equal(t, maxMessage-1, len(got))
	assert.True(t, strings.HasPrefix(accented, got))
}
