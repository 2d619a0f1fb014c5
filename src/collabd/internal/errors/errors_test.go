package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBadRequest(t *testing.T) {
	nb := New("not bad request")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "no user",
			err:  NoUserError,
			want: true,
		},
		{
			name: "no branch selected",
			err:  NoBranchSelectedError,
			want: true,
		},
		{
			name: "not bad request",
			err:  nb,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsBadRequest(tt.err))
		})
	}
}

func TestLockHolder(t *testing.T) {
	err := fmt.Errorf("acquiring: %w", &LockHeldError{FilePath: "guide.md", BranchName: "main", HeldBy: "userB"})
	holder, ok := LockHolder(err)
	assert.True(t, ok)
	assert.Equal(t, "userB", holder)

	_, ok = LockHolder(New("unrelated"))
	assert.False(t, ok)
}

func TestIsDraftNotFound(t *testing.T) {
	err := fmt.Errorf("loading: %w", &DraftNotFoundError{FilePath: "a.md", BranchName: "main"})
	assert.True(t, IsDraftNotFound(err))
	assert.False(t, IsDraftNotFound(New("unrelated")))
	assert.Contains(t, err.Error(), `no draft for file "a.md"`)
}

func TestIsTimeout(t *testing.T) {
	err := fmt.Errorf("running: %w", &OperationTimeoutError{Operation: "save", Timeout: 0})
	assert.True(t, IsTimeout(err))
	assert.False(t, IsTimeout(New("unrelated")))
}
