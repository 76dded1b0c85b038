package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suratku/suratku/internal/cli"
	"github.com/suratku/suratku/internal/session"
	"github.com/suratku/suratku/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "suratku", root.Use)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: 0},
		{name: "generic error", err: errors.New("boom"), want: 1},
		{
			name: "auth exit error",
			err:  &cli.ExitError{Code: cli.ExitCodeAuth, Err: session.ErrNotLoggedIn},
			want: cli.ExitCodeAuth,
		},
		{
			name: "wrapped exit error",
			err:  fmt.Errorf("loading letters: %w", &cli.ExitError{Code: 3, Err: errors.New("x")}),
			want: 3,
		},
		{
			name: "joined exit error",
			err:  errors.Join(errors.New("outer"), &cli.ExitError{Code: cli.ExitCodeAuth, Err: session.ErrSessionExpired}),
			want: cli.ExitCodeAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
