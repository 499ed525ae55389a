package main

import (
	"context"
	"errors"

	"github.com/spf13/viper"

	"budgetwise/internal/auth"
	"budgetwise/internal/auth/httpprovider"
)

var errNotLoggedIn = errors.New("not logged in, run `budgetctl login` first")

// newAuthClient builds an auth client from the configured API URL and
// session file, loading any stored session.
func newAuthClient(ctx context.Context) *auth.Client {
	provider := httpprovider.New(viper.GetString("api_url"), viper.GetString("session_file"))
	client := auth.NewClient(provider, auth.NewSessionManager(provider))
	client.Initialize(ctx)
	return client
}

// resultErr turns a failed result into an error for cobra to print.
func resultErr[T any](r auth.Result[T]) error {
	if r.Success {
		return nil
	}
	if r.Error == nil {
		return errors.New("request failed")
	}
	return r.Error
}
