package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/login"
)

type loginConfig struct {
	url           string
	email         string
	password      string
	callback      string
	redirectDelay time.Duration
	timeout       time.Duration
}

func newLoginCmd() *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a running dashboard and open the callback page",
		Long: `Submit a credential to a running dashboard the way the login form does,
print every form state transition, then request the page the form would
navigate to with the new session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.url, "url", "http://localhost:8080", "dashboard base URL")
	cmd.Flags().StringVar(&cfg.email, "email", "", "account email")
	cmd.Flags().StringVar(&cfg.password, "password", "", "account password")
	cmd.Flags().StringVar(&cfg.callback, "callback", login.DefaultCallbackURL, "page to open after signing in")
	cmd.Flags().DurationVar(&cfg.redirectDelay, "redirect-delay", login.DefaultRedirectDelay, "pause between success and navigation")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 15*time.Second, "overall time limit")

	return cmd
}

func runLogin(cmd *cobra.Command, cfg *loginConfig) error {
	sub, err := login.NewHTTPSubmitter(cfg.url)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	navigated := make(chan string, 1)
	o := login.New(sub,
		login.NavigatorFunc(func(target string) { navigated <- target }),
		login.WithCallbackURL(cfg.callback),
		login.WithRedirectDelay(cfg.redirectDelay),
		login.WithObserver(func(s login.State) { printState(out, s) }),
	)
	defer o.Close()

	state := o.Submit(cfg.email, cfg.password)
	if state.Status == login.StatusError {
		return fmt.Errorf("login rejected before submission")
	}
	o.Wait()
	if final := o.State(); final.Status == login.StatusError {
		return fmt.Errorf("login failed: %s", final.Message)
	}

	var target string
	select {
	case target = <-navigated:
	case <-time.After(cfg.timeout):
		return fmt.Errorf("login: no navigation within %s", cfg.timeout)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sub.Resolve(target), nil)
	if err != nil {
		return err
	}
	resp, err := sub.Client().Do(req)
	if err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	fmt.Fprintf(out, "GET %s -> %d\n", target, resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open %s: unexpected status %d", target, resp.StatusCode)
	}
	return nil
}

func printState(w io.Writer, s login.State) {
	switch {
	case s.Message != "":
		fmt.Fprintf(w, "%s: %s\n", s.Status, s.Message)
	case !s.FieldErrors.Empty():
		for field, msgs := range s.FieldErrors {
			for _, msg := range msgs {
				fmt.Fprintf(w, "%s: %s: %s\n", s.Status, field, msg)
			}
		}
	case s.Target != "":
		fmt.Fprintf(w, "%s: %s\n", s.Status, s.Target)
	default:
		fmt.Fprintf(w, "%s\n", s.Status)
	}
}
