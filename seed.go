package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/cvhariharan/actordir/client"
)

func seedCmd() *cobra.Command {
	var (
		target  string
		count   int
		domain  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create random users and verify they resolve over WebFinger",
		Long: `Create --count users with generated names against the target, then look each
one up through /.well-known/webfinger. The WebFinger domain defaults to the
target's host, matching a server started with DOMAIN unset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(target, timeout)
			if err != nil {
				return err
			}
			if domain == "" {
				domain = c.Host()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Seeding "+target))
			fmt.Fprintln(out)

			created, verified := 0, 0
			for _, u := range fakeUsers(count) {
				okCreate, okVerify := seedUser(cmd.Context(), out, c, u, domain)
				if okCreate {
					created++
				}
				if okVerify {
					verified++
				}
				fmt.Fprintln(out)
			}

			fmt.Fprintln(out, summaryTable("Summary", [][2]string{
				{"Created", fmt.Sprintf("%d/%d users", created, count)},
				{"Verified", fmt.Sprintf("%d/%d webfinger endpoints", verified, count)},
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "http://localhost:8000", "base URL of the server")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of users to create")
	cmd.Flags().StringVar(&domain, "domain", "", "WebFinger domain (defaults to the target host)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

func seedUser(ctx context.Context, out io.Writer, c *client.Client, u client.CreateUserRequest, domain string) (created, verified bool) {
	fmt.Fprintf(out, "Creating user %s...\n", u.Username)
	fmt.Fprintln(out, dimStyle.Render("Display Name: "+u.DisplayName))

	if _, err := c.CreateUser(ctx, u); err != nil {
		fmt.Fprintln(out, fail("Failed to create %s: %v", u.Username, err))
		return false, false
	}
	fmt.Fprintln(out, ok("Created %s", u.Username))

	if _, err := c.WebFinger(ctx, u.Username, domain); err != nil {
		fmt.Fprintln(out, fail("Webfinger failed for %s: %v", u.Username, err))
		return true, false
	}
	fmt.Fprintln(out, ok("Webfinger verified for %s", u.Username))
	return true, true
}

// fakeUsers builds usernames from first initial plus last name, like jsmith.
func fakeUsers(n int) []client.CreateUserRequest {
	users := make([]client.CreateUserRequest, 0, n)
	for i := 0; i < n; i++ {
		first := strings.ToLower(gofakeit.FirstName())
		last := strings.ToLower(gofakeit.LastName())
		users = append(users, client.CreateUserRequest{
			Username:    sanitizeUsername(first[:1] + last),
			DisplayName: fmt.Sprintf("%s (%s)", gofakeit.Name(), gofakeit.JobTitle()),
			Summary:     fmt.Sprintf("%s\n\n%q", gofakeit.HipsterParagraph(1, 2, 8, " "), gofakeit.Sentence(8)),
		})
	}
	return users
}

func sanitizeUsername(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
}
