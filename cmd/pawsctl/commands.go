package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra/credentials"
)

type campaignReconciler interface {
	Reconcile(ctx context.Context, id int64) (*domain.Campaign, error)
	ReconcileAll(ctx context.Context) (int64, error)
}

type deadLetterQueue interface {
	RequeueDead(ctx context.Context) (int64, error)
}

type integrationStore interface {
	Set(ctx context.Context, provider, token string) error
	List(ctx context.Context) ([]credentials.Integration, error)
}

type deps struct {
	campaigns    campaignReconciler
	outbox       deadLetterQueue
	integrations integrationStore
}

type opener func(ctx context.Context) (*deps, func(), error)

const commandTimeout = 2 * time.Minute

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "pawsctl",
		Short:         "Operator tasks for PawsConnect",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newReconcileCmd(open), newOutboxCmd(open), newIntegrationCmd(open))
	return root
}

// withDeps runs fn with a connected dependency set and a bounded context.
func withDeps(cmd *cobra.Command, open opener, fn func(ctx context.Context, d *deps) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()
	d, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(ctx, d)
}

func newReconcileCmd(open opener) *cobra.Command {
	var campaignID int64
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute raised amounts from donations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				if campaignID == 0 {
					n, err := d.campaigns.ReconcileAll(ctx)
					if err != nil {
						return fmt.Errorf("reconcile campaigns: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d campaigns\n", n)
					return nil
				}
				c, err := d.campaigns.Reconcile(ctx, campaignID)
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("campaign %d not found", campaignID)
				}
				if err != nil {
					return fmt.Errorf("reconcile campaign %d: %w", campaignID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "campaign %d raised %s of %s (%s)\n",
					c.ID, c.RaisedAmount.StringFixed(2), c.TargetAmount.StringFixed(2), c.Status)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&campaignID, "campaign", 0, "reconcile a single campaign id")
	return cmd
}

func newOutboxCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Manage the notification outbox",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "requeue",
		Short: "Move dead notification jobs back to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				n, err := d.outbox.RequeueDead(ctx)
				if err != nil {
					return fmt.Errorf("requeue dead jobs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "requeued %d jobs\n", n)
				return nil
			})
		},
	})
	return cmd
}

func newIntegrationCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration",
		Short: "Manage stored integration tokens",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <provider> <token>",
		Short:     "Store the token for gemini, expo or email",
		Args:      cobra.ExactArgs(2),
		ValidArgs: credentials.Providers,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				if err := d.integrations.Set(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stored %s token\n", args[0])
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				items, err := d.integrations.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PROVIDER\tUPDATED")
				for _, it := range items {
					fmt.Fprintf(tw, "%s\t%s\n", it.Provider, it.UpdatedAt.UTC().Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	})
	return cmd
}
