package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/logging"
	"github.com/thoreinstein/evdefteri/internal/premium"
)

var premiumJSON bool

func init() {
	premiumStatusCmd.Flags().BoolVar(&premiumJSON, "json", false, "Output in JSON format")
	premiumCmd.AddCommand(premiumStatusCmd)
	rootCmd.AddCommand(premiumCmd)
}

var premiumCmd = &cobra.Command{
	Use:   "premium",
	Short: "Inspect premium entitlements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var premiumStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show premium status",
	Long: `Initialize the entitlement service from the locally cached purchase list
and show its state and the active entitlements.

A missing or unreadable cache is not an error: the service reports
"unavailable" and the app keeps working without premium features.`,
	Example: `  # Show premium status
  evdefteri premium status

  # As JSON
  evdefteri premium status --json`,
	Args: cobra.NoArgs,
	RunE: runPremiumStatus,
}

// premiumOutput is the JSON output of premium status.
type premiumOutput struct {
	State        premium.State         `json:"state"`
	Error        string                `json:"error,omitempty"`
	Entitlements []premium.Entitlement `json:"entitlements"`
}

func runPremiumStatus(cmd *cobra.Command, _ []string) error {
	store, err := cli.OpenStore(flags.GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	svc := premium.NewService(premium.NewStoreProvider(store),
		premium.WithLogger(logging.FromContext(cmd.Context())))
	return runPremiumStatusWithWriter(cmd.Context(), cmd.OutOrStdout(), svc)
}

func runPremiumStatusWithWriter(ctx context.Context, w io.Writer, svc *premium.Service) error {
	state := svc.Init(ctx)
	defer svc.Teardown()

	out := premiumOutput{State: state, Entitlements: []premium.Entitlement{}}
	if err := svc.Err(); err != nil {
		out.Error = err.Error()
	}
	if state == premium.StateReady {
		active, err := svc.Active()
		if err != nil {
			return errors.Wrap(err, "listing entitlements")
		}
		if active != nil {
			out.Entitlements = active
		}
	}

	if premiumJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	fmt.Fprintf(w, "State: %s\n", out.State)
	if out.Error != "" {
		cli.Warnf(w, "%s", out.Error)
	}
	if state != premium.StateReady {
		return nil
	}
	if len(out.Entitlements) == 0 {
		fmt.Fprintln(w, "No active entitlements")
		return nil
	}
	for _, e := range out.Entitlements {
		expiry := "lifetime"
		if e.ExpiresAt != nil {
			expiry = "until " + e.ExpiresAt.Local().Format(time.DateOnly)
		}
		fmt.Fprintf(w, "  %s (%s)\n", e.Product, expiry)
	}
	return nil
}
