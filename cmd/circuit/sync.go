// ABOUTME: CLI commands for syncing preferences through Charm Cloud.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe on the charm kv store.
package main

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/circuit/internal/charm"
	"github.com/harperreed/circuit/internal/config"
	"github.com/harperreed/circuit/internal/prefs"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync streak and reminder settings across devices",
	Long: `Sync streak and reminder settings across devices using Charm Cloud.

Settings are encrypted with your SSH key before upload. Workouts and
exercises stay in the local SQLite database.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     circuit sync link

  2. Set "prefs_backend": "charm" in ~/.config/circuit/config.json

  3. Check sync status:
     circuit sync status

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show account info and synced settings
  now         Sync immediately
  repair      Verify and compact the local charm database
  reset       Reset local settings and restore from cloud (destructive)
  wipe        Delete cloud and local settings (destructive)

Settings sync after each change unless charm_auto_sync is false.`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI(cmd, "link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintln(out, "\n✓ Device linked to Charm")

		client, err := openCharm()
		if err != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ Initial sync skipped: %v\n", err)
			return nil
		}
		if err := client.Sync(); err != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ Initial sync failed: %v\n", err)
		} else {
			color.New(color.FgGreen).Fprintln(out, "✓ Initial sync complete")
		}
		warnLocalBackend(cmd)
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local settings.
You can link again later with 'circuit sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Device unlinked from Charm")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		client, err := openCharm()
		if err != nil {
			if errors.Is(err, prefs.ErrReadOnly) {
				return err
			}
			color.New(color.FgYellow).Fprintln(out, "Not linked to Charm")
			fmt.Fprintln(out, "\nRun 'circuit sync link' to connect to Charm.")
			return nil
		}

		id, err := client.ID()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, "Not linked to Charm")
			fmt.Fprintln(out, "\nRun 'circuit sync link' to connect to Charm.")
			return nil
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:", charm.Host())
		fmt.Fprintln(out, "Database:", client.Name())
		fmt.Fprintln(out, "Auto sync:", cfg.GetCharmAutoSync())
		fmt.Fprintln(out)

		keys, err := client.Keys()
		if err != nil {
			return fmt.Errorf("failed to list settings: %w", err)
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Connected to Charm")
		fmt.Fprintf(out, "  Settings: %d\n", len(keys))
		for _, key := range keys {
			value, _, err := client.Get(key)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}
			fmt.Fprintf(out, "    %s = %s\n", key, value)
		}
		warnLocalBackend(cmd)
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync with Charm Cloud immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openCharm()
		if err != nil {
			return err
		}
		if err := client.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Synced with Charm Cloud")
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Verify and compact the local charm database",
	Long: `Verify block checksums, compact the LSM tree, and rewrite value log
files until nothing is left to reclaim.

Use this when the local charm database grows or reports corruption.
If verification fails, run 'circuit sync reset' to rebuild from cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		client, err := openCharm()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Repairing %s...\n", client.Name())
		res, err := client.Repair()
		if err != nil {
			color.New(color.FgRed).Fprintln(out, "  ✗ Repair failed")
			return fmt.Errorf("repair failed: %w", err)
		}
		green := color.New(color.FgGreen)
		green.Fprintln(out, "  ✓ Checksums verified")
		green.Fprintln(out, "  ✓ LSM tree compacted")
		green.Fprintf(out, "  ✓ Value log rewrites: %d\n", res.VlogRewrites)
		fmt.Fprintf(out, "  Size: %d → %d bytes\n", res.LSMBefore+res.VlogBefore, res.LSMAfter+res.VlogAfter)
		green.Fprintln(out, "\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local settings and restore from cloud",
	Long: `Delete the local charm database and restore it from Charm Cloud.

Use this to fix sync conflicts or reset a device to cloud state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ok, err := confirm(cmd.InOrStdin(), out, "This will DELETE local settings and restore from cloud. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		client, err := openCharm()
		if err != nil {
			return err
		}
		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Local settings reset and restored from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local settings",
	Long: `Delete every cloud backup of the settings database and rebuild the
local copy empty. Streak counts and the reminder time are lost on every
linked device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ok, err := confirmTyped(cmd.InOrStdin(), out, "This will PERMANENTLY DELETE all cloud backups and local settings.", "wipe")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		client, err := openCharm()
		if err != nil {
			return err
		}
		res, err := client.Wipe()
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Settings wiped")
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", res.BackupsDeleted)
		fmt.Fprintf(out, "  Local settings deleted: %d\n", res.KeysDeleted)
		return nil
	},
}

// runCharmCLI hands the terminal to the charm binary for account linking.
func runCharmCLI(cmd *cobra.Command, action string) error {
	c := exec.Command("charm", action)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

// openCharm returns the charm client, reusing the prefs store when the
// charm backend is already open.
func openCharm() (*charm.Client, error) {
	if client, ok := prefStore.(*charm.Client); ok {
		return client, nil
	}
	if prefStore != nil {
		if err := prefStore.Close(); err != nil {
			return nil, err
		}
		prefStore = nil
	}
	client, err := cfg.OpenCharm()
	if err != nil {
		return nil, fmt.Errorf("failed to open Charm kv: %w", err)
	}
	prefStore = client
	return client, nil
}

func warnLocalBackend(cmd *cobra.Command) {
	if cfg.GetPrefsBackend() == config.PrefsCharm {
		return
	}
	color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(),
		"\nprefs_backend is %q; set it to %q to use these settings.\n",
		cfg.GetPrefsBackend(), config.PrefsCharm)
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
