package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ramazansancar/stock-cost-calculator/internal/app"
	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/snapshot"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExportCmd(rc *RootConfig) *cobra.Command {
	var (
		share  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active profile as a snapshot or a share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withApp(cmd, func(a *app.App) error {
				s := a.Ledger.Export()

				var data []byte
				if share != "" {
					link, err := snapshot.ShareURL(share, s)
					if err != nil {
						return err
					}
					data = []byte(link + "\n")
				} else {
					raw, err := snapshot.Marshal(s)
					if err != nil {
						return err
					}
					data = append(raw, '\n')
				}

				if output == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return errors.Wrap(err, "failed to write export")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d transactions to %s\n", len(s.Transactions), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&share, "share", "", "print a share link on this base url instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCmd(rc *RootConfig) *cobra.Command {
	var (
		mode string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a snapshot file (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ledger.ParseMode(mode)
			if err != nil {
				return err
			}
			payload, source, err := readPayload(cmd, args[0])
			if err != nil {
				return err
			}

			return rc.withApp(cmd, func(a *app.App) error {
				res, err := a.Ledger.Import(payload, m, source)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if p := res.Pending; p != nil {
					fmt.Fprintln(out, p.Prompt())
					if !yes && args[0] == "-" {
						if err := a.Ledger.Reject(p.ID); err != nil {
							return err
						}
						return errors.New("stdin holds the snapshot, rerun with --yes to replace")
					}
					if !yes && !confirmed(cmd.InOrStdin()) {
						if err := a.Ledger.Reject(p.ID); err != nil {
							return err
						}
						fmt.Fprintln(out, "import cancelled")
						return nil
					}
					if err := a.Ledger.Confirm(p.ID); err != nil {
						return err
					}
					res.Imported = p.Incoming
				}

				if res.Profile != nil {
					fmt.Fprintf(out, "opened %d transactions as profile %s\n", res.Imported, res.Profile.ID)
					return nil
				}
				fmt.Fprintf(out, "imported %d transactions (%s)\n", res.Imported, m)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(ledger.ModeReplace), "replace, append or view")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm a replace without asking")
	return cmd
}

func readPayload(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), ledger.SourceText, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to read import file")
	}
	return string(data), ledger.SourceFile, nil
}

func confirmed(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
