package commands

import (
	"fmt"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintools/proceeds/pkg/runtime/terminal/export"
	"github.com/fintools/proceeds/pkg/services/fiscal"
)

type PeriodsCmd struct {
	count    int
	reporter *export.Reporter
}

func NewPeriodsCmd(reporter *export.Reporter) *cobra.Command {
	pc := &PeriodsCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List recent fiscal periods",
		RunE:  pc.run,
	}

	cmd.Flags().IntVarP(&pc.count, "count", "n", 12, "Number of periods to list")

	return cmd
}

func (pc *PeriodsCmd) run(_ *cobra.Command, _ []string) error {
	return pc.reporter.HandlePeriods(fiscal.RecentPeriods(time.Now(), pc.count))
}

func defaultCredentialsPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".proceeds/credentials"
	}
	return fmt.Sprintf("%s/.proceeds/credentials", usr.HomeDir)
}
