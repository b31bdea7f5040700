package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/staffmatch/internal/scoring"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Print the available weight profiles",
	Run: func(_ *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		custom, err := customProfiles(config.Matching.Profiles)
		if err != nil {
			log.Fatalf("reading custom weight profiles: %s", err)
		}

		if err := printProfiles(os.Stdout, custom); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func printProfiles(w io.Writer, custom map[string]scoring.Profile) error {
	profiles := make([]scoring.Profile, 0, len(custom)+3)
	for _, name := range scoring.Names() {
		p, err := scoring.Preset(name)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
	}
	for _, name := range sortedProfileNames(custom) {
		profiles = append(profiles, custom[name])
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROLE\tQUALITY\tEXPERIENCE\tLOCATION\tDOCS\tNOTES\tMAX\tHARD FILTER\tORDER")
	for _, p := range profiles {
		l := p.Limits()
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\t%g\t%g\t%g\t%t\t%s\n",
			p.Name, l.RoleMatch, l.Quality, l.Experience, p.Location, l.Documents, l.Notes, l.Total(),
			p.HardFilterOnRoleMatch, p.PrimaryKey)
	}
	return tw.Flush()
}
