package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gradee/skema/upstream/skola24"
)

var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "School directory commands",
}

var schoolsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the public school directory",
	Long: `Import downloads the public school directory and prints every
school as YAML, with a URL-safe slug derived from its name. The output
can be pasted into the schools section of the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schools, err := skola24.ImportSchools(cmd.Context(), nil, "")
		if err != nil {
			return err
		}
		logger.Info("imported school directory", "count", len(schools))
		return yaml.NewEncoder(os.Stdout).Encode(schools)
	},
}

func init() {
	schoolsCmd.AddCommand(schoolsImportCmd)
	rootCmd.AddCommand(schoolsCmd)
}
