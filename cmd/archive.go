package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagExportOut     string
	flagImportReplace bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every goal to a YAML archive",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load goals from a YAML archive",
	Long:  "Load goals from a YAML archive. Without --replace the archive is merged and an id that already exists aborts the import.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Archive file (default stdout)")
	importCmd.Flags().BoolVar(&flagImportReplace, "replace", false, "Replace every existing goal")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	gs := s.repo.List()
	if flagExportOut == "" {
		return store.ExportYAML(cmd.OutOrStdout(), gs, time.Now())
	}
	if err := writeArchive(flagExportOut, gs, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "  Exported %d goals to %s\n", len(gs), flagExportOut)
	return nil
}

// writeArchive creates path and writes gs to it. Close errors are reported.
func writeArchive(path string, gs []model.Goal, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	if err := store.ExportYAML(f, gs, now); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gs, err := store.ImportYAML(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	n, err := s.repo.Import(gs, flagImportReplace)
	if err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Imported %d goals into %s\n", n, s.path)
	return nil
}
