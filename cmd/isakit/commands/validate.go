package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openisa/isakit/conf"
	"github.com/openisa/isakit/errors"
	"github.com/openisa/isakit/isa/validate"
	"github.com/openisa/isakit/logger"
)

var (
	validateFormat         string
	validateSchemaPath     string
	validateWatch          bool
	validateCheckDataFiles bool
)

// ValidateCmd represents the validate command
var ValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate an ISA-JSON document",
	Long: `Validate an ISA-JSON investigation document and print the complete
diagnostic report.

Validation is exhaustive: schema conformance is checked first (a schema
violation is fatal and stops everything else), then every structural and
cross-reference check runs and appends to the report regardless of earlier
findings.

Examples:
  isakit validate i_investigation.json
  isakit validate --format json i_investigation.json
  isakit validate --check-data-files i_investigation.json
  isakit validate --watch i_investigation.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateCommand,
}

func init() {
	ValidateCmd.Flags().StringVarP(&validateFormat, "format", "f", "table", "Output format (table/json/yaml)")
	ValidateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to a replacement investigation schema")
	ValidateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "Re-validate whenever the file changes")
	ValidateCmd.Flags().BoolVar(&validateCheckDataFiles, "check-data-files", false, "Verify declared data files exist on disk")
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := conf.Load()
	if err != nil {
		return err
	}
	opts := validate.Options{
		SchemaPath:     validateSchemaPath,
		CheckDataFiles: validateCheckDataFiles || cfg.Validate.CheckDataFiles,
	}
	if opts.SchemaPath == "" {
		opts.SchemaPath = cfg.Schema.Path
	}

	if validateWatch {
		return watchAndValidate(path, opts, cfg.Watch.DebounceMS)
	}

	report, err := validate.File(path, opts)
	if err != nil {
		return err
	}
	if err := renderReport(report); err != nil {
		return err
	}
	if !report.Valid() {
		cmd.SilenceUsage = true
		return errors.Newf("%s is not valid: %d errors, %d fatal",
			path, report.Count(validate.SeverityError), report.Count(validate.SeverityFatal))
	}
	return nil
}

// watchAndValidate re-runs validation whenever the document is written,
// debounced so editors that write in bursts trigger a single run.
func watchAndValidate(path string, opts validate.Options, debounceMS int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// the old inode's watch dies with it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}

	runOnce := func() {
		report, err := validate.File(path, opts)
		if err != nil {
			pterm.Error.Printf("validation run failed: %v\n", err)
			return
		}
		if err := renderReport(report); err != nil {
			pterm.Error.Printf("failed to render report: %v\n", err)
		}
	}
	runOnce()
	pterm.Info.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)

	debounce := time.Duration(debounceMS) * time.Millisecond
	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, runOnce)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("file watcher error: %v", watchErr)
		}
	}
}

func renderReport(report *validate.Report) error {
	switch validateFormat {
	case "json":
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to render report")
		}
		fmt.Println(string(output))
	case "yaml":
		output, err := yaml.Marshal(report)
		if err != nil {
			return errors.Wrap(err, "failed to render report")
		}
		fmt.Print(string(output))
	default:
		displayReport(report)
	}
	return nil
}

func displayReport(report *validate.Report) {
	if len(report.Diagnostics) == 0 {
		pterm.Success.Printf("%s is valid (no diagnostics)\n", report.File)
		return
	}

	rows := pterm.TableData{{"Severity", "Message"}}
	for _, d := range report.Diagnostics {
		rows = append(rows, []string{severityLabel(d.Severity), d.Message})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		for _, d := range report.Diagnostics {
			fmt.Printf("%-8s %s\n", d.Severity, d.Message)
		}
	}

	pterm.Println()
	if report.Valid() {
		pterm.Success.Printf("%s is valid (%d warnings)\n",
			report.File, report.Count(validate.SeverityWarning))
	} else {
		pterm.Error.Printf("%s is not valid: %d errors, %d fatal, %d warnings\n",
			report.File,
			report.Count(validate.SeverityError),
			report.Count(validate.SeverityFatal),
			report.Count(validate.SeverityWarning))
	}
}

func severityLabel(severity validate.Severity) string {
	switch severity {
	case validate.SeverityFatal:
		return pterm.BgRed.Sprint(" FATAL ")
	case validate.SeverityError:
		return pterm.FgRed.Sprint("error")
	case validate.SeverityWarning:
		return pterm.FgYellow.Sprint("warning")
	default:
		return string(severity)
	}
}
