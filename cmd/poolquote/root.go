package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simplici0/poolsmart/internal/config"
	"github.com/Simplici0/poolsmart/internal/document"
	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/logger"
	"github.com/Simplici0/poolsmart/internal/pricing"
	"github.com/Simplici0/poolsmart/internal/webhook"
)

// app carries what every subcommand needs. Tests replace the clock and the
// configuration.
type app struct {
	cfg       config.Config
	log       logger.Logger
	now       func() time.Time
	reference string
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{now: time.Now})
}

func newRootCmdFor(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "poolquote",
		Short: "Price pool jobs from the command line",
		Long: `poolquote prices a pool job described in a JSON file and renders,
exports or delivers the result.

The job file uses the same fields as the web form. Fields left out keep the
form defaults (rectangular, new construction, ceramics and thermal floor,
standard tiles, excavation, normal access, 50 USD per hour).

Examples:
  poolquote compute job.json
  poolquote compute job.json --format json
  poolquote export job.json --format pdf --out quote.pdf
  poolquote send job.json --url https://hooks.example.com/quotes`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.log == nil {
				a.cfg = config.Load()
				a.log = logger.NewStructured(logger.Options{Level: a.cfg.LogLevel, Format: a.cfg.LogFormat, File: a.cfg.LogFile})
			}
		},
	}
	root.PersistentFlags().StringVar(&a.reference, "reference", "", "quote reference printed on documents")

	root.AddCommand(a.computeCmd(), a.exportCmd(), a.sendCmd())
	return root
}

// loadJob reads a job file over the form defaults and prices it.
func loadJob(path string) (pricing.JobSpec, pricing.Quote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pricing.JobSpec{}, pricing.Quote{}, fmt.Errorf("read job file: %w", err)
	}

	job := pricing.NewJobSpec()
	if err := json.Unmarshal(data, &job); err != nil {
		return job, pricing.Quote{}, fmt.Errorf("decode job file: %w", err)
	}
	if err := normalize(&job); err != nil {
		return job, pricing.Quote{}, err
	}

	q, err := pricing.Calculate(job)
	if err != nil {
		return job, pricing.Quote{}, err
	}
	return job, q, nil
}

func normalize(job *pricing.JobSpec) error {
	var err error
	if job.Dimensions.Shape, err = pricing.ParseShape(string(job.Dimensions.Shape)); err != nil {
		return err
	}
	if job.WorkType, err = pricing.ParseWorkType(string(job.WorkType)); err != nil {
		return err
	}
	if job.Materials.TileGrade, err = pricing.ParseTileGrade(string(job.Materials.TileGrade)); err != nil {
		return err
	}
	if job.Access, err = pricing.ParseAccess(string(job.Access)); err != nil {
		return err
	}
	return nil
}

func (a *app) document(job pricing.JobSpec, q pricing.Quote) document.Document {
	company := document.Company{Name: a.cfg.CompanyName, Handle: a.cfg.CompanyHandle}
	return document.New(a.reference, company, job, q, a.now())
}

func (a *app) computeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "compute <job.json>",
		Short: "Price a job and print the quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, q, err := loadJob(args[0])
			if err != nil {
				return err
			}
			a.log.Debug("quote computed", map[string]interface{}{"workType": string(job.WorkType), "total": pricing.Round2(q.Total)})

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "text":
				_, err = io.WriteString(out, document.RenderText(a.document(job, q)))
				return err
			case "json":
				data, err := export.Marshal(export.Build(a.reference, job, q, a.now()))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			return fmt.Errorf("unknown format %q (use text or json)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <job.json>",
		Short: "Write the quote as a PDF, spreadsheet or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, q, err := loadJob(args[0])
			if err != nil {
				return err
			}

			doc := a.document(job, q)
			var data []byte
			format = strings.ToLower(format)
			switch format {
			case "pdf":
				data, err = document.RenderPDF(doc)
			case "xlsx":
				data, err = document.RenderExcel(doc)
			case "json":
				data, err = export.Marshal(export.Build(a.reference, job, q, doc.IssuedAt))
			default:
				return fmt.Errorf("unknown format %q (use pdf, xlsx or json)", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				out = defaultOutput(job, doc.IssuedAt, format)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "file format: pdf, xlsx or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default derived from the client name and date)")
	return cmd
}

// defaultOutput names export files like the JSON download, swapping the
// extension for other formats.
func defaultOutput(job pricing.JobSpec, issuedAt time.Time, format string) string {
	name := export.Filename(job.Client.Name, issuedAt)
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + format
}

func (a *app) sendCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "send <job.json>",
		Short: "Price a job and post the export payload to the workflow webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, q, err := loadJob(args[0])
			if err != nil {
				return err
			}

			client := webhook.NewClient(webhook.Options{
				URL:        a.cfg.WebhookURL,
				Timeout:    a.cfg.WebhookTimeout,
				MaxRetries: uint64(a.cfg.WebhookMaxRetries),
			}, a.log)
			if err := client.SendTo(cmd.Context(), target, export.Build(a.reference, job, q, a.now())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "quote delivered")
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "url", "", "webhook URL (default WEBHOOK_URL)")
	return cmd
}
