package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/metadata"
)

type metadataStore interface {
	ListRawMetadata(ctx context.Context) ([]database.RawMetadata, error)
	UpdateRecipeMetadata(ctx context.Context, id uuid.UUID, raw []byte) error
}

type backupUploader interface {
	UploadJSON(ctx context.Context, key string, body []byte) error
}

type malformedRecord struct {
	ID    uuid.UUID
	Title string
	Err   error
}

type migrationReport struct {
	Scanned   int
	Canonical int
	Rewritten int
	Failed    int
	Malformed []malformedRecord
	BackupKey string
}

// migrateMetadata rewrites every record in canonical shape. Records that
// already decode to themselves are left alone, so running it twice writes
// nothing the second time. With a backup uploader the raw rows are stored
// before anything is written.
func migrateMetadata(ctx context.Context, store metadataStore, backup backupUploader, dryRun bool, now time.Time) (*migrationReport, error) {
	rows, err := store.ListRawMetadata(ctx)
	if err != nil {
		return nil, err
	}
	report := &migrationReport{Scanned: len(rows)}

	if backup != nil && !dryRun {
		body, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to encode backup: %w", err)
		}
		key := config.BackupKey(now)
		if err := backup.UploadJSON(ctx, key, body); err != nil {
			return nil, err
		}
		report.BackupKey = key
	}

	for _, row := range rows {
		m, err := metadata.Decode(row.Metadata)
		if err != nil {
			report.Malformed = append(report.Malformed, malformedRecord{ID: row.ID, Title: row.Title, Err: err})
			continue
		}
		canonical, err := metadata.Encode(m)
		if err != nil {
			return nil, err
		}
		if sameJSON(row.Metadata, canonical) {
			report.Canonical++
			continue
		}
		if dryRun {
			report.Rewritten++
			continue
		}
		if err := store.UpdateRecipeMetadata(ctx, row.ID, canonical); err != nil {
			report.Failed++
			continue
		}
		report.Rewritten++
	}
	return report, nil
}

// sameJSON compares documents by value since jsonb does not keep key order.
func sameJSON(a, b []byte) bool {
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

func printMigrationReport(out io.Writer, report *migrationReport, dryRun bool) {
	verb := "Rewritten"
	if dryRun {
		verb = "Would rewrite"
	}
	fmt.Fprintf(out, "Scanned:   %d\n", report.Scanned)
	fmt.Fprintf(out, "Canonical: %d\n", report.Canonical)
	fmt.Fprintf(out, "%s: %d\n", verb, report.Rewritten)
	if report.Failed > 0 {
		fmt.Fprintf(out, "Failed:    %d\n", report.Failed)
	}
	if report.BackupKey != "" {
		fmt.Fprintf(out, "Backup:    %s\n", report.BackupKey)
	}
	if len(report.Malformed) == 0 {
		return
	}
	rows := make([][]string, 0, len(report.Malformed))
	for _, m := range report.Malformed {
		rows = append(rows, []string{m.ID.String(), m.Title, m.Err.Error()})
	}
	fmt.Fprintln(out, "Malformed records (left untouched):")
	fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Error"}, rows))
}

func newMigrateMetadataCommand(ctx *commandContext) *cobra.Command {
	var dryRun, backup bool

	cmd := &cobra.Command{
		Use:   "migrate-metadata",
		Short: "Rewrite recipe metadata in canonical shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}

			var uploader *config.S3Config
			if backup {
				s3cfg, err := config.NewS3Config(cmd.Context(), ctx.cfg)
				if err != nil {
					return err
				}
				uploader = s3cfg
			}

			var target backupUploader
			if uploader != nil {
				target = uploader
			}
			report, err := migrateMetadata(cmd.Context(), database.NewRecipeRepository(ctx.db), target, dryRun, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printMigrationReport(out, report, dryRun)
			if uploader != nil && report.BackupKey != "" {
				url, err := uploader.GeneratePresignedURL(cmd.Context(), report.BackupKey, time.Hour)
				if err != nil {
					ctx.log.Warn().Err(err).Msg("failed to presign backup url")
				} else {
					fmt.Fprintf(out, "Backup URL (1h): %s\n", url)
				}
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d records could not be written", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&backup, "backup", false, "Upload the raw metadata to S3 before rewriting")
	return cmd
}
