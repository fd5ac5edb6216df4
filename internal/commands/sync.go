package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/storage"
	tocksync "github.com/balkashynov/tock/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the local database with the shared snapshot",
	Long: `Reconcile the local database with the snapshot stored in the S3 bucket.

Newer rows win on each side, remote-only rows are copied in, and the merged
database is uploaded again. Run it on each device when you switch.

Configure the bucket in ~/.tock/.env or the environment:
  S3_ENDPOINT=play.min.io
  S3_ACCESS_KEY=...
  S3_SECRET_KEY=...
  S3_BUCKET=tock`,
	Args: cobra.NoArgs,
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		gw, err := storage.NewS3Gateway(a.cfg.Storage, a.logger)
		if err != nil {
			return err
		}

		syncer := tocksync.New(db.DB, gw, tocksync.Options{
			Bucket:    a.cfg.Storage.Bucket,
			Key:       a.cfg.SnapshotKey(),
			LocalPath: a.cfg.DBPath,
			Out:       a.out,
			Logger:    a.logger,
		})

		_, err = syncer.Sync(cmd.Context())
		return err
	}),
}
