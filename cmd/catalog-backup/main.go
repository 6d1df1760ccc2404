// Command catalog-backup archives the durable storefront state (the catalog
// file and the uploaded image blobs) into a single tar.gz stream.
package main

import (
	"archive/tar"
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
)

func main() {
	var (
		dataDir string
		outPath string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalog.json and uploads/")
	flag.StringVar(&outPath, "out", "", "output archive path (default futurshop-backup-<timestamp>.tar.gz)")
	flag.Parse()

	if outPath == "" {
		outPath = fmt.Sprintf("futurshop-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, outPath); err != nil {
		slog.Error("backup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("backup completed", slog.String("archive", outPath))
}

func run(ctx context.Context, dataDir, outPath string) error {
	if _, err := os.Stat(dataDir); err != nil {
		return errors.Wrap(err, "check data dir")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create archive")
	}
	defer out.Close()

	gz := pgzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	absOut, err := filepath.Abs(outPath)
	if err != nil {
		return errors.Wrap(err, "resolve archive path")
	}

	err = filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// The archive itself may live inside the data dir.
		if abs, err := filepath.Abs(path); err == nil && abs == absOut {
			return nil
		}
		return addFile(tw, dataDir, path, d)
	})
	if err != nil {
		return errors.Wrap(err, "walk data dir")
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "finalize tar stream")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "finalize gzip stream")
	}
	return out.Close()
}

func addFile(tw *tar.Writer, root, path string, d fs.DirEntry) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return errors.Wrapf(err, "relativize %s", path)
	}

	info, err := d.Info()
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrapf(err, "tar header %s", path)
	}
	hdr.Name = filepath.ToSlash(rel)

	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "write header %s", rel)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return errors.Wrapf(err, "archive %s", rel)
	}

	slog.Debug("archived", slog.String("file", rel), slog.Int64("bytes", info.Size()))
	return nil
}
