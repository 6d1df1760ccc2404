// Package uploads accepts multipart image payloads and stores them in a
// write-once blob area on disk. Stored files are never overwritten, updated,
// or deleted.
package uploads

import (
	"context"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxFiles is the maximum number of images per submission.
	MaxFiles = 4
	// MaxFileSize caps each individual file at 4 MiB.
	MaxFileSize = 4 << 20
	// PathPrefix is the URL prefix under which stored images are served.
	PathPrefix = "/uploads/"
)

// IntakeError describes a rejected upload: bad file count, a non-image
// content type, or an oversized file. It is surfaced as a form message.
type IntakeError struct {
	Message string
}

func (e *IntakeError) Error() string {
	return e.Message
}

// Intake validates image submissions and writes accepted files to dir.
type Intake struct {
	dir string
}

// NewIntake creates the blob directory when missing and returns an Intake
// writing into it.
func NewIntake(dir string) (*Intake, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}
	return &Intake{dir: dir}, nil
}

// AcceptImages validates every file, then writes them all concurrently.
// On success it returns one stable reference path per file, in submission
// order. Validation rejects the whole batch before anything is written;
// oversized or non-image files are called out individually.
func (in *Intake) AcceptImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 || len(files) > MaxFiles {
		return nil, &IntakeError{Message: "between 1 and 4 images are required"}
	}
	for _, fh := range files {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, &IntakeError{Message: "only images are allowed"}
		}
		if fh.Size > MaxFileSize {
			return nil, &IntakeError{Message: "image " + fh.Filename + " exceeds the 4 MiB limit"}
		}
	}

	refs := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, fh := range files {
		name := generateName(fh.Filename)
		refs[i] = PathPrefix + name
		g.Go(in.saveFile(ctx, name, fh))
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "store images")
	}
	return refs, nil
}

// saveFile returns a task that copies one part into the blob area. The
// destination is opened with O_EXCL so a generated-name collision fails
// instead of clobbering an existing blob.
func (in *Intake) saveFile(ctx context.Context, name string, fh *multipart.FileHeader) func() error {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, err := fh.Open()
		if err != nil {
			return errors.Wrapf(err, "open part %s", fh.Filename)
		}
		defer src.Close()

		dst, err := os.OpenFile(filepath.Join(in.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return errors.Wrapf(err, "create blob %s", name)
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return errors.Wrapf(err, "write blob %s", name)
		}
		return dst.Close()
	}
}

// generateName builds a collision-resistant stored name: millisecond
// timestamp, a random suffix, and the original extension lower-cased.
func generateName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.Itoa(rand.IntN(100_000_000)) + ext
}
